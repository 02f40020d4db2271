package driving

import (
	"context"

	"github.com/custodia-labs/drive-etl/internal/core/domain"
	"github.com/custodia-labs/drive-etl/internal/core/ports/driven"
	"github.com/custodia-labs/drive-etl/internal/stream"
)

// DefaultScopes is the read-only scope used when none are given.
var DefaultScopes = []string{"https://www.googleapis.com/auth/drive.readonly"}

// ExtractOptions configures one extraction run. The zero value is valid.
type ExtractOptions struct {
	// FileQuery narrows the listing. Empty selects every file not in the trash.
	FileQuery string

	// Scopes requested for the delegated credential. Empty means DefaultScopes.
	Scopes []string

	// Auth is a pre-resolved credential. When set, credential resolution is skipped.
	Auth driven.AuthHandle

	// OutputDirectory, when set, persists every result as <name><ext> under it.
	// The directory must already exist.
	OutputDirectory string

	// ExportMimeMap switches every fetch of the run to export mode when non-nil.
	ExportMimeMap map[string]string

	// Transformer converts each record. Nil means passthrough.
	Transformer driven.Transformer
}

// Extractor runs extract-transform over one remote folder.
type Extractor interface {
	// ExtractTransform resolves auth and lists the folder, then returns the
	// stream immediately while files are fetched one at a time in the
	// background. Listing failures are returned here; every later failure
	// terminates the stream instead.
	ExtractTransform(ctx context.Context, folderID, userID string, opts ExtractOptions) (*stream.Stage, error)

	// Load runs ExtractTransform and drains the stream, returning every
	// result in listing order.
	Load(ctx context.Context, folderID, userID string, opts ExtractOptions) ([]domain.ResultRecord, error)
}
