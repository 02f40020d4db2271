package driven

import (
	"context"

	"github.com/custodia-labs/drive-etl/internal/core/domain"
)

// RemoteSource lists and downloads files from a remote folder.
type RemoteSource interface {
	// List returns the descriptors of the files directly inside folderID that
	// match fileQuery, in the provider's order. An empty fileQuery selects
	// every file that is not trashed.
	List(ctx context.Context, folderID, fileQuery string) ([]domain.FileDescriptor, error)

	// Fetch downloads one file and materialises it fully.
	// A non-nil exportMimeMap switches the download to export mode.
	Fetch(ctx context.Context, file domain.FileDescriptor, exportMimeMap map[string]string) (*domain.InputRecord, error)
}

// SourceFactory creates a RemoteSource authenticated with the given handle.
type SourceFactory interface {
	NewSource(ctx context.Context, auth AuthHandle) (RemoteSource, error)
}

// SourceFactoryFunc adapts a function to SourceFactory.
type SourceFactoryFunc func(ctx context.Context, auth AuthHandle) (RemoteSource, error)

// NewSource calls f.
func (f SourceFactoryFunc) NewSource(ctx context.Context, auth AuthHandle) (RemoteSource, error) {
	return f(ctx, auth)
}
