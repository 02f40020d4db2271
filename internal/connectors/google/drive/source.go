package drive

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/custodia-labs/drive-etl/internal/connectors/google"
	"github.com/custodia-labs/drive-etl/internal/core/domain"
	"github.com/custodia-labs/drive-etl/internal/core/ports/driven"
	"github.com/custodia-labs/drive-etl/internal/logger"
)

// listFields limits list responses to what a descriptor needs.
const listFields googleapi.Field = "nextPageToken, files(id, name, mimeType, fullFileExtension)"

// Ensure Source implements the interface.
var _ driven.RemoteSource = (*Source)(nil)

// Source lists and downloads files from Google Drive.
// Every API request waits on the rate limiter first; nothing is retried.
type Source struct {
	svc     *drive.Service
	cfg     *Config
	limiter *google.RateLimiter
}

// NewSource creates a Source over an authenticated Drive service.
func NewSource(svc *drive.Service, cfg *Config) *Source {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Source{
		svc:     svc,
		cfg:     cfg,
		limiter: google.NewRateLimiterWithConfig(cfg.RateLimit),
	}
}

// NewSourceFactory returns a factory building a Source per run.
// Client options are appended after the credential.
func NewSourceFactory(cfg *Config, opts ...option.ClientOption) driven.SourceFactory {
	return driven.SourceFactoryFunc(func(ctx context.Context, auth driven.AuthHandle) (driven.RemoteSource, error) {
		svc, err := google.NewDriveService(ctx, auth, opts...)
		if err != nil {
			return nil, domain.Wrap(domain.ErrAuth, "create drive service", err)
		}
		return NewSource(svc, cfg), nil
	})
}

// List returns every file directly inside folderID matching fileQuery,
// following pagination. Page order and order within a page are preserved.
func (s *Source) List(ctx context.Context, folderID, fileQuery string) ([]domain.FileDescriptor, error) {
	query := BuildQuery(folderID, fileQuery)

	call := s.svc.Files.List().
		Q(query).
		IncludeItemsFromAllDrives(true).
		SupportsAllDrives(true).
		Spaces("drive").
		PageSize(s.cfg.PageSize).
		Fields(listFields)

	var files []domain.FileDescriptor
	pages := 0

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, listError(err, query, pages)
	}
	err := call.Pages(ctx, func(page *drive.FileList) error {
		pages++
		for _, f := range page.Files {
			files = append(files, toDescriptor(f))
		}
		if page.NextPageToken == "" {
			return nil
		}
		return s.limiter.Wait(ctx)
	})
	if err != nil {
		return nil, listError(err, query, pages)
	}

	logger.Debug("Listed %d files in %d page(s) for query %q", len(files), pages, query)
	return files, nil
}

// Fetch downloads one file in full. A non-nil exportMimeMap selects the
// export method with mimeType = exportMimeMap[file.MIMEType], falling back
// to the file's own type.
func (s *Source) Fetch(
	ctx context.Context, file domain.FileDescriptor, exportMimeMap map[string]string,
) (*domain.InputRecord, error) {
	meta := downloadMeta(file, exportMimeMap)

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fetchError(err, file, meta)
	}

	resp, err := s.download(ctx, file, meta)
	if err != nil {
		return nil, fetchError(err, file, meta)
	}
	defer resp.Body.Close()

	// The body arrives in chunks; the whole file is materialised here.
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, fetchError(err, file, meta)
	}

	name, ext := resolveNameExt(file)
	binary := file.IsBinary()
	data := buf.Bytes()
	if !binary {
		data = []byte(strings.ToValidUTF8(buf.String(), "\uFFFD"))
	}

	return &domain.InputRecord{
		Name:         name,
		Ext:          ext,
		Data:         data,
		Binary:       binary,
		DownloadMeta: meta,
	}, nil
}

func (s *Source) download(ctx context.Context, file domain.FileDescriptor, meta domain.DownloadMeta) (*http.Response, error) {
	if meta.Method == domain.FetchExport {
		return s.svc.Files.Export(file.ID, meta.Parameters["mimeType"]).Context(ctx).Download()
	}
	return s.svc.Files.Get(file.ID).SupportsAllDrives(true).Context(ctx).Download()
}

func downloadMeta(file domain.FileDescriptor, exportMimeMap map[string]string) domain.DownloadMeta {
	params := map[string]string{"fileId": file.ID}

	if exportMimeMap == nil {
		params["alt"] = "media"
		return domain.DownloadMeta{Method: domain.FetchGet, Parameters: params}
	}

	mimeType := exportMimeMap[file.MIMEType]
	if mimeType == "" {
		mimeType = file.MIMEType
	}
	params["mimeType"] = mimeType
	return domain.DownloadMeta{Method: domain.FetchExport, Parameters: params}
}

func listError(err error, query string, pages int) error {
	fields := []domain.Field{
		domain.F("query", query),
		domain.F("pagesRead", pages),
	}
	return domain.Wrap(domain.ErrList, "files.list", err, append(fields, apiFields(err)...)...)
}

func fetchError(err error, file domain.FileDescriptor, meta domain.DownloadMeta) error {
	fields := []domain.Field{
		domain.F("fileName", file.Name),
		domain.F("fileId", file.ID),
		domain.F("mimeType", file.MIMEType),
		domain.F("fullFileExtension", file.FullFileExtension),
		domain.F("method", meta.Method),
	}
	return domain.Wrap(domain.ErrFetch, "download file", err, append(fields, apiFields(err)...)...)
}

// apiFields describes a Google API failure, if err is one.
func apiFields(err error) []domain.Field {
	var fields []domain.Field
	if status := google.Classify(err); status != "" {
		fields = append(fields, domain.F("status", status))
	}
	if reasons := google.Reasons(err); len(reasons) > 0 {
		fields = append(fields, domain.F("reasons", strings.Join(reasons, ", ")))
	}
	return fields
}
