package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/drive-etl/internal/core/domain"
	"github.com/custodia-labs/drive-etl/internal/core/ports/driven"
	"github.com/custodia-labs/drive-etl/internal/core/ports/driving"
	"github.com/custodia-labs/drive-etl/internal/logger"
	"github.com/custodia-labs/drive-etl/internal/stream"
)

// Ensure Extractor implements the interface.
var _ driving.Extractor = (*Extractor)(nil)

// Extractor lists a remote folder and streams its converted files.
type Extractor struct {
	auth    driven.AuthResolver
	sources driven.SourceFactory
	sinks   driven.SinkFactory
}

// NewExtractor creates a new extractor.
// auth may be nil when every run supplies ExtractOptions.Auth; sinks may be
// nil when no run sets an output directory.
func NewExtractor(auth driven.AuthResolver, sources driven.SourceFactory, sinks driven.SinkFactory) *Extractor {
	return &Extractor{
		auth:    auth,
		sources: sources,
		sinks:   sinks,
	}
}

// run carries the per-run values attached to every error.
type run struct {
	id       string
	folderID string
	userID   string
	query    string
	scopes   []string
}

func (r *run) fields() []domain.Field {
	return []domain.Field{
		domain.F("run", r.id),
		domain.F("user", r.userID),
		domain.F("folderId", r.folderID),
		domain.F("fileQuery", r.query),
		domain.F("scopes", strings.Join(r.scopes, " ")),
	}
}

// ExtractTransform resolves credentials and lists folderID, then returns the
// stage while a background loop fetches the listed files one at a time.
func (e *Extractor) ExtractTransform(
	ctx context.Context, folderID, userID string, opts driving.ExtractOptions,
) (*stream.Stage, error) {
	r := &run{
		id:       uuid.NewString(),
		folderID: folderID,
		userID:   userID,
		query:    opts.FileQuery,
		scopes:   opts.Scopes,
	}
	if len(r.scopes) == 0 {
		r.scopes = driving.DefaultScopes
	}

	logger.Section("Extract")
	logger.Info("Run %s: folder %s as %q", r.id, folderID, userID)

	if folderID == "" {
		return nil, domain.Wrap(domain.ErrInvalidInput, "extract", nil,
			append(r.fields(), domain.F("reason", "folder id is required"))...)
	}
	if e.sources == nil {
		return nil, domain.Wrap(domain.ErrInvalidInput, "extract", nil,
			append(r.fields(), domain.F("reason", "no remote source configured"))...)
	}

	// 1. Credentials
	auth, err := e.resolveAuth(ctx, r, opts.Auth)
	if err != nil {
		return nil, err
	}

	// 2. Listing
	src, err := e.sources.NewSource(ctx, auth)
	if err != nil {
		return nil, e.listError(r, err)
	}
	started := time.Now()
	files, err := src.List(ctx, folderID, opts.FileQuery)
	if err != nil {
		return nil, e.listError(r, err)
	}
	logger.Elapsed("list files", started)
	logger.Info("Run %s: %d file(s) listed", r.id, len(files))

	// 3. Stage, with the directory sink as a listener
	stage := stream.New(ctx, tagTransformer(r, opts.Transformer))
	if opts.OutputDirectory != "" {
		listener, err := e.sinkListener(r, opts.OutputDirectory)
		if err != nil {
			stage.Fail(err)
			return nil, err
		}
		stage.OnData(listener)
	}

	// 4. Serialised fetch loop
	go e.fetchAll(r, src, files, opts.ExportMimeMap, stage)

	return stage, nil
}

// Load runs ExtractTransform and drains the stage. Results emitted before a
// failure are returned together with the error.
func (e *Extractor) Load(
	ctx context.Context, folderID, userID string, opts driving.ExtractOptions,
) ([]domain.ResultRecord, error) {
	stage, err := e.ExtractTransform(ctx, folderID, userID, opts)
	if err != nil {
		return nil, err
	}
	return stage.Collect(ctx)
}

func (e *Extractor) resolveAuth(ctx context.Context, r *run, explicit driven.AuthHandle) (driven.AuthHandle, error) {
	if e.auth == nil {
		if explicit != nil {
			return explicit, nil
		}
		return nil, domain.Wrap(domain.ErrAuth, "resolve credentials", nil,
			append(r.fields(), domain.F("reason", "no credential resolver configured"))...)
	}

	auth, err := e.auth.Resolve(ctx, r.userID, r.scopes, explicit)
	if err != nil {
		return nil, domain.Wrap(domain.ErrAuth, "resolve credentials", err,
			append(r.fields(), domain.F("credentials", e.auth.Describe()))...)
	}
	return auth, nil
}

func (e *Extractor) listError(r *run, err error) error {
	fields := r.fields()
	if e.auth != nil {
		fields = append(fields, domain.F("credentials", e.auth.Describe()))
	}
	return domain.Wrap(domain.ErrList, "list folder", err, fields...)
}

func (e *Extractor) sinkListener(r *run, dir string) (stream.Listener, error) {
	if e.sinks == nil {
		return nil, domain.Wrap(domain.ErrSink, "open output directory", nil,
			domain.F("run", r.id), domain.F("outputDirectory", dir), domain.F("reason", "no sink configured"))
	}
	sink, err := e.sinks.NewSink(dir)
	if err != nil {
		return nil, domain.Wrap(domain.ErrSink, "open output directory", err,
			domain.F("run", r.id), domain.F("outputDirectory", dir))
	}

	return func(ctx context.Context, rec domain.ResultRecord) error {
		if err := sink.Write(ctx, rec); err != nil {
			return domain.Wrap(domain.ErrSink, "persist result", err,
				domain.F("run", r.id), domain.F("fileName", rec.Output.FileName()))
		}
		logger.Debug("Run %s: wrote %s", r.id, rec.Output.FileName())
		return nil
	}, nil
}

// fetchAll downloads files strictly in order. The next fetch starts only
// after the stage has emitted the previous record. Sink writes are not awaited.
func (e *Extractor) fetchAll(
	r *run, src driven.RemoteSource, files []domain.FileDescriptor,
	exportMimeMap map[string]string, stage *stream.Stage,
) {
	ctx := stage.Context()
	for i, file := range files {
		if ctx.Err() != nil {
			return
		}

		logger.Debug("Run %s: fetching %d/%d %s", r.id, i+1, len(files), file.Name)
		in, err := src.Fetch(ctx, file, exportMimeMap)
		if err != nil {
			stage.Fail(domain.Wrap(domain.ErrFetch, "download files", err,
				domain.F("run", r.id),
				domain.F("failingFileName", file.Name),
				domain.F("index", i),
				domain.F("remaining", len(files)-i-1),
			))
			return
		}

		if err := stage.Write(ctx, *in); err != nil {
			if !errors.Is(err, context.Canceled) {
				logger.Debug("Run %s: stage %s, stopped at %s: %v", r.id, stage.State(), file.Name, err)
			}
			return
		}
	}

	stage.End()
	logger.Info("Run %s: all %d file(s) handed to the stage", r.id, len(files))
}

// tagTransformer wraps t so failures carry the run id and file name.
func tagTransformer(r *run, t driven.Transformer) driven.Transformer {
	if t == nil {
		t = driven.PassthroughTransformer
	}
	return func(ctx context.Context, in domain.InputRecord) (domain.ResultRecord, error) {
		res, err := t(ctx, in)
		if err != nil {
			return domain.ResultRecord{}, domain.Wrap(domain.ErrConvert, "transform", err,
				domain.F("run", r.id), domain.F("fileName", in.Name+in.Ext))
		}
		return res, nil
	}
}
