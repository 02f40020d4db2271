package directory

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/drive-etl/internal/core/domain"
	"github.com/custodia-labs/drive-etl/internal/core/ports/driven"
)

// Ensure Sink and Factory implement the interfaces.
var (
	_ driven.Sink        = (*Sink)(nil)
	_ driven.SinkFactory = Factory{}
)

// Sink writes each result's output to <dir>/<name><ext>.
// Writes to distinct paths may run concurrently; a repeated path is
// overwritten by the last writer.
type Sink struct {
	dir string
}

// New returns a Sink rooted at dir. The directory must already exist; it is
// never created.
func New(dir string) (*Sink, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, domain.Wrap(domain.ErrSink, "open output directory", err, domain.F("path", dir))
	}
	if !info.IsDir() {
		return nil, domain.Wrap(domain.ErrSink, "open output directory", nil,
			domain.F("path", dir), domain.F("reason", "not a directory"))
	}
	return &Sink{dir: dir}, nil
}

// Write persists rec.Output. Binary payloads are written byte for byte and
// text payloads as UTF-8.
func (s *Sink) Write(ctx context.Context, rec domain.ResultRecord) error {
	name := rec.Output.FileName()
	path := filepath.Join(s.dir, name)

	if err := ctx.Err(); err != nil {
		return domain.Wrap(domain.ErrSink, "write file", err, domain.F("path", path))
	}
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return domain.Wrap(domain.ErrSink, "write file", nil,
			domain.F("path", path), domain.F("reason", "output name does not name a file in the directory"))
	}

	if err := os.WriteFile(path, rec.Output.Data, 0644); err != nil {
		return domain.Wrap(domain.ErrSink, "write file", err, domain.F("path", path))
	}
	return nil
}

// Factory creates directory sinks.
type Factory struct{}

// NewSink implements driven.SinkFactory.
func (Factory) NewSink(outputDirectory string) (driven.Sink, error) {
	return New(outputDirectory)
}
