package converters

import (
	"context"
	"strings"
	"sync"

	"github.com/custodia-labs/drive-etl/internal/converters/jsoncompact"
	"github.com/custodia-labs/drive-etl/internal/converters/markdown"
	"github.com/custodia-labs/drive-etl/internal/core/domain"
	"github.com/custodia-labs/drive-etl/internal/core/ports/driven"
)

// Converter produces an output record for the extensions it supports.
type Converter interface {
	// Extensions returns the extensions handled, each with a leading dot.
	Extensions() []string

	// Convert transforms one record. Errors must name the failing file.
	Convert(ctx context.Context, in domain.InputRecord) (domain.OutputRecord, error)
}

// Ensure the registry can serve as a run's transformer.
var _ driven.Transformer = (*Registry)(nil).Transform

// Registry maps extensions to converters.
type Registry struct {
	mu    sync.RWMutex
	byExt map[string]Converter
}

// NewRegistry creates a registry holding the given converters.
// Later converters win when extensions overlap.
func NewRegistry(cs ...Converter) *Registry {
	r := &Registry{byExt: make(map[string]Converter)}
	for _, c := range cs {
		r.Register(c)
	}
	return r
}

// Default returns a registry with the Markdown and JSON converters.
func Default() *Registry {
	return NewRegistry(markdown.New(), jsoncompact.New())
}

// Register adds c for each of its extensions.
func (r *Registry) Register(c Converter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range c.Extensions() {
		r.byExt[normaliseExt(ext)] = c
	}
}

// Lookup returns the converter for ext, if any.
func (r *Registry) Lookup(ext string) (Converter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byExt[normaliseExt(ext)]
	return c, ok
}

// Len returns the number of registered extensions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byExt)
}

// Transform converts in when its extension is recognised and passes it
// through otherwise. The passthrough path never fails.
func (r *Registry) Transform(ctx context.Context, in domain.InputRecord) (domain.ResultRecord, error) {
	c, ok := r.Lookup(in.Ext)
	if !ok {
		return domain.Passthrough(in), nil
	}

	out, err := c.Convert(ctx, in)
	if err != nil {
		return domain.ResultRecord{}, err
	}

	return domain.ResultRecord{
		Input:     in,
		Output:    out,
		Converted: true,
	}, nil
}

func normaliseExt(ext string) string {
	return strings.ToLower(ext)
}
