// Package markdown renders Markdown records to HTML.
package markdown

import (
	"bytes"
	"context"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/custodia-labs/drive-etl/internal/core/domain"
)

// Converter renders .md records with GitHub Flavoured Markdown.
type Converter struct {
	md goldmark.Markdown
}

// New creates a Markdown converter.
func New() *Converter {
	return &Converter{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

// Extensions returns the extensions this converter handles.
func (c *Converter) Extensions() []string {
	return []string{".md"}
}

// Convert renders in to HTML. The output keeps the input name and takes the .html extension.
func (c *Converter) Convert(_ context.Context, in domain.InputRecord) (domain.OutputRecord, error) {
	var buf bytes.Buffer
	if err := c.md.Convert(in.Data, &buf); err != nil {
		return domain.OutputRecord{}, domain.Wrap(domain.ErrConvert, "render markdown", err,
			domain.F("fileName", in.Name+in.Ext),
		)
	}

	return domain.OutputRecord{
		Name: in.Name,
		Ext:  ".html",
		Data: buf.Bytes(),
	}, nil
}
