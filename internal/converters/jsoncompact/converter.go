// Package jsoncompact re-serialises JSON records in compact form.
package jsoncompact

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/custodia-labs/drive-etl/internal/core/domain"
)

// bom is a UTF-8 byte-order mark as it appears once the bytes are read as text.
var bom = []byte("\uFEFF")

// Converter validates .json records and rewrites them compactly.
type Converter struct{}

// New creates a JSON converter.
func New() *Converter {
	return &Converter{}
}

// Extensions returns the extensions this converter handles.
func (c *Converter) Extensions() []string {
	return []string{".json"}
}

// Convert strips one leading byte-order mark, parses the document and
// writes it back without insignificant whitespace. Key order, duplicate keys
// and the source text of numbers and strings are kept.
func (c *Converter) Convert(_ context.Context, in domain.InputRecord) (domain.OutputRecord, error) {
	data := bytes.TrimPrefix(in.Data, bom)

	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return domain.OutputRecord{}, domain.Wrap(domain.ErrConvert, "parse json", err,
			domain.F("fileName", in.Name+in.Ext),
		)
	}

	return domain.OutputRecord{
		Name: in.Name,
		Ext:  ".json",
		Data: buf.Bytes(),
	}, nil
}
