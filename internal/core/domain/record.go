package domain

import "encoding/json"

// FetchMethod is the remote call used to download a file.
type FetchMethod string

const (
	// FetchGet downloads the raw content by id.
	FetchGet FetchMethod = "get"

	// FetchExport asks the provider to render the file into a target MIME type.
	FetchExport FetchMethod = "export"
)

// DownloadMeta records how an InputRecord was fetched.
// It is kept for diagnostics and tests.
type DownloadMeta struct {
	Method     FetchMethod       `json:"method"`
	Parameters map[string]string `json:"parameters"`
}

// InputRecord is the downloaded content of one remote file.
type InputRecord struct {
	// Name is the base name without extension.
	Name string

	// Ext is the extension including the leading dot, or empty.
	Ext string

	// Data holds raw bytes when Binary is set, UTF-8 text otherwise.
	Data []byte

	// Binary reports whether Data must be treated as opaque bytes.
	Binary bool

	// DownloadMeta records the fetch method and its parameters.
	DownloadMeta DownloadMeta
}

// Text returns the payload as a string.
func (r InputRecord) Text() string {
	return string(r.Data)
}

// OutputRecord is the artefact produced for one InputRecord.
type OutputRecord struct {
	Name   string
	Ext    string
	Data   []byte
	Binary bool
}

// Text returns the payload as a string.
func (r OutputRecord) Text() string {
	return string(r.Data)
}

// FileName returns the persisted file name, <name><ext>.
func (r OutputRecord) FileName() string {
	return r.Name + r.Ext
}

// ResultRecord is the unit emitted to every consumer of a run.
// Converted is true only when a converter recognised Input.Ext and
// produced a distinct Output.
type ResultRecord struct {
	Input     InputRecord  `json:"input"`
	Output    OutputRecord `json:"output"`
	Converted bool         `json:"converted"`
}

// Passthrough returns the result for an input no converter recognised.
// The output aliases the input payload.
func Passthrough(in InputRecord) ResultRecord {
	return ResultRecord{
		Input: in,
		Output: OutputRecord{
			Name:   in.Name,
			Ext:    in.Ext,
			Data:   in.Data,
			Binary: in.Binary,
		},
		Converted: false,
	}
}

// payload is the JSON shape shared by input and output records.
// Text data is written as a string, binary data as base64.
type payload struct {
	Name         string        `json:"name"`
	Ext          string        `json:"ext"`
	Data         any           `json:"data"`
	Binary       bool          `json:"binary"`
	DownloadMeta *DownloadMeta `json:"downloadMeta,omitempty"`
}

func encodeData(data []byte, binary bool) any {
	if binary {
		return data
	}
	return string(data)
}

// MarshalJSON implements json.Marshaler.
func (r InputRecord) MarshalJSON() ([]byte, error) {
	meta := r.DownloadMeta
	return json.Marshal(payload{
		Name:         r.Name,
		Ext:          r.Ext,
		Data:         encodeData(r.Data, r.Binary),
		Binary:       r.Binary,
		DownloadMeta: &meta,
	})
}

// MarshalJSON implements json.Marshaler.
func (r OutputRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(payload{
		Name:   r.Name,
		Ext:    r.Ext,
		Data:   encodeData(r.Data, r.Binary),
		Binary: r.Binary,
	})
}
