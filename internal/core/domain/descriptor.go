package domain

// FileDescriptor identifies one remote file.
// Descriptors are produced once per run by a listing call and keep the
// provider's response order.
type FileDescriptor struct {
	// ID is the provider's file identifier.
	ID string `json:"id"`

	// Name is the file name as stored remotely, extension included.
	Name string `json:"name"`

	// MIMEType is the remote content type.
	MIMEType string `json:"mimeType"`

	// FullFileExtension is only set by the provider for binary files.
	// When present it is authoritative over any extension in Name.
	FullFileExtension string `json:"fullFileExtension,omitempty"`
}

// IsBinary reports whether the file content must be kept as raw bytes.
func (d FileDescriptor) IsBinary() bool {
	return d.FullFileExtension != ""
}
