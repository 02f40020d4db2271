package drive

import (
	"path"
	"strings"

	"google.golang.org/api/drive/v3"

	"github.com/custodia-labs/drive-etl/internal/core/domain"
)

// Google Workspace MIME types that can only be exported.
const (
	MimeTypeGoogleDoc     = "application/vnd.google-apps.document"
	MimeTypeGoogleSheet   = "application/vnd.google-apps.spreadsheet"
	MimeTypeGoogleSlides  = "application/vnd.google-apps.presentation"
	MimeTypeGoogleDrawing = "application/vnd.google-apps.drawing"
	MimeTypeGoogleScript  = "application/vnd.google-apps.script"
	MimeTypeFolder        = "application/vnd.google-apps.folder"
)

// Export formats for Google Workspace files.
const (
	ExportMimeText   = "text/plain"
	ExportMimePDF    = "application/pdf"
	ExportMimeSVG    = "image/svg+xml"
	ExportMimeScript = "application/vnd.google-apps.script+json"
)

// DefaultExportMimeMap returns a fresh export map covering the Workspace types.
func DefaultExportMimeMap() map[string]string {
	return map[string]string{
		MimeTypeGoogleDoc:     ExportMimeText,
		MimeTypeGoogleSlides:  ExportMimeText,
		MimeTypeGoogleSheet:   ExportMimePDF,
		MimeTypeGoogleDrawing: ExportMimeSVG,
		MimeTypeGoogleScript:  ExportMimeScript,
	}
}

// toDescriptor keeps the fields a run needs from a Drive file.
func toDescriptor(f *drive.File) domain.FileDescriptor {
	return domain.FileDescriptor{
		ID:                f.Id,
		Name:              f.Name,
		MIMEType:          f.MimeType,
		FullFileExtension: f.FullFileExtension,
	}
}

// SplitName splits a file name into base name and extension the way a
// path parser does: directories are dropped, the extension starts at the
// last dot, and a leading dot belongs to the name.
func SplitName(name string) (base, ext string) {
	if name == "" {
		return "", ""
	}
	if strings.HasSuffix(name, "/") {
		name = strings.TrimRight(name, "/")
	}
	b := path.Base(name)
	if b == "." || b == "/" || b == ".." {
		return b, ""
	}
	i := strings.LastIndex(b, ".")
	if i <= 0 {
		return b, ""
	}
	return b[:i], b[i:]
}

// resolveNameExt returns the record name and extension for a descriptor.
// A full file extension is authoritative and is given a leading dot.
func resolveNameExt(d domain.FileDescriptor) (name, ext string) {
	name, ext = SplitName(d.Name)
	if d.FullFileExtension != "" {
		ext = "." + strings.TrimPrefix(d.FullFileExtension, ".")
	}
	return name, ext
}
