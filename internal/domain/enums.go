package domain

import (
	"mime"
	"path/filepath"
	"strings"
)

// MediaTypePDF is the only document media type the extractor reads directly.
const MediaTypePDF = "application/pdf"

// AllowedExtensions maps file extensions (without dot) to a media type. It is used when the
// upload does not declare a usable Content-Type.
var AllowedExtensions = map[string]string{
	"pdf":  MediaTypePDF,
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
	"gif":  "image/gif",
	"heic": "image/heic",
}

// ResolveMediaType returns the normalized media type for an uploaded file. The declared type wins
// unless it is empty or the generic octet-stream, in which case the extension decides.
func ResolveMediaType(declared, fileName string) string {
	mt := strings.ToLower(strings.TrimSpace(declared))
	if parsed, _, err := mime.ParseMediaType(mt); err == nil {
		mt = parsed
	}
	if mt != "" && mt != "application/octet-stream" {
		return mt
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	if byExt, ok := AllowedExtensions[ext]; ok {
		return byExt
	}
	return mt
}

// IsImage reports whether the media type is an image format.
func IsImage(mediaType string) bool {
	return strings.HasPrefix(mediaType, "image/")
}

// SubmissionStatus tracks the lifecycle of a batch.
type SubmissionStatus string

const (
	SubmissionStatusPending    SubmissionStatus = "pending"
	SubmissionStatusProcessing SubmissionStatus = "processing"
	SubmissionStatusComplete   SubmissionStatus = "complete"
)

// ExportFormat selects the results export encoding.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
)
