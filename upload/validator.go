package upload

import (
	"path/filepath"
	"strings"
)

// FileKind classifies a validated file
type FileKind string

const (
	KindVideo FileKind = "video"
	KindImage FileKind = "image"
)

const genericContentType = "application/octet-stream"

// FileInfo describes a candidate file before any bytes are uploaded.
type FileInfo struct {
	Filename    string
	ContentType string
	Size        int64
}

var videoExtensions = map[string]string{
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
	".m4v":  "video/x-m4v",
}

var imageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// Validator gates files before any upload bytes are sent. Pure check, no
// side effects.
type Validator struct {
	MaxVideoSize int64
	MaxImageSize int64
}

func NewValidator(maxVideoSize, maxImageSize int64) *Validator {
	return &Validator{
		MaxVideoSize: maxVideoSize,
		MaxImageSize: maxImageSize,
	}
}

// Validate classifies the file as video or image and enforces the
// kind-specific size ceiling. The declared MIME type wins; the filename
// extension is consulted only when the declared type is the generic binary
// stream type (or empty). A file exactly at the ceiling is accepted;
// zero-byte files are rejected outright since they split into no chunks.
func (v *Validator) Validate(info FileInfo) (FileKind, error) {
	if info.Size <= 0 {
		return "", ErrEmptyFile
	}

	kind, ok := classify(info)
	if !ok {
		return "", ErrUnsupportedType
	}

	limit := v.MaxImageSize
	if kind == KindVideo {
		limit = v.MaxVideoSize
	}
	if info.Size > limit {
		return "", &FileTooLargeError{Kind: kind, Size: info.Size, Limit: limit}
	}

	return kind, nil
}

// ResolveContentType returns a concrete content type for the file. Some
// storage backends mishandle application/octet-stream, so chunks are always
// tagged with the resolved type of the parent file.
func ResolveContentType(info FileInfo) string {
	if info.ContentType != "" && info.ContentType != genericContentType {
		return info.ContentType
	}
	ext := strings.ToLower(filepath.Ext(info.Filename))
	if ct, ok := videoExtensions[ext]; ok {
		return ct
	}
	if ct, ok := imageExtensions[ext]; ok {
		return ct
	}
	return genericContentType
}

func classify(info FileInfo) (FileKind, bool) {
	ct := strings.ToLower(info.ContentType)
	switch {
	case strings.HasPrefix(ct, "video/"):
		return KindVideo, true
	case strings.HasPrefix(ct, "image/"):
		return KindImage, true
	case ct == "" || ct == genericContentType:
		ext := strings.ToLower(filepath.Ext(info.Filename))
		if _, ok := videoExtensions[ext]; ok {
			return KindVideo, true
		}
		if _, ok := imageExtensions[ext]; ok {
			return KindImage, true
		}
	}
	return "", false
}
