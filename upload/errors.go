package upload

import (
	"errors"
	"fmt"
)

// ErrUnsupportedType is returned when a file is neither a video nor an image.
var ErrUnsupportedType = errors.New("unsupported file type")

// ErrEmptyFile is returned for zero-byte files, which have no chunks to
// upload and nothing to play back.
var ErrEmptyFile = errors.New("empty file")

// FileTooLargeError is returned when a file exceeds its kind-specific ceiling.
type FileTooLargeError struct {
	Kind  FileKind
	Size  int64
	Limit int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("%s file of %d bytes exceeds the %d byte limit", e.Kind, e.Size, e.Limit)
}

// ChunkUploadError is returned when a chunk exhausts its retry budget. The
// whole task is failed and already-uploaded chunks have been cleaned up by
// the time the caller sees this.
type ChunkUploadError struct {
	Index int
	Err   error
}

func (e *ChunkUploadError) Error() string {
	return fmt.Sprintf("chunk %d upload failed: %v", e.Index, e.Err)
}

func (e *ChunkUploadError) Unwrap() error { return e.Err }

// ErrManifestWriteFailed wraps a manifest insert failure after all chunks
// uploaded successfully.
var ErrManifestWriteFailed = errors.New("manifest write failed")
