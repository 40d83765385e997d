package upload

import (
	"errors"
	"testing"
)

func TestValidateClassification(t *testing.T) {
	v := NewValidator(1000, 100)

	tests := []struct {
		name    string
		info    FileInfo
		want    FileKind
		wantErr error
	}{
		{
			name: "video mime type wins",
			info: FileInfo{Filename: "clip.bin", ContentType: "video/mp4", Size: 500},
			want: KindVideo,
		},
		{
			name: "image mime type wins",
			info: FileInfo{Filename: "shot.bin", ContentType: "image/png", Size: 50},
			want: KindImage,
		},
		{
			name: "mime type beats conflicting extension",
			info: FileInfo{Filename: "clip.jpg", ContentType: "video/webm", Size: 500},
			want: KindVideo,
		},
		{
			name: "extension fallback for octet-stream",
			info: FileInfo{Filename: "wedding.mp4", ContentType: "application/octet-stream", Size: 500},
			want: KindVideo,
		},
		{
			name: "extension fallback for empty content type",
			info: FileInfo{Filename: "portrait.JPEG", ContentType: "", Size: 50},
			want: KindImage,
		},
		{
			name:    "unsupported mime type",
			info:    FileInfo{Filename: "notes.pdf", ContentType: "application/pdf", Size: 50},
			wantErr: ErrUnsupportedType,
		},
		{
			name:    "octet-stream with unknown extension",
			info:    FileInfo{Filename: "data.dat", ContentType: "application/octet-stream", Size: 50},
			wantErr: ErrUnsupportedType,
		},
		{
			name:    "zero-byte file",
			info:    FileInfo{Filename: "a.mp4", ContentType: "video/mp4", Size: 0},
			wantErr: ErrEmptyFile,
		},
		{
			name:    "negative size",
			info:    FileInfo{Filename: "a.mp4", ContentType: "video/mp4", Size: -1},
			wantErr: ErrEmptyFile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Validate(tt.info)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Validate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateSizeBoundary(t *testing.T) {
	v := NewValidator(1000, 100)

	// Exactly at the ceiling is accepted.
	if _, err := v.Validate(FileInfo{Filename: "a.mp4", ContentType: "video/mp4", Size: 1000}); err != nil {
		t.Errorf("video at exact limit rejected: %v", err)
	}
	if _, err := v.Validate(FileInfo{Filename: "a.png", ContentType: "image/png", Size: 100}); err != nil {
		t.Errorf("image at exact limit rejected: %v", err)
	}

	// One byte over is rejected with the kind-specific limit.
	_, err := v.Validate(FileInfo{Filename: "a.mp4", ContentType: "video/mp4", Size: 1001})
	var tooLarge *FileTooLargeError
	if !errors.As(err, &tooLarge) {
		t.Fatalf("expected FileTooLargeError, got %v", err)
	}
	if tooLarge.Kind != KindVideo || tooLarge.Limit != 1000 || tooLarge.Size != 1001 {
		t.Errorf("unexpected error detail: %+v", tooLarge)
	}

	_, err = v.Validate(FileInfo{Filename: "a.png", ContentType: "image/png", Size: 101})
	if !errors.As(err, &tooLarge) {
		t.Fatalf("expected FileTooLargeError, got %v", err)
	}
	if tooLarge.Kind != KindImage || tooLarge.Limit != 100 {
		t.Errorf("unexpected error detail: %+v", tooLarge)
	}
}

func TestResolveContentType(t *testing.T) {
	tests := []struct {
		name string
		info FileInfo
		want string
	}{
		{"declared type kept", FileInfo{Filename: "a.mp4", ContentType: "video/mp4"}, "video/mp4"},
		{"octet-stream resolved from extension", FileInfo{Filename: "a.mov", ContentType: "application/octet-stream"}, "video/quicktime"},
		{"empty resolved from extension", FileInfo{Filename: "a.webp", ContentType: ""}, "image/webp"},
		{"unknown stays generic", FileInfo{Filename: "a.xyz", ContentType: ""}, "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveContentType(tt.info); got != tt.want {
				t.Errorf("ResolveContentType() = %q, want %q", got, tt.want)
			}
		})
	}
}
