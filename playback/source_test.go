package playback

import (
	"testing"

	"github.com/google/uuid"
	"github.com/lumenfilms/lumen-media-service/entity"
)

func TestParseVideoSource(t *testing.T) {
	manifestID := uuid.New()

	tests := []struct {
		name   string
		ref    string
		kind   entity.SourceKind
		detail string
	}{
		{"manifest uuid", manifestID.String(), entity.SourceKindChunked, manifestID.String()},
		{"youtube watch url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", entity.SourceKindYouTube, "dQw4w9WgXcQ"},
		{"youtube embed url", "https://youtube.com/embed/dQw4w9WgXcQ", entity.SourceKindYouTube, "dQw4w9WgXcQ"},
		{"youtube shorts url", "https://www.youtube.com/shorts/abc123XYZ_-", entity.SourceKindYouTube, "abc123XYZ_-"},
		{"youtu.be short link", "https://youtu.be/dQw4w9WgXcQ", entity.SourceKindYouTube, "dQw4w9WgXcQ"},
		{"mobile youtube url", "https://m.youtube.com/watch?v=dQw4w9WgXcQ", entity.SourceKindYouTube, "dQw4w9WgXcQ"},
		{"plain file url", "https://cdn.example.com/videos/reel.mp4", entity.SourceKindFile, "https://cdn.example.com/videos/reel.mp4"},
		{"vimeo is not youtube", "https://vimeo.com/12345", entity.SourceKindFile, "https://vimeo.com/12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := ParseVideoSource(tt.ref)
			if src.Kind != tt.kind {
				t.Fatalf("ParseVideoSource(%q).Kind = %v, want %v", tt.ref, src.Kind, tt.kind)
			}
			switch tt.kind {
			case entity.SourceKindChunked:
				if src.ManifestID.String() != tt.detail {
					t.Errorf("ManifestID = %s, want %s", src.ManifestID, tt.detail)
				}
			case entity.SourceKindYouTube:
				if src.YouTubeID != tt.detail {
					t.Errorf("YouTubeID = %q, want %q", src.YouTubeID, tt.detail)
				}
			case entity.SourceKindFile:
				if src.FileURL != tt.detail {
					t.Errorf("FileURL = %q, want %q", src.FileURL, tt.detail)
				}
			}
		})
	}
}
