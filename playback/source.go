package playback

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/lumenfilms/lumen-media-service/entity"
)

// VideoSource is the tagged union over the three ways a media record's video
// can be hosted. It is resolved once at the boundary so the playback layer
// never string-matches on URLs.
type VideoSource struct {
	Kind       entity.SourceKind
	YouTubeID  string    // set when Kind == youtube
	ManifestID uuid.UUID // set when Kind == chunked
	FileURL    string    // set when Kind == file
}

// ParseVideoSource resolves a media record's video reference into a
// VideoSource. Manifest UUIDs become chunked sources, recognized YouTube
// URLs become youtube sources, anything else is treated as a plain file URL.
func ParseVideoSource(ref string) VideoSource {
	if id, err := uuid.Parse(ref); err == nil {
		return VideoSource{Kind: entity.SourceKindChunked, ManifestID: id}
	}
	if ytID := youtubeID(ref); ytID != "" {
		return VideoSource{Kind: entity.SourceKindYouTube, YouTubeID: ytID}
	}
	return VideoSource{Kind: entity.SourceKindFile, FileURL: ref}
}

func youtubeID(ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	switch host {
	case "youtube.com", "m.youtube.com":
		if u.Path == "/watch" {
			return u.Query().Get("v")
		}
		if strings.HasPrefix(u.Path, "/embed/") {
			return strings.TrimPrefix(u.Path, "/embed/")
		}
		if strings.HasPrefix(u.Path, "/shorts/") {
			return strings.TrimPrefix(u.Path, "/shorts/")
		}
	case "youtu.be":
		return strings.TrimPrefix(u.Path, "/")
	}
	return ""
}
