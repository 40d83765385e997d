package dto

// UploadResponse is returned after a successful ingest.
type UploadResponse struct {
	ID           string `json:"id"`
	MediaID      string `json:"media_id"`
	UploadID     string `json:"upload_id"`
	ReferenceURL string `json:"reference_url"`
	ChunkCount   int    `json:"chunk_count"`
	TotalSize    int64  `json:"total_size"`
	Status       string `json:"status"`
}

// ProgressResponse is the upload progress snapshot.
type ProgressResponse struct {
	UploadID string `json:"upload_id"`
	Progress int    `json:"progress"` // Percentage 0-100
}

// ChunksResponse is the ordered playable chunk URL list for a manifest.
type ChunksResponse struct {
	ManifestID string   `json:"manifest_id"`
	ChunkURLs  []string `json:"chunk_urls"`
	ChunkCount int      `json:"chunk_count"`
}
