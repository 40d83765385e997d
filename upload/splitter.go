package upload

// ChunkStatus tracks the upload state of a single chunk
type ChunkStatus string

const (
	ChunkStatusPending   ChunkStatus = "pending"
	ChunkStatusUploading ChunkStatus = "uploading"
	ChunkStatusUploaded  ChunkStatus = "uploaded"
	ChunkStatusFailed    ChunkStatus = "failed"
)

// Chunk is one contiguous byte range of the source file.
type Chunk struct {
	Index  int
	Start  int64
	Length int64
	Status ChunkStatus
}

// End returns the exclusive end offset of the chunk.
func (c Chunk) End() int64 { return c.Start + c.Length }

// Split partitions a file of the given size into ceil(size/chunkSize)
// contiguous, non-overlapping ranges covering [0, size) with no gaps. The
// last range may be shorter. Deterministic and pure, no I/O.
func Split(size, chunkSize int64) []Chunk {
	if size <= 0 || chunkSize <= 0 {
		return nil
	}

	count := int((size + chunkSize - 1) / chunkSize)
	chunks := make([]Chunk, 0, count)
	for start := int64(0); start < size; start += chunkSize {
		length := chunkSize
		if start+length > size {
			length = size - start
		}
		chunks = append(chunks, Chunk{
			Index:  len(chunks),
			Start:  start,
			Length: length,
			Status: ChunkStatusPending,
		})
	}
	return chunks
}
