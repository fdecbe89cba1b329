package domain

import "time"

// Document represents an ingested document.
// It owns a set of ContentRecords in the content store and a set of
// entries in the vector index; deleting a document cascades to both.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Source is the human-readable origin (filename, title).
	Source string

	// SourceURI is the original location (file path, URL, etc).
	SourceURI string

	// ChunkCount is the number of chunks produced at ingestion.
	ChunkCount int

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any

	// CreatedAt is when the document was ingested.
	CreatedAt time.Time
}

// Chunk is a contiguous, trimmed span of normalised source text.
// Chunks are produced by the splitter in left-to-right order; consecutive
// chunks may overlap but never skip uncovered text except at the final
// boundary. They exist only between splitting and storage.
type Chunk struct {
	// Text is the trimmed chunk content. Never empty.
	Text string

	// Start is the byte offset of the chunk in the normalised text.
	Start int

	// End is the byte offset one past the chunk in the normalised text.
	// Invariant: 0 <= Start < End <= len(normalised text).
	End int
}

// ContentRecord is the durable form of a chunk in the content store.
// The store assigns the ID; the pipeline never invents record IDs.
type ContentRecord struct {
	// ID is the store-assigned opaque identifier.
	ID string

	// DocID links to the parent Document.
	DocID string

	// Text is the chunk content.
	Text string

	// SequenceIndex is the ordinal position within the document.
	// Dense and unique per DocID: 0..N-1.
	SequenceIndex int

	// Vector is the stored embedding, when the store keeps it.
	Vector []float32
}

// ChunkRef identifies a stored chunk after a batch write.
type ChunkRef struct {
	// ID is the store-assigned record identifier.
	ID string

	// SequenceIndex is the record's position within the document.
	SequenceIndex int
}

// IngestResult summarises a successful ingestion.
type IngestResult struct {
	// DocID is the identifier of the ingested document.
	DocID string

	// ChunkCount is the number of chunks stored and indexed.
	ChunkCount int
}
