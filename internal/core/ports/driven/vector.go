package driven

import "context"

// VectorIndex provides approximate nearest-neighbour search over
// embedding vectors under cosine distance.
//
// Availability is best-effort: an unreachable backend turns Add and
// DeleteByDoc into no-ops and Search into an empty result. The degraded
// state is surfaced through Stats, never hidden behind errors.
type VectorIndex interface {
	// Add inserts one entry per embedding, tagged with docID. Entries and
	// embeddings must align positionally; a length mismatch fails with
	// domain.ErrArityMismatch. Each entry is assigned the deterministic
	// ID "{docID}_{i}" where i is its input position, so re-adding the
	// same docID collides; callers delete before re-inserting.
	Add(ctx context.Context, docID string, entries []IndexEntry, embeddings [][]float32) error

	// Search returns up to k hits ordered by ascending cosine distance.
	// k <= 0, an empty index, or an unavailable backend all return an
	// empty result, never an error.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// DeleteByDoc removes every entry tagged with docID.
	// Zero matches is not an error.
	DeleteByDoc(ctx context.Context, docID string) error

	// Stats reports the index size and availability. It doubles as the
	// liveness probe for the health surface.
	Stats(ctx context.Context) (IndexStats, error)

	// Close releases resources.
	Close() error
}

// IndexEntry is the payload stored alongside a vector.
type IndexEntry struct {
	// Text is the chunk content at indexing time.
	Text string

	// BackReference is the content store record ID this entry resolves
	// to at query time. A dangling back-reference is a consistency
	// violation that retrieval treats as "unavailable, skip".
	BackReference string
}

// VectorHit is a similarity search result.
type VectorHit struct {
	// ID is the deterministic entry ID ("{docID}_{i}").
	ID string

	// Text is the chunk content stored with the entry.
	Text string

	// BackReference is the content store record ID.
	BackReference string

	// DocID is the owning document.
	DocID string

	// Distance is the cosine distance (lower is closer).
	Distance float64
}

// IndexStats describes the index state.
type IndexStats struct {
	// TotalEntries is the number of vectors currently indexed.
	TotalEntries int

	// Available reports whether the backend is reachable.
	Available bool

	// LastError is the most recent backend failure, empty when healthy.
	LastError string
}
