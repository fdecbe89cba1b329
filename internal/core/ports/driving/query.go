package driving

import (
	"context"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
)

// QueryService answers natural-language questions from indexed content.
type QueryService interface {
	// Query embeds the question, retrieves the top-K nearest chunks,
	// resolves them against the content store, and asks the model for a
	// grounded answer. Blank questions fail with domain.ErrEmptyInput.
	// The answer text is never blank.
	Query(ctx context.Context, question string) (*domain.Answer, error)

	// History returns up to limit recorded exchanges, newest first.
	History(ctx context.Context, limit int) ([]domain.HistoryEntry, error)

	// Health reports the vector index state alongside the number of
	// chunks the content store holds, so the two can be compared for
	// drift.
	Health(ctx context.Context) (*HealthReport, error)
}

// HealthReport describes the retrieval stores' state.
type HealthReport struct {
	// IndexEntries is the vector index size.
	IndexEntries int `json:"index_entries"`

	// IndexAvailable reports whether the index backend is reachable.
	IndexAvailable bool `json:"index_available"`

	// IndexError is the most recent index failure, empty when healthy.
	IndexError string `json:"index_error,omitempty"`

	// StoredChunks is the total chunk count in the content store.
	StoredChunks int `json:"stored_chunks"`

	// InSync is true when IndexEntries matches StoredChunks. A mismatch
	// signals a document left searchable in one store only.
	InSync bool `json:"in_sync"`
}
