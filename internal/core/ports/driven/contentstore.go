package driven

import (
	"context"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
)

// ContentStore is the durable key-value store of chunk content.
// It assigns record IDs; the pipeline never invents them. Backed by SQLite.
type ContentStore interface {
	// WriteBatch stores all chunks of a document in a single logical
	// batch: either every chunk is written or none is. Records receive
	// store-assigned IDs and dense sequence indexes 0..N-1 in input
	// order; the returned refs preserve that order.
	WriteBatch(ctx context.Context, docID string, chunks []domain.ContentRecord) ([]domain.ChunkRef, error)

	// ReadByIDs retrieves records by their store-assigned IDs.
	// Missing IDs are silently omitted from the result.
	ReadByIDs(ctx context.Context, ids []string) ([]domain.ContentRecord, error)

	// ReadAllForDoc retrieves every record of a document ordered by
	// sequence index.
	ReadAllForDoc(ctx context.Context, docID string) ([]domain.ContentRecord, error)

	// CountForDoc returns the number of records stored for a document.
	CountForDoc(ctx context.Context, docID string) (int, error)

	// CountAll returns the total number of records in the store.
	// Compared against the vector index size to detect drift.
	CountAll(ctx context.Context) (int, error)

	// DeleteDocCascade removes every record of a document.
	// Zero matches is not an error.
	DeleteDocCascade(ctx context.Context, docID string) error
}

// DocumentStore persists the document registry.
type DocumentStore interface {
	// SaveDocument stores a document. Fails with domain.ErrAlreadyExists
	// when the ID is already registered.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	// Fails with domain.ErrNotFound when absent.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// ListDocuments returns all registered documents, newest first.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// DeleteDocument removes a document from the registry.
	DeleteDocument(ctx context.Context, id string) error
}

// HistoryStore persists question/answer exchanges.
type HistoryStore interface {
	// SaveEntry records one exchange.
	SaveEntry(ctx context.Context, entry *domain.HistoryEntry) error

	// RecentEntries returns up to limit entries, newest first.
	RecentEntries(ctx context.Context, limit int) ([]domain.HistoryEntry, error)
}
