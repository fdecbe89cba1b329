package driving

import (
	"context"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
)

// IngestService turns raw text into stored, indexed chunks.
type IngestService interface {
	// ProcessDocument splits, embeds, stores, and indexes a document.
	// Fails with domain.ErrNoContent when splitting yields nothing and
	// with domain.ErrAlreadyExists when docID was already ingested.
	ProcessDocument(ctx context.Context, text, docID string, meta map[string]any) (*domain.IngestResult, error)

	// DeleteDocument removes a document from the registry, the content
	// store, and the vector index.
	DeleteDocument(ctx context.Context, docID string) error

	// Reconcile rebuilds the vector index entries of a document from the
	// content store. Idempotent; used both as the ingestion tail and as a
	// repair tool when the two stores fall out of lockstep.
	Reconcile(ctx context.Context, docID string) (int, error)

	// ListDocuments returns the document registry, newest first.
	ListDocuments(ctx context.Context) ([]domain.Document, error)
}
