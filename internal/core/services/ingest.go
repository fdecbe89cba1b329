package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docqa-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService orchestrates the ingestion pipeline:
// split, embed, store, index.
type IngestService struct {
	splitter     *Splitter
	embedder     driven.EmbeddingService
	contentStore driven.ContentStore
	docStore     driven.DocumentStore
	vectorIndex  driven.VectorIndex
}

// NewIngestService creates the ingestion pipeline.
func NewIngestService(
	splitter *Splitter,
	embedder driven.EmbeddingService,
	contentStore driven.ContentStore,
	docStore driven.DocumentStore,
	vectorIndex driven.VectorIndex,
) *IngestService {
	return &IngestService{
		splitter:     splitter,
		embedder:     embedder,
		contentStore: contentStore,
		docStore:     docStore,
		vectorIndex:  vectorIndex,
	}
}

// ProcessDocument splits, embeds, stores, and indexes a document.
//
// The content store write is one batched call, so a timeout or failure at
// any stage leaves no half-committed document. A vector index failure
// after a successful store write is deliberately not rolled back: the
// document stays resolvable by record ID and the drift is visible via
// Stats and repairable with Reconcile.
func (s *IngestService) ProcessDocument(
	ctx context.Context, text, docID string, meta map[string]any,
) (*domain.IngestResult, error) {
	logger.Section("Ingestion")
	logger.Debug("Processing document %s", docID)

	// Re-ingesting an existing ID would collide with its deterministic
	// index entry IDs. Reject; callers delete first.
	if _, err := s.docStore.GetDocument(ctx, docID); err == nil {
		return nil, fmt.Errorf("document %s: %w", docID, domain.ErrAlreadyExists)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check document: %w", err)
	}

	// 1. Split.
	chunks := s.splitter.Split(text)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("document %s: %w", docID, domain.ErrNoContent)
	}
	logger.Debug("Split into %d chunks", len(chunks))

	// 2. Embed, positionally aligned with chunks.
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}
	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	logger.Debug("Generated %d embeddings", len(embeddings))

	// 3. Store content in one batch. The store assigns record IDs.
	records := make([]domain.ContentRecord, len(chunks))
	for i, chunk := range chunks {
		records[i] = domain.ContentRecord{
			DocID:         docID,
			Text:          chunk.Text,
			SequenceIndex: i,
			Vector:        embeddings[i],
		}
	}
	if _, err := s.contentStore.WriteBatch(ctx, docID, records); err != nil {
		return nil, fmt.Errorf("write chunks: %w", err)
	}

	// Read back in insertion order: the store is the source of truth for
	// record IDs, the pipeline never invents them.
	stored, err := s.contentStore.ReadAllForDoc(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("read back chunks: %w", err)
	}
	if len(stored) != len(chunks) {
		return nil, fmt.Errorf("%w: wrote %d chunks, read back %d",
			domain.ErrArityMismatch, len(chunks), len(stored))
	}

	// 4. Register the document before indexing so a failed index add is
	// discoverable through the registry's chunk count.
	doc := &domain.Document{
		ID:         docID,
		ChunkCount: len(chunks),
		Metadata:   meta,
		CreatedAt:  time.Now().UTC(),
	}
	if name, ok := meta["source"].(string); ok {
		doc.Source = name
	}
	if uri, ok := meta["source_uri"].(string); ok {
		doc.SourceURI = uri
	}
	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("register document: %w", err)
	}

	// 5. Index with back-references to the stored records.
	entries := make([]driven.IndexEntry, len(stored))
	for i, record := range stored {
		entries[i] = driven.IndexEntry{
			Text:          record.Text,
			BackReference: record.ID,
		}
	}
	if err := s.vectorIndex.Add(ctx, docID, entries, embeddings); err != nil {
		// Left searchable by record ID but not by similarity; surfaced
		// through Stats and repaired with Reconcile.
		logger.Warn("Vector index add failed for %s, stores out of lockstep: %v", docID, err)
		return nil, fmt.Errorf("index chunks: %w", err)
	}

	logger.Info("Document %s ingested with %d chunks", docID, len(chunks))
	return &domain.IngestResult{DocID: docID, ChunkCount: len(chunks)}, nil
}

// DeleteDocument removes a document from the registry, the content
// store, and the vector index.
func (s *IngestService) DeleteDocument(ctx context.Context, docID string) error {
	logger.Section("Deletion")

	if _, err := s.docStore.GetDocument(ctx, docID); err != nil {
		return fmt.Errorf("get document: %w", err)
	}

	// The cascade is not atomic across the two stores. Index first: a
	// failure there leaves the content intact and the entries still
	// resolvable, while the reverse order would leave dangling
	// back-references.
	if err := s.vectorIndex.DeleteByDoc(ctx, docID); err != nil {
		return fmt.Errorf("delete index entries: %w", err)
	}
	if err := s.contentStore.DeleteDocCascade(ctx, docID); err != nil {
		return fmt.Errorf("delete chunks: %w", err)
	}
	if err := s.docStore.DeleteDocument(ctx, docID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	logger.Info("Document %s deleted", docID)
	return nil
}

// Reconcile rebuilds the vector index entries of a document from the
// content store. Idempotent: existing entries for the document are
// dropped first, then recomputed from the stored records and their
// stored vectors.
func (s *IngestService) Reconcile(ctx context.Context, docID string) (int, error) {
	logger.Section("Reconciliation")

	records, err := s.contentStore.ReadAllForDoc(ctx, docID)
	if err != nil {
		return 0, fmt.Errorf("read chunks: %w", err)
	}
	if len(records) == 0 {
		return 0, fmt.Errorf("document %s: %w", docID, domain.ErrNotFound)
	}

	if err := s.vectorIndex.DeleteByDoc(ctx, docID); err != nil {
		return 0, fmt.Errorf("clear index entries: %w", err)
	}

	entries := make([]driven.IndexEntry, len(records))
	embeddings := make([][]float32, len(records))
	for i, record := range records {
		entries[i] = driven.IndexEntry{
			Text:          record.Text,
			BackReference: record.ID,
		}
		if record.Vector != nil {
			embeddings[i] = record.Vector
			continue
		}
		// Stored without a vector; recompute from text.
		embedding, err := s.embedder.Embed(ctx, record.Text)
		if err != nil {
			return 0, fmt.Errorf("re-embed chunk %d: %w", record.SequenceIndex, err)
		}
		embeddings[i] = embedding
	}

	if err := s.vectorIndex.Add(ctx, docID, entries, embeddings); err != nil {
		return 0, fmt.Errorf("rebuild index entries: %w", err)
	}

	logger.Info("Document %s reconciled: %d entries", docID, len(entries))
	return len(entries), nil
}

// ListDocuments returns the document registry, newest first.
func (s *IngestService) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	docs, err := s.docStore.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}
