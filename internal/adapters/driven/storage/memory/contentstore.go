// Package memory provides in-memory storage adapters, used as the
// default backing for tests and ephemeral sessions.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
)

// Ensure ContentStore implements the interface.
var _ driven.ContentStore = (*ContentStore)(nil)

// ContentStore is an in-memory implementation of driven.ContentStore.
// Record IDs are store-assigned UUIDs, matching the behaviour of the
// SQLite adapter.
type ContentStore struct {
	mu      sync.RWMutex
	records map[string]domain.ContentRecord // record ID -> record
	byDoc   map[string][]string             // doc ID -> record IDs in sequence order
}

// NewContentStore creates a new in-memory content store.
func NewContentStore() *ContentStore {
	return &ContentStore{
		records: make(map[string]domain.ContentRecord),
		byDoc:   make(map[string][]string),
	}
}

// WriteBatch stores all chunks of a document atomically with respect to
// other calls. Records receive store-assigned IDs and dense sequence
// indexes in input order.
func (s *ContentStore) WriteBatch(
	_ context.Context, docID string, chunks []domain.ContentRecord,
) ([]domain.ChunkRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	refs := make([]domain.ChunkRef, len(chunks))
	ids := make([]string, len(chunks))
	for i, chunk := range chunks {
		id := uuid.New().String()
		record := domain.ContentRecord{
			ID:            id,
			DocID:         docID,
			Text:          chunk.Text,
			SequenceIndex: i,
			Vector:        chunk.Vector,
		}
		s.records[id] = record
		ids[i] = id
		refs[i] = domain.ChunkRef{ID: id, SequenceIndex: i}
	}
	s.byDoc[docID] = append(s.byDoc[docID], ids...)

	return refs, nil
}

// ReadByIDs retrieves records by ID; missing IDs are silently omitted.
func (s *ContentStore) ReadByIDs(_ context.Context, ids []string) ([]domain.ContentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]domain.ContentRecord, 0, len(ids))
	for _, id := range ids {
		if record, ok := s.records[id]; ok {
			records = append(records, record)
		}
	}
	return records, nil
}

// ReadAllForDoc retrieves every record of a document ordered by
// sequence index.
func (s *ContentStore) ReadAllForDoc(_ context.Context, docID string) ([]domain.ContentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byDoc[docID]
	records := make([]domain.ContentRecord, 0, len(ids))
	for _, id := range ids {
		if record, ok := s.records[id]; ok {
			records = append(records, record)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].SequenceIndex < records[j].SequenceIndex
	})
	return records, nil
}

// CountForDoc returns the number of records stored for a document.
func (s *ContentStore) CountForDoc(_ context.Context, docID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byDoc[docID]), nil
}

// CountAll returns the total number of records in the store.
func (s *ContentStore) CountAll(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// DeleteDocCascade removes every record of a document.
func (s *ContentStore) DeleteDocCascade(_ context.Context, docID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.byDoc[docID] {
		delete(s.records, id)
	}
	delete(s.byDoc, docID)
	return nil
}
