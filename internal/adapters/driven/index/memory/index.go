// Package memory provides a brute-force in-memory vector index.
// It computes exact cosine distances, which doubles as the reference
// behaviour for ANN backends.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// entry is one stored vector with its payload.
type entry struct {
	id      string
	docID   string
	text    string
	backRef string
	vector  []float32
}

// Index stores vectors in memory and searches them exhaustively.
type Index struct {
	mu      sync.RWMutex
	entries map[string]entry    // entry ID -> entry
	byDoc   map[string][]string // doc ID -> entry IDs
}

// New creates an empty in-memory index.
func New() *Index {
	return &Index{
		entries: make(map[string]entry),
		byDoc:   make(map[string][]string),
	}
}

// Add inserts one entry per embedding under the deterministic ID
// "{docID}_{i}".
func (idx *Index) Add(
	_ context.Context, docID string, entries []driven.IndexEntry, embeddings [][]float32,
) error {
	if len(entries) != len(embeddings) {
		return fmt.Errorf("%w: %d entries, %d embeddings",
			domain.ErrArityMismatch, len(entries), len(embeddings))
	}
	if len(entries) == 0 {
		return nil
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	for i, e := range entries {
		id := fmt.Sprintf("%s_%d", docID, i)
		idx.entries[id] = entry{
			id:      id,
			docID:   docID,
			text:    e.Text,
			backRef: e.BackReference,
			vector:  embeddings[i],
		}
		idx.byDoc[docID] = append(idx.byDoc[docID], id)
	}
	return nil
}

// Search returns up to k hits ordered by ascending cosine distance.
func (idx *Index) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	hits := make([]driven.VectorHit, 0, len(idx.entries))
	for _, e := range idx.entries {
		hits = append(hits, driven.VectorHit{
			ID:            e.id,
			Text:          e.text,
			BackReference: e.backRef,
			DocID:         e.docID,
			Distance:      cosineDistance(query, e.vector),
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].ID < hits[j].ID
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// DeleteByDoc removes every entry tagged with docID.
func (idx *Index) DeleteByDoc(_ context.Context, docID string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for _, id := range idx.byDoc[docID] {
		delete(idx.entries, id)
	}
	delete(idx.byDoc, docID)
	return nil
}

// Stats reports the index size. The in-memory index is always available.
func (idx *Index) Stats(_ context.Context) (driven.IndexStats, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return driven.IndexStats{
		TotalEntries: len(idx.entries),
		Available:    true,
	}, nil
}

// Close releases resources.
func (idx *Index) Close() error {
	return nil
}

// cosineDistance returns 1 - cosine similarity. Mismatched or zero
// vectors are treated as maximally distant.
func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
