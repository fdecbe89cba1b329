// Package qdrant provides a vector index adapter backed by a Qdrant
// server over its REST API.
//
// Availability is best-effort per the VectorIndex contract: an
// unreachable or failing backend turns writes into no-ops and searches
// into empty results, reported through Stats rather than through
// errors. A 4xx reply is a rejected request, not an unavailable
// backend, and is returned as an error.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docqa-cli/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "http://localhost:6333"
	DefaultCollection = "docqa_chunks"
	DefaultTimeout    = 15 * time.Second
)

// Config holds configuration for the Qdrant index.
type Config struct {
	// BaseURL is the Qdrant REST base URL (default: http://localhost:6333).
	BaseURL string

	// APIKey is sent as the api-key header when set.
	APIKey string

	// Collection is the collection name (default: docqa_chunks).
	Collection string

	// Dimensions is the vector size the collection is created with.
	Dimensions int

	// Timeout is the request timeout (default: 15s).
	Timeout time.Duration
}

// Index talks to a Qdrant collection with cosine distance.
type Index struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	collection string
	dimensions int

	mu      sync.Mutex
	lastErr string
}

// New creates a Qdrant index and ensures the collection exists. A server
// that is unreachable at construction time is not an error; the index
// starts degraded and recovers when the server does.
func New(cfg Config) *Index {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	idx := &Index{
		client:     &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		dimensions: cfg.Dimensions,
	}

	if err := idx.ensureCollection(context.Background()); err != nil {
		logger.Warn("Qdrant collection setup failed, starting degraded: %v", err)
		idx.recordErr(err)
	}

	return idx
}

// point is the Qdrant point format.
type point struct {
	ID      string         `json:"id"`
	Vector  []float32      `json:"vector"`
	Payload map[string]any `json:"payload"`
}

// entryID is the logical "{docID}_{i}" identity of a chunk's point. It
// travels in the payload because Qdrant point IDs must be unsigned
// integers or UUIDs.
func entryID(docID string, i int) string {
	return fmt.Sprintf("%s_%d", docID, i)
}

// pointID derives the stable UUID Qdrant stores the point under. The
// same docID and position always map to the same UUID, so re-adding a
// document overwrites its points in place.
func pointID(docID string, i int) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(entryID(docID, i))).String()
}

// Add inserts one point per embedding. An unreachable backend degrades
// to a no-op; a client error from the server is returned as an error.
func (idx *Index) Add(
	ctx context.Context, docID string, entries []driven.IndexEntry, embeddings [][]float32,
) error {
	if len(entries) != len(embeddings) {
		return fmt.Errorf("%w: %d entries, %d embeddings",
			domain.ErrArityMismatch, len(entries), len(embeddings))
	}
	if len(entries) == 0 {
		return nil
	}

	points := make([]point, len(entries))
	for i, e := range entries {
		points[i] = point{
			ID:     pointID(docID, i),
			Vector: embeddings[i],
			Payload: map[string]any{
				"entry_id":       entryID(docID, i),
				"doc_id":         docID,
				"sequence_index": i,
				"back_reference": e.BackReference,
				"text":           e.Text,
			},
		}
	}

	url := fmt.Sprintf("%s/collections/%s/points?wait=true", idx.baseURL, idx.collection)
	if err := idx.do(ctx, http.MethodPut, url, map[string]any{"points": points}, nil); err != nil {
		if !backendDown(err) {
			return fmt.Errorf("qdrant upsert: %w", err)
		}
		logger.Warn("Qdrant add degraded to no-op: %v", err)
		idx.recordErr(err)
		return nil
	}

	idx.clearErr()
	return nil
}

// searchResponse is the Qdrant points/search response format.
type searchResponse struct {
	Result []struct {
		ID      string         `json:"id"`
		Score   float64        `json:"score"`
		Payload map[string]any `json:"payload"`
	} `json:"result"`
}

// Search returns up to k hits ordered by ascending cosine distance.
// Backend failures degrade to an empty result.
func (idx *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, nil
	}

	body := map[string]any{
		"vector":       query,
		"limit":        k,
		"with_payload": true,
	}

	var resp searchResponse
	url := fmt.Sprintf("%s/collections/%s/points/search", idx.baseURL, idx.collection)
	if err := idx.do(ctx, http.MethodPost, url, body, &resp); err != nil {
		if !backendDown(err) {
			return nil, fmt.Errorf("qdrant search: %w", err)
		}
		logger.Warn("Qdrant search degraded to empty result: %v", err)
		idx.recordErr(err)
		return nil, nil
	}
	idx.clearErr()

	// Qdrant reports cosine similarity; the port speaks distance. The
	// logical entry ID comes from the payload, not the UUID point ID.
	hits := make([]driven.VectorHit, 0, len(resp.Result))
	for _, r := range resp.Result {
		hit := driven.VectorHit{
			ID:       r.ID,
			Distance: 1 - r.Score,
		}
		if v, ok := r.Payload["entry_id"].(string); ok {
			hit.ID = v
		}
		if v, ok := r.Payload["doc_id"].(string); ok {
			hit.DocID = v
		}
		if v, ok := r.Payload["back_reference"].(string); ok {
			hit.BackReference = v
		}
		if v, ok := r.Payload["text"].(string); ok {
			hit.Text = v
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// DeleteByDoc removes every point whose payload carries docID.
func (idx *Index) DeleteByDoc(ctx context.Context, docID string) error {
	body := map[string]any{
		"filter": map[string]any{
			"must": []map[string]any{
				{"key": "doc_id", "match": map[string]any{"value": docID}},
			},
		},
	}

	url := fmt.Sprintf("%s/collections/%s/points/delete?wait=true", idx.baseURL, idx.collection)
	if err := idx.do(ctx, http.MethodPost, url, body, nil); err != nil {
		if !backendDown(err) {
			return fmt.Errorf("qdrant delete: %w", err)
		}
		logger.Warn("Qdrant delete degraded to no-op: %v", err)
		idx.recordErr(err)
		return nil
	}
	idx.clearErr()
	return nil
}

// countResponse is the Qdrant points/count response format.
type countResponse struct {
	Result struct {
		Count int `json:"count"`
	} `json:"result"`
}

// Stats probes the collection and reports its size and availability.
func (idx *Index) Stats(ctx context.Context) (driven.IndexStats, error) {
	var resp countResponse
	url := fmt.Sprintf("%s/collections/%s/points/count", idx.baseURL, idx.collection)
	if err := idx.do(ctx, http.MethodPost, url, map[string]any{"exact": true}, &resp); err != nil {
		idx.recordErr(err)
		return driven.IndexStats{Available: false, LastError: err.Error()}, nil
	}

	idx.clearErr()
	return driven.IndexStats{
		TotalEntries: resp.Result.Count,
		Available:    true,
	}, nil
}

// Close releases resources.
func (idx *Index) Close() error {
	return nil
}

// ensureCollection creates the collection with cosine distance if it
// does not already exist.
func (idx *Index) ensureCollection(ctx context.Context) error {
	body := map[string]any{
		"vectors": map[string]any{
			"size":     idx.dimensions,
			"distance": "Cosine",
		},
	}
	url := fmt.Sprintf("%s/collections/%s", idx.baseURL, idx.collection)
	err := idx.do(ctx, http.MethodPut, url, body, nil)

	// 409 means the collection is already there.
	var se *statusError
	if errors.As(err, &se) && se.status == http.StatusConflict {
		return nil
	}
	return err
}

// statusError is a non-2xx reply from the Qdrant server.
type statusError struct {
	status int
	detail string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.status, e.detail)
}

// backendDown reports whether err means the backend is unavailable. A
// 4xx reply is the server rejecting the request, not the server being
// away, and must not be swallowed by the degradation path.
func backendDown(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.status >= http.StatusInternalServerError
	}
	return true
}

// do sends one JSON request and decodes the response into out when set.
func (idx *Index) do(ctx context.Context, method, url string, body, out any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if idx.apiKey != "" {
		req.Header.Set("api-key", idx.apiKey)
	}

	resp, err := idx.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("qdrant %s %s: %w", method, url,
			&statusError{status: resp.StatusCode, detail: string(raw)})
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// recordErr stores the most recent backend failure for Stats.
func (idx *Index) recordErr(err error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.lastErr = err.Error()
}

// clearErr marks the backend healthy again.
func (idx *Index) clearErr() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.lastErr = ""
}
