package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
)

func newTestIndex(t *testing.T, handler http.HandlerFunc) *Index {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(Config{BaseURL: server.URL, Dimensions: 3})
}

func TestAdd_UpsertsDeterministicIDs(t *testing.T) {
	var upserted struct {
		Points []point `json:"points"`
	}

	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut && r.URL.Path == "/collections/docqa_chunks/points" {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&upserted))
		}
		w.Write([]byte(`{"result":{},"status":"ok"}`))
	})

	entries := []driven.IndexEntry{
		{Text: "first chunk", BackReference: "rec-1"},
		{Text: "second chunk", BackReference: "rec-2"},
	}
	embeddings := [][]float32{{1, 0, 0}, {0, 1, 0}}

	err := idx.Add(context.Background(), "doc-1", entries, embeddings)
	require.NoError(t, err)

	require.Len(t, upserted.Points, 2)
	// Point IDs must be UUIDs (Qdrant rejects arbitrary strings), stable
	// across re-adds, and distinct per position.
	assert.Equal(t, pointID("doc-1", 0), upserted.Points[0].ID)
	assert.Equal(t, pointID("doc-1", 1), upserted.Points[1].ID)
	_, err = uuid.Parse(upserted.Points[0].ID)
	assert.NoError(t, err)
	assert.NotEqual(t, upserted.Points[0].ID, upserted.Points[1].ID)

	// The logical identity rides along in the payload.
	assert.Equal(t, "doc-1_0", upserted.Points[0].Payload["entry_id"])
	assert.Equal(t, "doc-1_1", upserted.Points[1].Payload["entry_id"])
	assert.Equal(t, "rec-2", upserted.Points[1].Payload["back_reference"])
	assert.Equal(t, "doc-1", upserted.Points[0].Payload["doc_id"])
}

func TestAdd_ClientErrorIsNotDegraded(t *testing.T) {
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut && r.URL.Path == "/collections/docqa_chunks/points" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"status":{"error":"bad point"}}`))
			return
		}
		w.Write([]byte(`{"result":{},"status":"ok"}`))
	})

	err := idx.Add(context.Background(), "doc-1",
		[]driven.IndexEntry{{Text: "a", BackReference: "rec-1"}},
		[][]float32{{1, 0, 0}})
	require.Error(t, err, "a rejected upsert must surface, not silently no-op")
	assert.Contains(t, err.Error(), "status 400")
}

func TestAdd_ArityMismatch(t *testing.T) {
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":{},"status":"ok"}`))
	})

	err := idx.Add(context.Background(), "doc-1",
		[]driven.IndexEntry{{Text: "a"}, {Text: "b"}},
		[][]float32{{1, 0, 0}})
	assert.ErrorIs(t, err, domain.ErrArityMismatch)
}

func TestSearch_ConvertsScoreToDistance(t *testing.T) {
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/collections/docqa_chunks/points/search" {
			json.NewEncoder(w).Encode(map[string]any{
				"result": []map[string]any{
					{
						"id":    pointID("doc-1", 0),
						"score": 0.9,
						"payload": map[string]any{
							"entry_id":       "doc-1_0",
							"doc_id":         "doc-1",
							"back_reference": "rec-1",
							"text":           "hello",
						},
					},
				},
			})
			return
		}
		w.Write([]byte(`{"result":{},"status":"ok"}`))
	})

	hits, err := idx.Search(context.Background(), []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)

	assert.Equal(t, "doc-1_0", hits[0].ID)
	assert.Equal(t, "rec-1", hits[0].BackReference)
	assert.Equal(t, "doc-1", hits[0].DocID)
	assert.InDelta(t, 0.1, hits[0].Distance, 1e-9)
}

func TestSearch_ZeroK(t *testing.T) {
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":{},"status":"ok"}`))
	})

	hits, err := idx.Search(context.Background(), []float32{1, 0, 0}, 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestDegradation_UnreachableServer(t *testing.T) {
	// Grab a port that nothing listens on.
	server := httptest.NewServer(http.NotFoundHandler())
	deadURL := server.URL
	server.Close()

	idx := New(Config{BaseURL: deadURL, Dimensions: 3})

	err := idx.Add(context.Background(), "doc-1",
		[]driven.IndexEntry{{Text: "a", BackReference: "rec-1"}},
		[][]float32{{1, 0, 0}})
	assert.NoError(t, err, "add should degrade to a no-op")

	hits, err := idx.Search(context.Background(), []float32{1, 0, 0}, 5)
	assert.NoError(t, err, "search should degrade to empty")
	assert.Empty(t, hits)

	assert.NoError(t, idx.DeleteByDoc(context.Background(), "doc-1"))

	stats, err := idx.Stats(context.Background())
	require.NoError(t, err)
	assert.False(t, stats.Available)
	assert.NotEmpty(t, stats.LastError)
}

func TestNew_ExistingCollectionIsNotAnError(t *testing.T) {
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut && r.URL.Path == "/collections/docqa_chunks" {
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"status":{"error":"already exists"}}`))
			return
		}
		w.Write([]byte(`{"result":{"count":0},"status":"ok"}`))
	})

	stats, err := idx.Stats(context.Background())
	require.NoError(t, err)
	assert.True(t, stats.Available)
	assert.Empty(t, stats.LastError)
}

func TestStats_ReportsCount(t *testing.T) {
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/collections/docqa_chunks/points/count" {
			w.Write([]byte(`{"result":{"count":42},"status":"ok"}`))
			return
		}
		w.Write([]byte(`{"result":{},"status":"ok"}`))
	})

	stats, err := idx.Stats(context.Background())
	require.NoError(t, err)
	assert.True(t, stats.Available)
	assert.Equal(t, 42, stats.TotalEntries)
	assert.Empty(t, stats.LastError)
}

func TestDeleteByDoc_FiltersOnDocID(t *testing.T) {
	var deleteBody map[string]any

	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/collections/docqa_chunks/points/delete" {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&deleteBody))
		}
		w.Write([]byte(`{"result":{},"status":"ok"}`))
	})

	require.NoError(t, idx.DeleteByDoc(context.Background(), "doc-9"))

	filter, ok := deleteBody["filter"].(map[string]any)
	require.True(t, ok)
	must, ok := filter["must"].([]any)
	require.True(t, ok)
	require.Len(t, must, 1)

	cond := must[0].(map[string]any)
	assert.Equal(t, "doc_id", cond["key"])
}

func TestSendsAPIKeyHeader(t *testing.T) {
	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("api-key")
		w.Write([]byte(`{"result":{},"status":"ok"}`))
	}))
	defer server.Close()

	New(Config{BaseURL: server.URL, APIKey: "secret", Dimensions: 3})
	assert.Equal(t, "secret", gotKey)
}
