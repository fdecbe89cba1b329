package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	indexmem "github.com/custodia-labs/docqa-cli/internal/adapters/driven/index/memory"
	storemem "github.com/custodia-labs/docqa-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docqa-cli/internal/core/domain"
)

// ingestFixture wires an ingest service over in-memory adapters.
type ingestFixture struct {
	svc          *IngestService
	contentStore *storemem.ContentStore
	docStore     *storemem.DocumentStore
	index        *indexmem.Index
	embedder     *mockEmbedder
}

func newIngestFixture(t *testing.T) *ingestFixture {
	t.Helper()

	splitter, err := NewSplitter(50, 10)
	require.NoError(t, err)

	f := &ingestFixture{
		contentStore: storemem.NewContentStore(),
		docStore:     storemem.NewDocumentStore(),
		index:        indexmem.New(),
		embedder:     &mockEmbedder{dimensions: 3, model: "test-model"},
	}
	f.svc = NewIngestService(splitter, f.embedder, f.contentStore, f.docStore, f.index)
	return f
}

func TestProcessDocument_StoresRegistersAndIndexes(t *testing.T) {
	f := newIngestFixture(t)
	ctx := context.Background()

	text := "The sky is blue. The grass is green. Roses are red."
	result, err := f.svc.ProcessDocument(ctx, text, "doc-1", map[string]any{
		"source":     "colours.txt",
		"source_uri": "file:///tmp/colours.txt",
	})
	require.NoError(t, err)
	assert.Equal(t, "doc-1", result.DocID)
	assert.Greater(t, result.ChunkCount, 1)

	// Content store holds one record per chunk in sequence order.
	records, err := f.contentStore.ReadAllForDoc(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, records, result.ChunkCount)
	for i, record := range records {
		assert.Equal(t, i, record.SequenceIndex)
		assert.NotEmpty(t, record.ID)
		assert.NotEmpty(t, record.Text)
	}

	// Registry entry carries the metadata and chunk count.
	doc, err := f.docStore.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "colours.txt", doc.Source)
	assert.Equal(t, "file:///tmp/colours.txt", doc.SourceURI)
	assert.Equal(t, result.ChunkCount, doc.ChunkCount)

	// Index entries resolve back to stored records.
	stats, err := f.index.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, result.ChunkCount, stats.TotalEntries)

	hits, err := f.index.Search(ctx, []float32{1, 0, 0}, result.ChunkCount)
	require.NoError(t, err)
	for _, hit := range hits {
		assert.True(t, strings.HasPrefix(hit.ID, "doc-1_"))
		resolved, err := f.contentStore.ReadByIDs(ctx, []string{hit.BackReference})
		require.NoError(t, err)
		require.Len(t, resolved, 1, "back-reference %s must resolve", hit.BackReference)
		assert.Equal(t, hit.Text, resolved[0].Text)
	}
}

func TestProcessDocument_RejectsDuplicateID(t *testing.T) {
	f := newIngestFixture(t)
	ctx := context.Background()

	_, err := f.svc.ProcessDocument(ctx, "Some text to ingest.", "doc-1", nil)
	require.NoError(t, err)

	_, err = f.svc.ProcessDocument(ctx, "Different text.", "doc-1", nil)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	// First ingestion is untouched.
	records, err := f.contentStore.ReadAllForDoc(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "Some text to ingest.", records[0].Text)
}

func TestProcessDocument_EmptyText(t *testing.T) {
	f := newIngestFixture(t)

	for _, text := range []string{"", "   ", "\n\t\n"} {
		_, err := f.svc.ProcessDocument(context.Background(), text, "doc-1", nil)
		assert.ErrorIs(t, err, domain.ErrNoContent, "text %q", text)
	}

	// Nothing was registered.
	_, err := f.docStore.GetDocument(context.Background(), "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProcessDocument_EmbedderFailure(t *testing.T) {
	f := newIngestFixture(t)
	f.embedder.embedBatchFunc = func(context.Context, []string) ([][]float32, error) {
		return nil, fmt.Errorf("%w: backend down", domain.ErrModelUnavailable)
	}

	_, err := f.svc.ProcessDocument(context.Background(), "Some text.", "doc-1", nil)
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)

	// Failure before the store write leaves no partial state.
	count, err := f.contentStore.CountForDoc(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestProcessDocument_IndexFailureLeavesContentStored(t *testing.T) {
	f := newIngestFixture(t)
	broken := &failingIndex{VectorIndex: f.index, addErr: errors.New("index offline")}
	f.svc = NewIngestService(f.svc.splitter, f.embedder, f.contentStore, f.docStore, broken)

	_, err := f.svc.ProcessDocument(context.Background(), "Some text.", "doc-1", nil)
	require.Error(t, err)

	// Content and registry survive so Reconcile can repair the index.
	count, err := f.contentStore.CountForDoc(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = f.docStore.GetDocument(context.Background(), "doc-1")
	assert.NoError(t, err)
}

func TestDeleteDocument_CascadesAcrossStores(t *testing.T) {
	f := newIngestFixture(t)
	ctx := context.Background()

	_, err := f.svc.ProcessDocument(ctx, "First document text.", "doc-1", nil)
	require.NoError(t, err)
	_, err = f.svc.ProcessDocument(ctx, "Second document text.", "doc-2", nil)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteDocument(ctx, "doc-1"))

	count, err := f.contentStore.CountForDoc(ctx, "doc-1")
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = f.docStore.GetDocument(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Other document intact in both stores.
	stats, err := f.index.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalEntries)
}

func TestDeleteDocument_Missing(t *testing.T) {
	f := newIngestFixture(t)
	err := f.svc.DeleteDocument(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReconcile_RebuildsIndexFromStore(t *testing.T) {
	f := newIngestFixture(t)
	ctx := context.Background()

	result, err := f.svc.ProcessDocument(ctx, "The sky is blue. The grass is green.", "doc-1", nil)
	require.NoError(t, err)

	// Simulate drift: index lost the document.
	require.NoError(t, f.index.DeleteByDoc(ctx, "doc-1"))
	stats, err := f.index.Stats(ctx)
	require.NoError(t, err)
	require.Zero(t, stats.TotalEntries)

	rebuilt, err := f.svc.Reconcile(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, result.ChunkCount, rebuilt)

	stats, err = f.index.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, result.ChunkCount, stats.TotalEntries)

	// Reconcile is idempotent.
	rebuilt, err = f.svc.Reconcile(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, result.ChunkCount, rebuilt)

	stats, err = f.index.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, result.ChunkCount, stats.TotalEntries, "no duplicate entries after reconcile")
}

func TestReconcile_ReembedsRecordsWithoutVectors(t *testing.T) {
	f := newIngestFixture(t)
	ctx := context.Background()

	// Records stored without vectors.
	_, err := f.contentStore.WriteBatch(ctx, "doc-1", []domain.ContentRecord{
		{Text: "chunk without vector"},
	})
	require.NoError(t, err)

	embedCalls := 0
	f.embedder.embedFunc = func(_ context.Context, text string) ([]float32, error) {
		embedCalls++
		return []float32{0, 1, 0}, nil
	}

	rebuilt, err := f.svc.Reconcile(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, 1, rebuilt)
	assert.Equal(t, 1, embedCalls)
}

func TestReconcile_UnknownDocument(t *testing.T) {
	f := newIngestFixture(t)
	_, err := f.svc.Reconcile(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListDocuments(t *testing.T) {
	f := newIngestFixture(t)
	ctx := context.Background()

	_, err := f.svc.ProcessDocument(ctx, "First.", "doc-1", nil)
	require.NoError(t, err)
	_, err = f.svc.ProcessDocument(ctx, "Second.", "doc-2", nil)
	require.NoError(t, err)

	docs, err := f.svc.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}
