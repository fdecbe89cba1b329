package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
)

func TestIndex_Add_ArityMismatch(t *testing.T) {
	idx := New()

	err := idx.Add(context.Background(), "doc-1",
		[]driven.IndexEntry{{Text: "a", BackReference: "r1"}, {Text: "b", BackReference: "r2"}},
		[][]float32{{1, 0}},
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrArityMismatch)
}

func TestIndex_SelfRetrieval(t *testing.T) {
	idx := New()
	ctx := context.Background()

	vectors := [][]float32{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	entries := []driven.IndexEntry{
		{Text: "alpha", BackReference: "r0"},
		{Text: "beta", BackReference: "r1"},
		{Text: "gamma", BackReference: "r2"},
	}
	require.NoError(t, idx.Add(ctx, "doc-1", entries, vectors))

	hits, err := idx.Search(ctx, []float32{0, 1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, "doc-1_1", hits[0].ID)
	assert.Equal(t, "beta", hits[0].Text)
	assert.Equal(t, "r1", hits[0].BackReference)
	assert.InDelta(t, 0, hits[0].Distance, 1e-9)

	// Ascending distance.
	assert.LessOrEqual(t, hits[0].Distance, hits[1].Distance)
	assert.LessOrEqual(t, hits[1].Distance, hits[2].Distance)
}

func TestIndex_DeterministicIDs(t *testing.T) {
	idx := New()
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, "doc-9",
		[]driven.IndexEntry{{Text: "x", BackReference: "rx"}},
		[][]float32{{1, 1}},
	))

	hits, err := idx.Search(ctx, []float32{1, 1}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "doc-9_0", hits[0].ID)
	assert.Equal(t, "doc-9", hits[0].DocID)
}

func TestIndex_Search_EmptyAndZeroK(t *testing.T) {
	idx := New()
	ctx := context.Background()

	hits, err := idx.Search(ctx, []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)

	require.NoError(t, idx.Add(ctx, "doc-1",
		[]driven.IndexEntry{{Text: "x", BackReference: "r"}}, [][]float32{{1, 0}}))

	hits, err = idx.Search(ctx, []float32{1, 0}, 0)
	require.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = idx.Search(ctx, []float32{1, 0}, -3)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestIndex_DeleteByDoc(t *testing.T) {
	idx := New()
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, "doc-1",
		[]driven.IndexEntry{{Text: "a", BackReference: "r1"}}, [][]float32{{1, 0}}))
	require.NoError(t, idx.Add(ctx, "doc-2",
		[]driven.IndexEntry{{Text: "b", BackReference: "r2"}}, [][]float32{{0, 1}}))

	require.NoError(t, idx.DeleteByDoc(ctx, "doc-1"))

	stats, err := idx.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalEntries)
	assert.True(t, stats.Available)

	// Zero matches is tolerated.
	assert.NoError(t, idx.DeleteByDoc(ctx, "doc-1"))
}

func TestCosineDistance(t *testing.T) {
	assert.InDelta(t, 0, cosineDistance([]float32{1, 2, 3}, []float32{1, 2, 3}), 1e-9)
	assert.InDelta(t, 1, cosineDistance([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, 2, cosineDistance([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Equal(t, float64(1), cosineDistance([]float32{1, 0}, []float32{1}))
	assert.Equal(t, float64(1), cosineDistance([]float32{0, 0}, []float32{0, 0}))
}
