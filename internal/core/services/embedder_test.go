package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
)

func TestLazyEmbedder_ConstructsOnFirstUse(t *testing.T) {
	var constructed atomic.Int32
	embedder := NewLazyEmbedder(func() (driven.EmbeddingService, error) {
		constructed.Add(1)
		return &mockEmbedder{}, nil
	}, 768, "test-model")

	assert.Zero(t, constructed.Load(), "construction must wait for first use")

	_, err := embedder.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, int32(1), constructed.Load())

	_, err = embedder.Embed(context.Background(), "again")
	require.NoError(t, err)
	assert.Equal(t, int32(1), constructed.Load(), "backend is reused")
}

func TestLazyEmbedder_SingleFlightUnderConcurrency(t *testing.T) {
	var constructed atomic.Int32
	embedder := NewLazyEmbedder(func() (driven.EmbeddingService, error) {
		constructed.Add(1)
		return &mockEmbedder{}, nil
	}, 768, "test-model")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := embedder.Embed(context.Background(), "concurrent")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), constructed.Load(), "concurrent first callers share one initialisation")
}

func TestLazyEmbedder_FailedInitRetriesLater(t *testing.T) {
	attempts := 0
	embedder := NewLazyEmbedder(func() (driven.EmbeddingService, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("model download failed")
		}
		return &mockEmbedder{}, nil
	}, 768, "test-model")

	_, err := embedder.Embed(context.Background(), "first")
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)

	// The failure must not poison later requests.
	_, err = embedder.Embed(context.Background(), "second")
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestLazyEmbedder_BlankInputs(t *testing.T) {
	embedder := NewLazyEmbedder(func() (driven.EmbeddingService, error) {
		t.Fatal("validation must run before construction")
		return nil, nil
	}, 768, "test-model")

	_, err := embedder.Embed(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrEmptyInput)

	_, err = embedder.EmbedBatch(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrEmptyInput)

	_, err = embedder.EmbedBatch(context.Background(), []string{"ok", "\t\n"})
	assert.ErrorIs(t, err, domain.ErrEmptyInput)
}

func TestLazyEmbedder_BatchArityMismatch(t *testing.T) {
	embedder := NewLazyEmbedder(func() (driven.EmbeddingService, error) {
		return &mockEmbedder{
			embedBatchFunc: func(_ context.Context, texts []string) ([][]float32, error) {
				return [][]float32{{1}}, nil // one short
			},
		}, nil
	}, 768, "test-model")

	_, err := embedder.EmbedBatch(context.Background(), []string{"a", "b"})
	assert.ErrorIs(t, err, domain.ErrArityMismatch)
}

func TestLazyEmbedder_MetadataWithoutInit(t *testing.T) {
	embedder := NewLazyEmbedder(func() (driven.EmbeddingService, error) {
		t.Fatal("metadata must not trigger construction")
		return nil, nil
	}, 1536, "text-embedding-3-small")

	assert.Equal(t, 1536, embedder.Dimensions())
	assert.Equal(t, "text-embedding-3-small", embedder.ModelName())
}

func TestLazyEmbedder_CloseReleasesBackend(t *testing.T) {
	backend := &mockEmbedder{}
	embedder := NewLazyEmbedder(func() (driven.EmbeddingService, error) {
		return backend, nil
	}, 768, "test-model")

	_, err := embedder.Embed(context.Background(), "hello")
	require.NoError(t, err)

	require.NoError(t, embedder.Close())
	assert.True(t, backend.closed)

	// Closing without a backend is a no-op.
	assert.NoError(t, embedder.Close())
}
