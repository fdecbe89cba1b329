package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docqa-cli/internal/logger"
)

// Ensure LazyEmbedder implements the interface.
var _ driven.EmbeddingService = (*LazyEmbedder)(nil)

// EmbedderFactory constructs the underlying embedding service.
// Called at most once per successful initialisation.
type EmbedderFactory func() (driven.EmbeddingService, error)

// LazyEmbedder defers construction of the embedding backend to first use.
// Construction is single-flight: concurrent first callers block on one
// initialisation and share its outcome. A failed construction surfaces
// domain.ErrModelUnavailable for the current request only; the handle
// stays unset so a later request retries instead of inheriting the
// failure.
type LazyEmbedder struct {
	factory    EmbedderFactory
	dimensions int
	model      string

	mu      sync.Mutex
	backend driven.EmbeddingService
}

// NewLazyEmbedder creates a lazy embedder. The dimensions and model name
// are known from configuration before the backend exists, so they are
// available without triggering initialisation.
func NewLazyEmbedder(factory EmbedderFactory, dimensions int, model string) *LazyEmbedder {
	return &LazyEmbedder{
		factory:    factory,
		dimensions: dimensions,
		model:      model,
	}
}

// get returns the backend, constructing it under the lock on first use.
func (e *LazyEmbedder) get() (driven.EmbeddingService, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.backend != nil {
		return e.backend, nil
	}

	logger.Debug("Initialising embedding backend: %s", e.model)
	backend, err := e.factory()
	if err != nil {
		logger.Warn("Embedding backend initialisation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrModelUnavailable, err)
	}

	e.backend = backend
	logger.Info("Embedding backend ready: %s (%d dimensions)", e.model, e.dimensions)
	return backend, nil
}

// Embed generates a vector embedding for the given text.
func (e *LazyEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text cannot be blank", domain.ErrEmptyInput)
	}

	backend, err := e.get()
	if err != nil {
		return nil, err
	}

	embedding, err := backend.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed: %w", err)
	}
	return embedding, nil
}

// EmbedBatch generates embeddings for multiple texts, positionally
// aligned 1:1 with the input.
func (e *LazyEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: texts cannot be empty", domain.ErrEmptyInput)
	}
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("%w: text %d is blank", domain.ErrEmptyInput, i)
		}
	}

	backend, err := e.get()
	if err != nil {
		return nil, err
	}

	embeddings, err := backend.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed batch: %w", err)
	}
	if len(embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: %d texts produced %d embeddings",
			domain.ErrArityMismatch, len(texts), len(embeddings))
	}
	return embeddings, nil
}

// Dimensions returns the configured embedding vector size.
func (e *LazyEmbedder) Dimensions() int {
	return e.dimensions
}

// ModelName returns the configured model name.
func (e *LazyEmbedder) ModelName() string {
	return e.model
}

// Ping initialises the backend if needed and probes it.
func (e *LazyEmbedder) Ping(ctx context.Context) error {
	backend, err := e.get()
	if err != nil {
		return err
	}
	return backend.Ping(ctx)
}

// Close releases the backend if it was ever constructed.
func (e *LazyEmbedder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.backend == nil {
		return nil
	}
	err := e.backend.Close()
	e.backend = nil
	return err
}
