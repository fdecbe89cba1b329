package services

import (
	"context"
	"errors"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
)

// mockEmbedder is a configurable driven.EmbeddingService for tests.
type mockEmbedder struct {
	embedFunc      func(ctx context.Context, text string) ([]float32, error)
	embedBatchFunc func(ctx context.Context, texts []string) ([][]float32, error)
	dimensions     int
	model          string
	pingErr        error
	closed         bool
}

var _ driven.EmbeddingService = (*mockEmbedder)(nil)

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if m.embedFunc != nil {
		return m.embedFunc(ctx, text)
	}
	return []float32{1, 0, 0}, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if m.embedBatchFunc != nil {
		return m.embedBatchFunc(ctx, texts)
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0, 0}
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int { return m.dimensions }

func (m *mockEmbedder) ModelName() string { return m.model }

func (m *mockEmbedder) Ping(context.Context) error { return m.pingErr }

func (m *mockEmbedder) Close() error {
	m.closed = true
	return nil
}

// mockLLM is a configurable driven.LLMService for tests.
type mockLLM struct {
	generateFunc func(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error)
	calls        int
	lastPrompt   string
}

var _ driven.LLMService = (*mockLLM)(nil)

func (m *mockLLM) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.calls++
	m.lastPrompt = prompt
	if m.generateFunc != nil {
		return m.generateFunc(ctx, prompt, opts)
	}
	return "generated answer", nil
}

func (m *mockLLM) ModelName() string { return "mock-llm" }

func (m *mockLLM) Ping(context.Context) error { return nil }

func (m *mockLLM) Close() error { return nil }

// failingIndex wraps a driven.VectorIndex and fails Add.
type failingIndex struct {
	driven.VectorIndex
	addErr error
}

func (f *failingIndex) Add(
	ctx context.Context, docID string, entries []driven.IndexEntry, embeddings [][]float32,
) error {
	if f.addErr != nil {
		return f.addErr
	}
	return f.VectorIndex.Add(ctx, docID, entries, embeddings)
}

// failingHistoryStore rejects every write.
type failingHistoryStore struct{}

func (f *failingHistoryStore) SaveEntry(context.Context, *domain.HistoryEntry) error {
	return errors.New("history store down")
}

func (f *failingHistoryStore) RecentEntries(context.Context, int) ([]domain.HistoryEntry, error) {
	return nil, nil
}
