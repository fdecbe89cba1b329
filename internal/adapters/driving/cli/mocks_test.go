package cli

import (
	"context"
	"errors"
	"time"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driving"
)

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	result    *domain.IngestResult
	documents []domain.Document
	ingested  []string
	deleted   []string
	err       error
}

func (m *mockIngestService) ProcessDocument(
	_ context.Context, _, docID string, _ map[string]any,
) (*domain.IngestResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.ingested = append(m.ingested, docID)
	if m.result != nil {
		return m.result, nil
	}
	return &domain.IngestResult{DocID: docID, ChunkCount: 3}, nil
}

func (m *mockIngestService) DeleteDocument(_ context.Context, docID string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, docID)
	return nil
}

func (m *mockIngestService) Reconcile(_ context.Context, _ string) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return 5, nil
}

func (m *mockIngestService) ListDocuments(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

// mockQueryService is a mock implementation of driving.QueryService.
type mockQueryService struct {
	lastCtx context.Context
	answer  *domain.Answer
	entries []domain.HistoryEntry
	health  *driving.HealthReport
	err     error
}

func (m *mockQueryService) Query(ctx context.Context, _ string) (*domain.Answer, error) {
	m.lastCtx = ctx
	if m.err != nil {
		return nil, m.err
	}
	if m.answer != nil {
		return m.answer, nil
	}
	return &domain.Answer{Text: "Mock answer.", ContextUsed: true, ChunkCount: 2}, nil
}

func (m *mockQueryService) History(_ context.Context, _ int) ([]domain.HistoryEntry, error) {
	return m.entries, m.err
}

func (m *mockQueryService) Health(_ context.Context) (*driving.HealthReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.health != nil {
		return m.health, nil
	}
	return &driving.HealthReport{
		IndexEntries:   4,
		IndexAvailable: true,
		StoredChunks:   4,
		InSync:         true,
	}, nil
}

// errQueryService fails every call.
type errQueryService struct{}

func (errQueryService) Query(_ context.Context, _ string) (*domain.Answer, error) {
	return nil, errors.New("backend down")
}

func (errQueryService) History(_ context.Context, _ int) ([]domain.HistoryEntry, error) {
	return nil, errors.New("backend down")
}

func (errQueryService) Health(_ context.Context) (*driving.HealthReport, error) {
	return nil, errors.New("backend down")
}

// setupTestServices installs mock services and returns a cleanup that
// restores the previous wiring.
func setupTestServices() func() {
	oldIngest, oldQuery := ingestService, queryService

	ingestService = &mockIngestService{
		documents: []domain.Document{
			{
				ID:         "guide",
				Source:     "Guide.md",
				ChunkCount: 7,
				CreatedAt:  time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
			},
		},
	}
	queryService = &mockQueryService{
		entries: []domain.HistoryEntry{
			{
				Question:  "what colour is the sky?",
				Answer:    "Blue.",
				CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
			},
		},
	}

	return func() {
		ingestService, queryService = oldIngest, oldQuery
	}
}
