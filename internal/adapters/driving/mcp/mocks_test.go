package mcp

import (
	"context"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driving"
)

// mockQueryService is a mock implementation of driving.QueryService.
type mockQueryService struct {
	answer  *domain.Answer
	entries []domain.HistoryEntry
	health  *driving.HealthReport
	err     error
}

func (m *mockQueryService) Query(_ context.Context, _ string) (*domain.Answer, error) {
	return m.answer, m.err
}

func (m *mockQueryService) History(_ context.Context, _ int) ([]domain.HistoryEntry, error) {
	return m.entries, m.err
}

func (m *mockQueryService) Health(_ context.Context) (*driving.HealthReport, error) {
	return m.health, m.err
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	result    *domain.IngestResult
	documents []domain.Document
	deleted   []string
	err       error
}

func (m *mockIngestService) ProcessDocument(
	_ context.Context, _, docID string, _ map[string]any,
) (*domain.IngestResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &domain.IngestResult{DocID: docID, ChunkCount: 1}, nil
}

func (m *mockIngestService) DeleteDocument(_ context.Context, docID string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, docID)
	return nil
}

func (m *mockIngestService) Reconcile(_ context.Context, _ string) (int, error) {
	return 0, m.err
}

func (m *mockIngestService) ListDocuments(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}
