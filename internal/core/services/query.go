package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docqa-cli/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// QueryService orchestrates the retrieval pipeline:
// embed, search, resolve, prompt, generate.
type QueryService struct {
	embedder     driven.EmbeddingService
	vectorIndex  driven.VectorIndex
	contentStore driven.ContentStore
	llm          driven.LLMService
	history      driven.HistoryStore
	topK         int
}

// NewQueryService creates the query pipeline. The history store is
// optional; when nil, exchanges are simply not recorded.
func NewQueryService(
	embedder driven.EmbeddingService,
	vectorIndex driven.VectorIndex,
	contentStore driven.ContentStore,
	llm driven.LLMService,
	history driven.HistoryStore,
	topK int,
) *QueryService {
	return &QueryService{
		embedder:     embedder,
		vectorIndex:  vectorIndex,
		contentStore: contentStore,
		llm:          llm,
		history:      history,
		topK:         topK,
	}
}

// Query answers a question from indexed content. The answer text is
// never blank: an empty retrieval set short-circuits to the fixed
// no-information answer without calling the model, and a blank model
// response maps to the fixed fallback answer.
func (s *QueryService) Query(ctx context.Context, question string) (*domain.Answer, error) {
	logger.Section("Query")

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question cannot be blank", domain.ErrEmptyInput)
	}
	logger.Debug("Question: %q", question)

	// 1. Embed the question.
	queryEmbedding, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	// 2. ANN search. An unavailable index yields no hits, not an error.
	hits, err := s.vectorIndex.Search(ctx, queryEmbedding, s.topK)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	logger.Debug("Retrieved %d hits", len(hits))

	if len(hits) == 0 {
		logger.Info("No context found, skipping model call")
		return &domain.Answer{Text: domain.NoInformationAnswer}, nil
	}

	// 3. Resolve back-references against the content store. Hits whose
	// reference does not resolve are dropped, not errors: a dangling
	// back-reference means the stores drifted and the chunk is simply
	// unavailable.
	resolved, err := s.resolveHits(ctx, hits)
	if err != nil {
		return nil, err
	}
	if len(resolved) == 0 {
		logger.Warn("All %d hits had dangling back-references", len(hits))
		return &domain.Answer{Text: domain.NoInformationAnswer}, nil
	}

	// 4. Build the grounding prompt in retrieval-rank order.
	prompt, err := BuildPrompt(question, resolved)
	if err != nil {
		return nil, fmt.Errorf("build prompt: %w", err)
	}

	// The model call dominates cost; honour cancellation before it.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 5. Generate.
	answer, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{})
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}
	if strings.TrimSpace(answer) == "" {
		logger.Warn("Model returned a blank response")
		answer = domain.FallbackAnswer
	}

	// 6. Record history; a failed write never fails the query.
	s.recordHistory(question, answer)

	logger.Info("Answered with %d context chunks", len(resolved))
	return &domain.Answer{
		Text:        answer,
		ContextUsed: true,
		ChunkCount:  len(resolved),
	}, nil
}

// resolveHits joins vector hits with their content store records,
// preserving retrieval rank and dropping hits that no longer resolve.
func (s *QueryService) resolveHits(
	ctx context.Context, hits []driven.VectorHit,
) ([]domain.RetrievedChunk, error) {
	ids := make([]string, len(hits))
	for i, hit := range hits {
		ids[i] = hit.BackReference
	}

	records, err := s.contentStore.ReadByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve chunks: %w", err)
	}

	byID := make(map[string]domain.ContentRecord, len(records))
	for _, record := range records {
		byID[record.ID] = record
	}

	resolved := make([]domain.RetrievedChunk, 0, len(hits))
	for _, hit := range hits {
		record, ok := byID[hit.BackReference]
		if !ok {
			logger.Warn("Dropping hit %s: back-reference %s does not resolve", hit.ID, hit.BackReference)
			continue
		}
		resolved = append(resolved, domain.RetrievedChunk{
			RecordID: record.ID,
			DocID:    record.DocID,
			Text:     record.Text,
			Distance: hit.Distance,
		})
	}
	return resolved, nil
}

// recordHistory writes the exchange before the answer is returned, so a
// one-shot process sees it persisted. It runs on its own deadline and
// only logs a failed write.
func (s *QueryService) recordHistory(question, answer string) {
	if s.history == nil {
		return
	}

	entry := &domain.HistoryEntry{
		ID:        uuid.New().String(),
		Question:  question,
		Answer:    answer,
		CreatedAt: time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.history.SaveEntry(ctx, entry); err != nil {
		logger.Warn("History write failed: %v", err)
	}
}

// History returns up to limit recorded exchanges, newest first.
func (s *QueryService) History(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	if s.history == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}
	entries, err := s.history.RecentEntries(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	return entries, nil
}

// Health compares the vector index size with the content store's chunk
// count; a mismatch means some document is searchable in one store only.
func (s *QueryService) Health(ctx context.Context) (*driving.HealthReport, error) {
	stats, err := s.vectorIndex.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("index stats: %w", err)
	}

	stored, err := s.contentStore.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count chunks: %w", err)
	}

	return &driving.HealthReport{
		IndexEntries:   stats.TotalEntries,
		IndexAvailable: stats.Available,
		IndexError:     stats.LastError,
		StoredChunks:   stored,
		InSync:         stats.Available && stats.TotalEntries == stored,
	}, nil
}
