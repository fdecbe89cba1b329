package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
)

// promptTemplate binds the model to the supplied context and to the fixed
// refusal string. The two %s slots take the context block and the query.
const promptTemplate = `You are an AI assistant. Answer the question based ONLY on the provided context.

If the context does not contain enough information to answer the question, respond with: %q

Context:
%s

Question: %s

Answer:`

// BuildPrompt assembles the grounding prompt from the query and the
// retrieved chunks in retrieval-rank order. Chunk order is preserved,
// never re-sorted.
//
// A blank query or empty chunk list fails with domain.ErrEmptyInput;
// chunks that are all blank after trimming fail with
// domain.ErrNoValidContext.
func BuildPrompt(query string, chunks []domain.RetrievedChunk) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", fmt.Errorf("%w: query cannot be blank", domain.ErrEmptyInput)
	}
	if len(chunks) == 0 {
		return "", fmt.Errorf("%w: context chunks cannot be empty", domain.ErrEmptyInput)
	}

	blocks := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		text := strings.TrimSpace(chunk.Text)
		if text == "" {
			continue
		}
		blocks = append(blocks, fmt.Sprintf("[Chunk %d]: %s", i+1, text))
	}

	if len(blocks) == 0 {
		return "", fmt.Errorf("%w: every context chunk was blank", domain.ErrNoValidContext)
	}

	context := strings.Join(blocks, "\n\n")
	return fmt.Sprintf(promptTemplate, domain.RefusalAnswer, context, query), nil
}
