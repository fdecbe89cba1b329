package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
)

// sentenceBoundaries are the characters a window may end after.
// The newline is kept for callers that skip normalisation; whitespace
// normalisation collapses newlines to spaces before the walk.
const sentenceBoundaries = ".!?\n"

// Splitter cuts normalised text into overlapping chunks, preferring to
// end each chunk at a sentence boundary over a hard cut.
type Splitter struct {
	chunkSize int
	overlap   int
}

// NewSplitter creates a splitter. Parameters are validated here, once,
// so Split can stay infallible.
func NewSplitter(chunkSize, overlap int) (*Splitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be greater than 0, got %d", domain.ErrConfiguration, chunkSize)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: overlap must be non-negative, got %d", domain.ErrConfiguration, overlap)
	}
	if overlap >= chunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be less than chunk size %d",
			domain.ErrConfiguration, overlap, chunkSize)
	}
	return &Splitter{chunkSize: chunkSize, overlap: overlap}, nil
}

// Split returns the chunks of text in left-to-right order.
// Empty or whitespace-only input yields no chunks, not an error.
// Offsets refer to the whitespace-normalised text.
func (s *Splitter) Split(text string) []domain.Chunk {
	norm := normaliseWhitespace(text)
	if norm == "" {
		return nil
	}

	length := len(norm)
	var chunks []domain.Chunk

	start := 0
	covered := 0 // end offset of the last emitted chunk
	for start < length {
		end := start + s.chunkSize
		if end > length {
			end = length
		}

		// Not the final window: pull the cut back to the last sentence
		// boundary, so chunks end mid-sentence only when a window
		// contains no boundary at all.
		if end < length {
			if rel := strings.LastIndexAny(norm[start:end], sentenceBoundaries); rel > 0 {
				end = start + rel + 1
			}
		}

		// Emit only windows that extend coverage. When boundaries
		// cluster, the backward search can produce a window fully
		// contained in the previous chunk; repeating that text adds
		// near-duplicate fragments to the index.
		if end > covered {
			if chunkText := strings.TrimSpace(norm[start:end]); chunkText != "" {
				chunks = append(chunks, domain.Chunk{
					Text:  chunkText,
					Start: start,
					End:   end,
				})
				covered = end
			}
		}

		if covered == length {
			break
		}

		// The max guards against non-termination when a boundary
		// collapses the effective window to near-zero length.
		next := end - s.overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}

	return chunks
}

// ChunkSize returns the configured maximum chunk length.
func (s *Splitter) ChunkSize() int {
	return s.chunkSize
}

// Overlap returns the configured overlap length.
func (s *Splitter) Overlap() int {
	return s.overlap
}

// normaliseWhitespace collapses every whitespace run to a single space
// and trims the ends.
func normaliseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
