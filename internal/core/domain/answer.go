package domain

import "time"

// Fixed user-visible answer strings. Query responses never surface empty
// text; they resolve to one of these or to generated model output.
const (
	// NoInformationAnswer is returned when retrieval produces no usable
	// context. The model is never called in that case.
	NoInformationAnswer = "No relevant information was found in the knowledge base."

	// FallbackAnswer is returned when the model produces a blank response.
	FallbackAnswer = "Unable to generate a response. Please try again."

	// RefusalAnswer is the string the model is instructed to emit when the
	// supplied context cannot answer the question.
	RefusalAnswer = "There is not enough information in the provided context to answer this question."
)

// Answer is the outcome of a retrieval-augmented query.
type Answer struct {
	// Text is the answer. Never blank.
	Text string `json:"text"`

	// ContextUsed reports whether retrieved context reached the model.
	ContextUsed bool `json:"context_used"`

	// ChunkCount is the number of context chunks behind the answer.
	ChunkCount int `json:"chunk_count"`
}

// RetrievedChunk is a vector hit joined with its content store record.
type RetrievedChunk struct {
	// RecordID is the content store identifier that resolved the hit.
	RecordID string

	// DocID links to the parent document.
	DocID string

	// Text is the authoritative chunk content from the content store.
	Text string

	// Distance is the cosine distance of the hit (lower is closer).
	Distance float64
}

// HistoryEntry is one recorded question/answer exchange.
type HistoryEntry struct {
	// ID is the unique identifier for the entry.
	ID string

	// Question is the user query as asked.
	Question string

	// Answer is the text returned to the user.
	Answer string

	// CreatedAt is when the exchange happened.
	CreatedAt time.Time
}
