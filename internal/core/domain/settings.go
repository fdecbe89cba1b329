package domain

import "fmt"

// Default pipeline parameters.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
	DefaultTopK         = 5
	DefaultDimensions   = 768
)

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// PipelineSettings holds the tunable parameters the core consumes.
// Validate runs at startup; a process never serves traffic with
// invalid settings.
type PipelineSettings struct {
	// ChunkSize is the maximum chunk length in bytes of normalised text.
	ChunkSize int

	// ChunkOverlap is the number of bytes shared between consecutive
	// chunks. Must be smaller than ChunkSize.
	ChunkOverlap int

	// TopK is the number of nearest neighbours retrieved per query.
	TopK int

	// Dimensions is the embedding vector size. Must match the embedding
	// model and the vector index configuration.
	Dimensions int
}

// DefaultPipelineSettings returns the standard parameters.
func DefaultPipelineSettings() PipelineSettings {
	return PipelineSettings{
		ChunkSize:    DefaultChunkSize,
		ChunkOverlap: DefaultChunkOverlap,
		TopK:         DefaultTopK,
		Dimensions:   DefaultDimensions,
	}
}

// Validate checks the settings, failing fast with ErrConfiguration.
func (s PipelineSettings) Validate() error {
	if s.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk size must be greater than 0, got %d", ErrConfiguration, s.ChunkSize)
	}
	if s.ChunkOverlap < 0 {
		return fmt.Errorf("%w: chunk overlap must be non-negative, got %d", ErrConfiguration, s.ChunkOverlap)
	}
	if s.ChunkOverlap >= s.ChunkSize {
		return fmt.Errorf("%w: chunk overlap %d must be less than chunk size %d",
			ErrConfiguration, s.ChunkOverlap, s.ChunkSize)
	}
	if s.TopK <= 0 {
		return fmt.Errorf("%w: top-K must be greater than 0, got %d", ErrConfiguration, s.TopK)
	}
	if s.Dimensions <= 0 {
		return fmt.Errorf("%w: dimensions must be greater than 0, got %d", ErrConfiguration, s.Dimensions)
	}
	return nil
}
