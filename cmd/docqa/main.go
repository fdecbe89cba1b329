// Command docqa is a retrieval-augmented question answering CLI.
//
// This is the composition root: it loads configuration, builds the
// driven adapters (storage, vector index, embedding, LLM), wires them
// into the core services, and hands everything to the CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	configfile "github.com/custodia-labs/docqa-cli/internal/adapters/driven/config/file"
	embeddingollama "github.com/custodia-labs/docqa-cli/internal/adapters/driven/embedding/ollama"
	embeddingopenai "github.com/custodia-labs/docqa-cli/internal/adapters/driven/embedding/openai"
	indexmem "github.com/custodia-labs/docqa-cli/internal/adapters/driven/index/memory"
	"github.com/custodia-labs/docqa-cli/internal/adapters/driven/index/qdrant"
	llmanthropic "github.com/custodia-labs/docqa-cli/internal/adapters/driven/llm/anthropic"
	llmollama "github.com/custodia-labs/docqa-cli/internal/adapters/driven/llm/ollama"
	llmopenai "github.com/custodia-labs/docqa-cli/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/docqa-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docqa-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docqa-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docqa-cli/internal/core/services"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "docqa: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// API keys may live in a local .env file.
	godotenv.Load() //nolint:errcheck // Missing .env is fine

	cfg, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	settings := cfg.PipelineSettings()
	if err := settings.Validate(); err != nil {
		return err
	}

	contentStore, docStore, historyStore, closeStores, err := buildStorage(cfg)
	if err != nil {
		return err
	}
	defer closeStores()

	vectorIndex := buildIndex(cfg, settings)
	embedder := buildEmbedder(cfg, settings)
	llm, err := buildLLM(cfg)
	if err != nil {
		return err
	}

	splitter, err := services.NewSplitter(settings.ChunkSize, settings.ChunkOverlap)
	if err != nil {
		return err
	}

	ingestService := services.NewIngestService(splitter, embedder, contentStore, docStore, vectorIndex)
	queryService := services.NewQueryService(embedder, vectorIndex, contentStore, llm, historyStore, settings.TopK)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Ingest: ingestService,
		Query:  queryService,
		Config: cfg,
	})

	return cli.Execute()
}

// buildStorage constructs the content, document, and history stores.
// The default backend is SQLite; "storage.backend = memory" selects the
// ephemeral in-memory stores.
func buildStorage(cfg *configfile.ConfigStore) (
	driven.ContentStore, driven.DocumentStore, driven.HistoryStore, func(), error,
) {
	if cfg.GetString("storage.backend") == "memory" {
		return memory.NewContentStore(), memory.NewDocumentStore(), memory.NewHistoryStore(),
			func() {}, nil
	}

	store, err := sqlite.NewStore(cfg.GetString("storage.data_dir"))
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("open storage: %w", err)
	}

	closeStore := func() {
		store.Close() //nolint:errcheck // Best-effort cleanup
	}
	return store.ContentStore(), store.DocumentStore(), store.HistoryStore(), closeStore, nil
}

// buildIndex constructs the vector index. The default backend is
// Qdrant; "index.backend = memory" selects the in-process index. An
// unreachable Qdrant is not fatal: the index starts degraded and
// searches return no hits until it recovers.
func buildIndex(cfg *configfile.ConfigStore, settings domain.PipelineSettings) driven.VectorIndex {
	if cfg.GetString("index.backend") == "memory" {
		return indexmem.New()
	}

	baseURL := cfg.GetString("index.url")
	if baseURL == "" {
		baseURL = os.Getenv("QDRANT_URL")
	}

	return qdrant.New(qdrant.Config{
		BaseURL:    baseURL,
		APIKey:     os.Getenv("QDRANT_API_KEY"),
		Collection: cfg.GetString("index.collection"),
		Dimensions: settings.Dimensions,
	})
}

// buildEmbedder constructs the lazy embedding handle. The backend is
// not contacted until the first embedding request.
func buildEmbedder(cfg *configfile.ConfigStore, settings domain.PipelineSettings) *services.LazyEmbedder {
	provider := domain.AIProvider(cfg.GetString("embedding.provider"))
	if !provider.IsValid() {
		provider = domain.AIProviderOllama
	}
	model := cfg.GetString("embedding.model")

	var factory services.EmbedderFactory
	switch provider {
	case domain.AIProviderOpenAI:
		factory = func() (driven.EmbeddingService, error) {
			return embeddingopenai.NewEmbeddingService(embeddingopenai.Config{
				APIKey:     os.Getenv("OPENAI_API_KEY"),
				Model:      model,
				Dimensions: settings.Dimensions,
			})
		}
		if model == "" {
			model = embeddingopenai.DefaultModel
		}
	default:
		factory = func() (driven.EmbeddingService, error) {
			return embeddingollama.NewEmbeddingService(embeddingollama.Config{
				BaseURL:    cfg.GetString("embedding.url"),
				Model:      model,
				Dimensions: settings.Dimensions,
			}), nil
		}
		if model == "" {
			model = embeddingollama.DefaultModel
		}
	}

	return services.NewLazyEmbedder(factory, settings.Dimensions, model)
}

// buildLLM constructs the language model client.
func buildLLM(cfg *configfile.ConfigStore) (driven.LLMService, error) {
	provider := domain.AIProvider(cfg.GetString("llm.provider"))
	if !provider.IsValid() {
		provider = domain.AIProviderOllama
	}
	model := cfg.GetString("llm.model")

	switch provider {
	case domain.AIProviderOpenAI:
		return llmopenai.NewLLMService(llmopenai.Config{
			APIKey: os.Getenv("OPENAI_API_KEY"),
			Model:  model,
		})
	case domain.AIProviderAnthropic:
		return llmanthropic.NewLLMService(llmanthropic.Config{
			APIKey: os.Getenv("ANTHROPIC_API_KEY"),
			Model:  model,
		})
	default:
		return llmollama.NewLLMService(llmollama.Config{
			BaseURL: cfg.GetString("llm.url"),
			Model:   model,
		}), nil
	}
}
