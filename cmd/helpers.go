package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/adnanhb/flowrag/internal/config"
	"github.com/adnanhb/flowrag/internal/embeddings"
	"github.com/adnanhb/flowrag/internal/llm"
	"github.com/adnanhb/flowrag/internal/vectordb"
	"github.com/adnanhb/flowrag/internal/websearch"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `flowrag init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// openStore builds the vector store for the configured embedding backend and
// loads the persisted index from the data directory if one exists. A missing
// or unreadable index is a warning, not an error: the store starts empty.
func openStore(cfg *config.Config) (vectordb.VectorStore, error) {
	embedder, err := embeddings.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}

	store, err := vectordb.NewChromemStore(embedder)
	if err != nil {
		return nil, fmt.Errorf("creating vector store: %w", err)
	}

	if err := store.Load(context.Background(), cfg.DataDir); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Warning: could not load vector index from %s: %v\n", cfg.DataDir, err)
		}
	}
	return store, nil
}

// buildPool assembles the LLM provider pool from environment credentials,
// applying the configured rate limit when set. Provider order is the "auto"
// priority order.
func buildPool(cfg *config.Config) *llm.Pool {
	providers := []llm.Provider{
		llm.NewOpenAIProvider(os.Getenv(config.APIKeyEnvVar(config.ModelOpenAI)), cfg.OpenAIModel),
		llm.NewGeminiProvider(os.Getenv(config.APIKeyEnvVar(config.ModelGemini)), ""),
	}

	if cfg.LLMRequestsPerMinute > 0 {
		for i, p := range providers {
			providers[i] = llm.NewRateLimitedProvider(p, cfg.LLMRequestsPerMinute)
		}
	}

	return llm.NewPool(log.Printf, providers...)
}

// buildSearcher assembles the web search chain from environment credentials.
// Returns nil when no search credential is present.
func buildSearcher() websearch.Searcher {
	if os.Getenv("SERPAPI_API_KEY") == "" && os.Getenv("BRAVE_API_KEY") == "" {
		return nil
	}
	return websearch.FromEnv(log.Printf)
}
