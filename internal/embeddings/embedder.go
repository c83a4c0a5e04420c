// Package embeddings turns text into fixed-dimension vectors. The backend is
// pinned per deployment via config; mixing vectors from backends with
// different dimensions in one index is not allowed, so switching backends
// goes through a full reindex rather than a per-request fallback.
package embeddings

import (
	"context"
	"fmt"
	"os"

	"github.com/adnanhb/flowrag/internal/config"
)

// Embedder defines the interface for generating text embeddings.
type Embedder interface {
	// Embed generates embeddings for one or more texts.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the number of dimensions in the embedding vectors.
	Dimensions() int

	// Name returns the name/identifier of the embedding model.
	Name() string
}

// New creates the Embedder pinned by the given config.
func New(cfg *config.Config) (Embedder, error) {
	switch cfg.EmbeddingProvider {
	case config.EmbeddingOpenAI:
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for OpenAI embeddings")
		}
		return NewOpenAIEmbedder(apiKey, OpenAIModel(cfg.EmbeddingModel)), nil

	case config.EmbeddingOllama:
		dims := cfg.EmbeddingDimensions
		if dims == 0 {
			dims = 768
		}
		return NewOllamaEmbedder(cfg.EmbeddingModel, dims, cfg.OllamaHost), nil

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.EmbeddingProvider)
	}
}
