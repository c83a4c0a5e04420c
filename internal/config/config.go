package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (FLOWRAG_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: FLOWRAG_PORT -> port, etc.
	if err := k.Load(env.Provider("FLOWRAG_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "FLOWRAG_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validModels is the set of recognized default_model values.
var validModels = map[ModelChoice]bool{
	ModelOpenAI: true,
	ModelGemini: true,
	ModelAuto:   true,
}

// validEmbeddingProviders is the set of recognized embedding_provider values.
var validEmbeddingProviders = map[EmbeddingProvider]bool{
	EmbeddingOpenAI: true,
	EmbeddingOllama: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}

	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	if !validModels[c.DefaultModel] {
		return fmt.Errorf("invalid default_model %q: must be one of openai, gemini, auto", c.DefaultModel)
	}

	if !validEmbeddingProviders[c.EmbeddingProvider] {
		return fmt.Errorf("invalid embedding_provider %q: must be one of openai, ollama", c.EmbeddingProvider)
	}

	if c.Temperature < 0 || c.Temperature > 1 {
		return fmt.Errorf("temperature must be between 0 and 1")
	}

	if c.MaxContextChunks <= 0 {
		return fmt.Errorf("max_context_chunks must be positive")
	}

	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive")
	}

	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk_overlap must be non-negative and smaller than chunk_size")
	}

	if c.LLMRequestsPerMinute < 0 {
		return fmt.Errorf("llm_requests_per_minute must not be negative")
	}

	return nil
}

// APIKeyEnvVar returns the conventional environment variable name for
// the API key of the given model choice.
func APIKeyEnvVar(model ModelChoice) string {
	switch model {
	case ModelOpenAI:
		return "OPENAI_API_KEY"
	case ModelGemini:
		return "GOOGLE_API_KEY"
	default:
		return ""
	}
}
