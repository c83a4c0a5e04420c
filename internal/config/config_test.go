package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.DefaultModel != ModelAuto {
		t.Errorf("expected default model %q, got %q", ModelAuto, cfg.DefaultModel)
	}
	if cfg.EmbeddingProvider != EmbeddingOpenAI {
		t.Errorf("expected embedding provider %q, got %q", EmbeddingOpenAI, cfg.EmbeddingProvider)
	}
	if cfg.ChunkSize != 1000 || cfg.ChunkOverlap != 200 {
		t.Errorf("expected chunking defaults 1000/200, got %d/%d", cfg.ChunkSize, cfg.ChunkOverlap)
	}
	if cfg.MaxContextChunks != 3 {
		t.Errorf("expected max_context_chunks 3, got %d", cfg.MaxContextChunks)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.flowrag.yml")

	original := DefaultConfig()
	original.DefaultModel = ModelGemini
	original.Port = 9000
	original.EmbeddingProvider = EmbeddingOllama
	original.EmbeddingModel = "nomic-embed-text"
	original.EmbeddingDimensions = 768
	original.Temperature = 0.3

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.DefaultModel != original.DefaultModel {
		t.Errorf("default_model: got %q, want %q", loaded.DefaultModel, original.DefaultModel)
	}
	if loaded.Port != original.Port {
		t.Errorf("port: got %d, want %d", loaded.Port, original.Port)
	}
	if loaded.EmbeddingProvider != original.EmbeddingProvider {
		t.Errorf("embedding_provider: got %q, want %q", loaded.EmbeddingProvider, original.EmbeddingProvider)
	}
	if loaded.EmbeddingDimensions != original.EmbeddingDimensions {
		t.Errorf("embedding_dimensions: got %d, want %d", loaded.EmbeddingDimensions, original.EmbeddingDimensions)
	}
	if loaded.Temperature != original.Temperature {
		t.Errorf("temperature: got %f, want %f", loaded.Temperature, original.Temperature)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load of missing file should not error: %v", err)
	}
	if cfg.DefaultModel != ModelAuto {
		t.Errorf("expected defaults, got model %q", cfg.DefaultModel)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("FLOWRAG_PORT", "9999")
	t.Setenv("FLOWRAG_DEFAULT_MODEL", "openai")

	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "missing.yml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != 9999 {
		t.Errorf("expected env port override 9999, got %d", cfg.Port)
	}
	if cfg.DefaultModel != ModelOpenAI {
		t.Errorf("expected env model override, got %q", cfg.DefaultModel)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"bad model", func(c *Config) { c.DefaultModel = "claude" }, true},
		{"bad embedding provider", func(c *Config) { c.EmbeddingProvider = "cohere" }, true},
		{"temperature too high", func(c *Config) { c.Temperature = 1.5 }, true},
		{"zero chunks", func(c *Config) { c.MaxContextChunks = 0 }, true},
		{"overlap >= size", func(c *Config) { c.ChunkOverlap = c.ChunkSize }, true},
		{"bad port", func(c *Config) { c.Port = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
