package config

// DefaultExcludes are glob patterns excluded from directory ingestion by default.
var DefaultExcludes = []string{
	"vendor/**",
	"node_modules/**",
	".git/**",
	"dist/**",
	"build/**",
	"*.lock",
	"go.sum",
	"package-lock.json",
	"yarn.lock",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:                8000,
		DataDir:             ".flowrag",
		DefaultModel:        ModelAuto,
		OpenAIModel:         "gpt-4o-mini",
		Temperature:         0.7,
		UseKnowledgeBase:    true,
		MaxContextChunks:    3,
		WebResultCount:      3,
		EmbeddingProvider:   EmbeddingOpenAI,
		EmbeddingModel:      "text-embedding-3-small",
		EmbeddingDimensions: 1536,
		ChunkSize:           1000,
		ChunkOverlap:        200,
		Include:             []string{"**/*.md", "**/*.txt"},
		Exclude:             DefaultExcludes,
	}
}
