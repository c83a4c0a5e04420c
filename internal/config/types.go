package config

// ModelChoice selects which LLM provider answers a query.
type ModelChoice string

const (
	ModelOpenAI ModelChoice = "openai"
	ModelGemini ModelChoice = "gemini"
	ModelAuto   ModelChoice = "auto"
)

// EmbeddingProvider identifies an embedding backend. The backend is pinned
// per deployment; switching it requires a full reindex (see `flowrag reindex`).
type EmbeddingProvider string

const (
	EmbeddingOpenAI EmbeddingProvider = "openai"
	EmbeddingOllama EmbeddingProvider = "ollama"
)

// Config is the top-level flowrag configuration, corresponding to .flowrag.yml.
type Config struct {
	Port            int    `yaml:"port" koanf:"port"`
	DataDir         string `yaml:"data_dir" koanf:"data_dir"`
	AllowAllOrigins bool   `yaml:"allow_all_origins" koanf:"allow_all_origins"`

	DefaultModel ModelChoice `yaml:"default_model" koanf:"default_model"`
	OpenAIModel  string      `yaml:"openai_model" koanf:"openai_model"`
	Temperature  float64     `yaml:"temperature" koanf:"temperature"`

	// LLMRequestsPerMinute throttles generation calls per provider.
	// Zero disables throttling.
	LLMRequestsPerMinute int `yaml:"llm_requests_per_minute" koanf:"llm_requests_per_minute"`

	UseKnowledgeBase bool `yaml:"use_knowledge_base" koanf:"use_knowledge_base"`
	MaxContextChunks int  `yaml:"max_context_chunks" koanf:"max_context_chunks"`
	WebResultCount   int  `yaml:"web_result_count" koanf:"web_result_count"`

	EmbeddingProvider   EmbeddingProvider `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel      string            `yaml:"embedding_model" koanf:"embedding_model"`
	EmbeddingDimensions int               `yaml:"embedding_dimensions" koanf:"embedding_dimensions"`
	OllamaHost          string            `yaml:"ollama_host" koanf:"ollama_host"`

	ChunkSize    int `yaml:"chunk_size" koanf:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap" koanf:"chunk_overlap"`

	Include []string `yaml:"include" koanf:"include"`
	Exclude []string `yaml:"exclude" koanf:"exclude"`
}
