package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .flowrag.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to flowrag! Let's configure your workspace.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Default model selection.
	modelPrompt := promptui.Select{
		Label: "Default LLM model",
		Items: []string{"auto", "openai", "gemini"},
	}
	_, modelStr, err := modelPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("model selection: %w", err)
	}
	cfg.DefaultModel = ModelChoice(modelStr)

	// 2. Embedding backend. Pinned per deployment: a later switch requires
	// re-embedding the whole corpus with `flowrag reindex`.
	embedPrompt := promptui.Select{
		Label: "Embedding backend",
		Items: []string{"openai", "ollama"},
	}
	_, embedStr, err := embedPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("embedding selection: %w", err)
	}
	cfg.EmbeddingProvider = EmbeddingProvider(embedStr)
	if cfg.EmbeddingProvider == EmbeddingOllama {
		cfg.EmbeddingModel = "nomic-embed-text"
		cfg.EmbeddingDimensions = 768
	}

	// 3. Server port.
	portPrompt := promptui.Prompt{
		Label:   "Server port",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("invalid port")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	// 4. Data directory.
	dataPrompt := promptui.Prompt{
		Label:   "Data directory (SQLite DB and vector index)",
		Default: cfg.DataDir,
	}
	dataDir, err := dataPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}
	cfg.DataDir = dataDir

	// Check for API keys.
	for _, m := range []ModelChoice{ModelOpenAI, ModelGemini} {
		envVar := APIKeyEnvVar(m)
		if os.Getenv(envVar) == "" {
			fmt.Printf("\nNote: %s is not set; the %s provider will be unavailable.\n", envVar, m)
		}
	}

	configPath := ".flowrag.yml"
	if err := cfg.Save(configPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	return cfg, nil
}
