package factory

import (
	"fmt"

	"doc-qa-be/pkg/llm"
	"doc-qa-be/pkg/llm/ollama"
	"doc-qa-be/pkg/llm/openai"
)

type Config struct {
	Provider string // "ollama" or "openai"
	Model    string
	BaseURL  string
	ApiKey   string
}

// NewProvider creates an LLM provider based on configuration
func NewProvider(cfg Config) (llm.LLMProvider, error) {
	switch cfg.Provider {
	case "ollama":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		model := cfg.Model
		if model == "" {
			model = "llama3.2"
		}
		return ollama.NewOllamaProvider(baseURL, model), nil

	case "openai":
		if cfg.ApiKey == "" {
			return nil, fmt.Errorf("openai provider requires an api key")
		}
		return openai.NewOpenAIProvider(cfg.ApiKey, cfg.BaseURL, cfg.Model), nil

	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}
