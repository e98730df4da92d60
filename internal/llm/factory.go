package llm

import (
	"fmt"
	"os"
	"strings"

	"github.com/vigil-sec/vigil/internal/model"
)

// NewProvider creates a new LLM provider based on configuration.
// An empty provider name returns (nil, nil): the review is disabled.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai)", config.Provider)
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config, pulling the
// API key from the environment when the config carries none.
func ConfigFromModel(modelConfig model.LLMConfig) Config {
	apiKey := modelConfig.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	return Config{
		Provider:  modelConfig.Provider,
		Model:     modelConfig.Model,
		APIKey:    apiKey,
		BaseURL:   modelConfig.BaseURL,
		Timeout:   modelConfig.Timeout,
		MaxTokens: modelConfig.MaxTokens,
	}
}
