package llm

import (
	"fmt"
	"strings"
)

// NewProvider creates a generation provider based on configuration
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "openai":
		return NewOpenAIProvider(config)

	case "":
		return nil, fmt.Errorf("generation provider is required (supported: anthropic, openai)")

	default:
		return nil, fmt.Errorf("unknown generation provider: %s (supported: anthropic, openai)", config.Provider)
	}
}
