// Package llm wraps the external text-generation capability. Providers return
// raw text plus any citations their search tooling reported; the client layer
// reduces that to typed JSON content.
package llm

import (
	"context"

	"github.com/mkoreshkov/veritrain/internal/model"
)

// Provider defines the interface for text-generation providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Invoke sends a prompt to the capability. MaxSearchUses > 0 grants the
	// model a bounded number of web-search tool invocations; providers
	// without search tooling ignore it.
	Invoke(ctx context.Context, req InvokeRequest) (*InvokeResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// InvokeRequest contains the input for one generation call
type InvokeRequest struct {
	// Prompt is the full instruction text
	Prompt string

	// MaxSearchUses bounds web-search tool invocations (0 disables search)
	MaxSearchUses int

	// Model overrides the configured model (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// InvokeResponse contains the raw capability output
type InvokeResponse struct {
	// Text is the concatenated text output
	Text string

	// Citations accumulated from inline annotations and search-result
	// blocks, deduplicated by URL
	Citations []model.Citation

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds generation provider configuration
type Config struct {
	// Provider name: "anthropic" or "openai"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for the provider
	APIKey string

	// BaseURL for custom endpoints
	BaseURL string

	// Timeout for API requests, in seconds
	Timeout int

	// MaxTokens for response generation
	MaxTokens int
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(mc model.LLMConfig) Config {
	return Config{
		Provider:  mc.Provider,
		Model:     mc.Model,
		APIKey:    mc.APIKey,
		BaseURL:   mc.BaseURL,
		Timeout:   int(mc.Timeout.Seconds()),
		MaxTokens: mc.MaxTokens,
	}
}
