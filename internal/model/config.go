package model

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds the complete veritrain configuration
type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	Pipeline    PipelineConfig    `yaml:"pipeline"`
	Curriculum  CurriculumConfig  `yaml:"curriculum"`
	Store       StoreConfig       `yaml:"store"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	Output      OutputConfig      `yaml:"output"`
}

// LLMConfig holds generation capability settings
type LLMConfig struct {
	// Provider name: "anthropic" or "openai"
	Provider string `yaml:"provider"`

	// Model name (provider-specific)
	Model string `yaml:"model"`

	// APIKey for the provider (usually from environment)
	APIKey string `yaml:"api_key"`

	// BaseURL for custom endpoints
	BaseURL string `yaml:"base_url"`

	// Timeout for a single API request
	Timeout time.Duration `yaml:"timeout"`

	// MaxTokens for response generation
	MaxTokens int `yaml:"max_tokens"`
}

// PipelineConfig holds the generate-and-verify tunables
type PipelineConfig struct {
	// ConfidenceThreshold is the minimum verification score for acceptance
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`

	// MaxRetries bounds the regenerate-with-correction loop
	MaxRetries int `yaml:"max_retries"`

	// SearchBudget limits web-search tool invocations per section kind
	SearchBudget SearchBudget `yaml:"search_budget"`
}

// SearchBudget holds per-section web-search invocation limits
type SearchBudget struct {
	Lesson   int `yaml:"lesson"`
	Scenario int `yaml:"scenario"`
	Quiz     int `yaml:"quiz"`
	NewsByte int `yaml:"news_byte"`
	Capstone int `yaml:"capstone"`
}

// For returns the search budget for a section kind
func (b SearchBudget) For(kind SectionKind) int {
	switch kind {
	case SectionLesson:
		return b.Lesson
	case SectionScenario:
		return b.Scenario
	case SectionQuiz:
		return b.Quiz
	case SectionNewsByte:
		return b.NewsByte
	case SectionCapstone:
		return b.Capstone
	default:
		return 0
	}
}

// CurriculumConfig locates the curriculum definition files
type CurriculumConfig struct {
	// Dir containing one YAML definition file per domain
	Dir string `yaml:"dir"`
}

// StoreConfig holds content store settings
type StoreConfig struct {
	// Kind: "disk" or "memory"
	Kind string `yaml:"kind"`

	// Dir for the disk store (one JSON document per topic)
	Dir string `yaml:"dir"`

	// ProgressPath is the completion-record file
	ProgressPath string `yaml:"progress_path"`
}

// ConcurrencyConfig holds worker pool settings for batch generation
type ConcurrencyConfig struct {
	// Workers is the number of concurrent topic workers
	Workers int `yaml:"workers"`
}

// RateLimitConfig throttles calls to the generation capability
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// OutputConfig holds CLI output settings
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	base := filepath.Join(home, ".veritrain")

	return &Config{
		LLM: LLMConfig{
			Provider:  "anthropic",
			Model:     "",
			Timeout:   120 * time.Second,
			MaxTokens: 8192,
		},
		Pipeline: PipelineConfig{
			ConfidenceThreshold: 95,
			MaxRetries:          10,
			SearchBudget: SearchBudget{
				Lesson:   10,
				Scenario: 8,
				Quiz:     8,
				NewsByte: 10,
				Capstone: 6,
			},
		},
		Curriculum: CurriculumConfig{
			Dir: filepath.Join(base, "curriculum"),
		},
		Store: StoreConfig{
			Kind:         "disk",
			Dir:          filepath.Join(base, "library"),
			ProgressPath: filepath.Join(base, "progress.json"),
		},
		Concurrency: ConcurrencyConfig{
			Workers: 3,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 0.5,
			Burst:             2,
		},
		Output: OutputConfig{
			Verbose: false,
		},
	}
}
