package cli

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mkoreshkov/veritrain/internal/curriculum"
	"github.com/mkoreshkov/veritrain/internal/llm"
	"github.com/mkoreshkov/veritrain/internal/model"
	"github.com/mkoreshkov/veritrain/internal/pipeline"
	"github.com/mkoreshkov/veritrain/internal/store"
	"github.com/mkoreshkov/veritrain/internal/verify"
	"github.com/mkoreshkov/veritrain/internal/worker"
)

// resolveConfig builds the effective configuration: defaults, overridden by
// the config file and VERITRAIN_* environment variables. Commands layer
// their own flags on top. The API key comes from the provider's conventional
// environment variable and is never read from the config file.
func resolveConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	if v := viper.GetString("llm.provider"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := viper.GetString("llm.model"); v != "" {
		cfg.LLM.Model = v
	}
	if v := viper.GetString("llm.base_url"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := viper.GetDuration("llm.timeout"); v > 0 {
		cfg.LLM.Timeout = v
	}
	if v := viper.GetInt("llm.max_tokens"); v > 0 {
		cfg.LLM.MaxTokens = v
	}
	if v := viper.GetFloat64("pipeline.confidence_threshold"); v > 0 {
		cfg.Pipeline.ConfidenceThreshold = v
	}
	if viper.IsSet("pipeline.max_retries") {
		cfg.Pipeline.MaxRetries = viper.GetInt("pipeline.max_retries")
	}
	if v := viper.GetString("curriculum.dir"); v != "" {
		cfg.Curriculum.Dir = v
	}
	if v := viper.GetString("store.kind"); v != "" {
		cfg.Store.Kind = v
	}
	if v := viper.GetString("store.dir"); v != "" {
		cfg.Store.Dir = v
	}
	if v := viper.GetString("store.progress_path"); v != "" {
		cfg.Store.ProgressPath = v
	}
	if v := viper.GetInt("concurrency.workers"); v > 0 {
		cfg.Concurrency.Workers = v
	}
	if v := viper.GetFloat64("rate_limit.requests_per_second"); v > 0 {
		cfg.RateLimit.RequestsPerSecond = v
	}
	if v := viper.GetInt("rate_limit.burst"); v > 0 {
		cfg.RateLimit.Burst = v
	}
	cfg.Output.Verbose = verbose

	switch cfg.LLM.Provider {
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}

	return cfg, nil
}

// newLogger builds the pipeline logger. Verbose runs log human-readable
// lines to stderr; quiet runs keep the stderr channel for the progress marks.
func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logCfg := zap.NewDevelopmentConfig()
	logCfg.DisableStacktrace = true
	log, err := logCfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// buildOrchestrator wires provider, rate limiter, oracle and pipeline
func buildOrchestrator(cfg *model.Config, log *zap.Logger) (*pipeline.Orchestrator, error) {
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}

	limiter := worker.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	client := llm.NewClient(provider, limiter)
	oracle := verify.NewOracle(client, log)

	return pipeline.NewOrchestrator(client, oracle, cfg.Pipeline, log), nil
}

// openStore opens the configured content store
func openStore(cfg *model.Config) (store.Store, error) {
	switch cfg.Store.Kind {
	case "memory":
		return store.NewMemoryStore(), nil
	case "disk", "":
		return store.NewDiskStore(cfg.Store.Dir)
	default:
		return nil, fmt.Errorf("unknown store kind: %s", cfg.Store.Kind)
	}
}

// loadCurriculum loads the topic graph and prints load warnings when verbose
func loadCurriculum(cfg *model.Config, log *zap.Logger) (*curriculum.Graph, error) {
	graph, err := curriculum.Load(cfg.Curriculum.Dir, log)
	if err != nil {
		return nil, fmt.Errorf("load curriculum from %s: %w", cfg.Curriculum.Dir, err)
	}
	if verbose {
		for _, w := range graph.Warnings() {
			fmt.Fprintf(os.Stderr, "curriculum: %s\n", w)
		}
	}
	return graph, nil
}

// findTopic resolves a topic id against the loaded curriculum
func findTopic(graph *curriculum.Graph, id string) (model.TopicDescriptor, error) {
	topic, ok := graph.TopicByID(id)
	if !ok {
		return model.TopicDescriptor{}, fmt.Errorf("topic %q not found in curriculum (%d topics loaded)", id, graph.Len())
	}
	return topic, nil
}
