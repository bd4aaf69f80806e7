package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkoreshkov/veritrain/internal/model"
	"github.com/mkoreshkov/veritrain/internal/worker"
)

var (
	batchConcurrency int
	batchTimeout     time.Duration
	batchDomain      string
	batchWorkerIndex int
	batchTotal       int
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Generate sessions for many curriculum topics in parallel",
	Long: `Batch fills the content library:
- Select topics from the whole curriculum or one domain
- Generate sessions concurrently with a configurable worker count
- Skip topics whose content is already stored
- Shard the run across independent processes with --worker/--workers

Sharded workers may race on overlapping topics; the store guarantees the
first stored session wins and the rest are counted as skipped.

Example:
  veritrain batch
  veritrain batch --domain "SOC 2" --concurrency 5
  veritrain batch --worker 0 --workers 3 & veritrain batch --worker 1 --workers 3`,
	Args: cobra.NoArgs,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "number of concurrent topic workers (default from config)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 6*time.Hour, "total timeout for the batch run")
	batchCmd.Flags().StringVar(&batchDomain, "domain", "", "restrict to one curriculum domain")
	batchCmd.Flags().IntVar(&batchWorkerIndex, "worker", 0, "zero-based worker index for sharded runs")
	batchCmd.Flags().IntVar(&batchTotal, "workers", 1, "total workers in a sharded run")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	if batchConcurrency > 0 {
		cfg.Concurrency.Workers = batchConcurrency
	}
	log := newLogger()
	defer func() { _ = log.Sync() }()

	graph, err := loadCurriculum(cfg, log)
	if err != nil {
		return err
	}

	var topics []model.TopicDescriptor
	if batchDomain != "" {
		topics = graph.TopicsInDomain(batchDomain)
		if len(topics) == 0 {
			return fmt.Errorf("no topics in domain %q (known domains: %v)", batchDomain, graph.Domains())
		}
	} else {
		topics = graph.AllTopics()
	}

	topics, err = worker.Shard(topics, batchWorkerIndex, batchTotal)
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	orch, err := buildOrchestrator(cfg, log)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Veritrain Batch Generation\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Topics:       %d\n", len(topics))
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	if batchTotal > 1 {
		fmt.Fprintf(os.Stderr, "  Shard:        %d of %d\n", batchWorkerIndex, batchTotal)
	}
	fmt.Fprintf(os.Stderr, "  Library:      %s\n", cfg.Store.Dir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	batch := worker.NewBatchGenerator(orch, st, cfg.Concurrency.Workers, log)
	summary := batch.Run(ctx, topics)

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Generated:  %d\n", summary.Generated)
	fmt.Fprintf(os.Stderr, "  Skipped:    %d\n", summary.Skipped)
	fmt.Fprintf(os.Stderr, "  Failed:     %d\n", summary.Failed)
	fmt.Fprintf(os.Stderr, "\n")
	for _, f := range summary.Failures {
		fmt.Fprintf(os.Stderr, "✗ %s: %v\n", f.TopicID, f.Error)
	}

	if ctx.Err() != nil {
		return fmt.Errorf("batch interrupted: %w", ctx.Err())
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d topics failed", summary.Failed, len(topics))
	}
	return nil
}
