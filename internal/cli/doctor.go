package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkoreshkov/veritrain/internal/llm"
	"github.com/mkoreshkov/veritrain/internal/store"
)

// doctorCmd represents the doctor command
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration, curriculum and provider connectivity",
	Long: `Doctor verifies that a veritrain installation can actually run:
- Configuration resolves and the API key is present
- The curriculum directory loads without errors
- The content library and progress file are accessible
- The generation provider answers a minimal request

Example:
  veritrain doctor`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	failed := 0
	check := func(name string, err error) {
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", name, err)
			return
		}
		fmt.Fprintf(os.Stderr, "✓ %s\n", name)
	}

	cfg, err := resolveConfig()
	check("configuration", err)
	if err != nil {
		return fmt.Errorf("doctor found %d problem(s)", failed)
	}
	log := newLogger()
	defer func() { _ = log.Sync() }()

	graph, err := loadCurriculum(cfg, log)
	if err == nil && graph.Len() == 0 {
		err = fmt.Errorf("no topics loaded from %s", cfg.Curriculum.Dir)
	}
	if err == nil {
		fmt.Fprintf(os.Stderr, "✓ curriculum: %d topics across %d domains\n", graph.Len(), len(graph.Domains()))
		for _, w := range graph.Warnings() {
			fmt.Fprintf(os.Stderr, "  ! %s\n", w)
		}
	} else {
		check("curriculum", err)
	}

	st, err := openStore(cfg)
	if err == nil {
		var ids []string
		ids, err = st.TopicIDs()
		if err == nil {
			fmt.Fprintf(os.Stderr, "✓ library: %d stored sessions\n", len(ids))
		}
	}
	if err != nil {
		check("library", err)
	}

	_, err = store.NewProgressStore(cfg.Store.ProgressPath)
	check("progress file", err)

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	check("provider configuration", err)
	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if !provider.IsAvailable(ctx) {
			failed++
			fmt.Fprintf(os.Stderr, "✗ provider %s unreachable\n", provider.Name())
		} else {
			fmt.Fprintf(os.Stderr, "✓ provider %s reachable\n", provider.Name())
		}
	}

	if failed > 0 {
		return fmt.Errorf("doctor found %d problem(s)", failed)
	}
	fmt.Fprintln(os.Stderr, "\nAll checks passed.")
	return nil
}
