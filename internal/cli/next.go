package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mkoreshkov/veritrain/internal/curriculum"
	"github.com/mkoreshkov/veritrain/internal/store"
)

var nextPath string

// nextCmd represents the next command
var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Recommend the next topic to study",
	Long: `Next picks the topic for today's session from the curriculum and the
completion history:
- Foundational tiers before intermediate and advanced
- Weak topics (low quiz scores) resurface ahead of new material
- Prerequisites gate a topic until its dependencies are completed
- Consecutive sessions rotate across domains where possible

Example:
  veritrain next
  veritrain next --path grc-soc2-intro,grc-soc2-trust-criteria,grc-soc2-audit`,
	Args: cobra.NoArgs,
	RunE: runNext,
}

func init() {
	rootCmd.AddCommand(nextCmd)

	nextCmd.Flags().StringVar(&nextPath, "path", "", "comma-separated topic ids restricting the run to a learning path")
}

func runNext(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	log := newLogger()
	defer func() { _ = log.Sync() }()

	graph, err := loadCurriculum(cfg, log)
	if err != nil {
		return err
	}
	progress, err := store.NewProgressStore(cfg.Store.ProgressPath)
	if err != nil {
		return err
	}

	opts := curriculum.RecommendOptions{
		WeakTopicIDs: progress.WeakTopicIDs(),
	}
	if nextPath != "" {
		for _, id := range strings.Split(nextPath, ",") {
			if id = strings.TrimSpace(id); id != "" {
				opts.PathModuleIDs = append(opts.PathModuleIDs, id)
			}
		}
	}

	lastDomain := progress.LastDomain(func(id string) (string, bool) {
		t, ok := graph.TopicByID(id)
		return t.Domain, ok
	})

	rec, err := curriculum.NewRecommender(graph).NextTopic(progress.CompletedIDs(), lastDomain, opts)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", rec.Topic.ID)
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Topic:    %s\n", rec.Topic.Title)
	fmt.Fprintf(os.Stderr, "  Domain:   %s\n", rec.Topic.Domain)
	fmt.Fprintf(os.Stderr, "  Tier:     %s (%s)\n", rec.Topic.Tier, rec.Topic.ModuleType)
	fmt.Fprintf(os.Stderr, "  Reason:   %s\n", rec.Reason())
	if len(rec.MissingPrerequisites) > 0 {
		fmt.Fprintf(os.Stderr, "  Missing:  %s\n", strings.Join(rec.MissingPrerequisites, ", "))
	}
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}
