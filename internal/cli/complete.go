package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkoreshkov/veritrain/internal/model"
	"github.com/mkoreshkov/veritrain/internal/store"
)

var (
	completeScore int
	completeTotal int
)

// completeCmd represents the complete command
var completeCmd = &cobra.Command{
	Use:   "complete <topic-id>",
	Short: "Record a completed study session",
	Long: `Complete appends a completion record for a topic, with an optional quiz
score. Scores feed the recommendation engine: topics answered below 75%
resurface for review ahead of new material.

Example:
  veritrain complete grc-soc2-trust-criteria
  veritrain complete grc-soc2-trust-criteria --score 7 --total 10`,
	Args: cobra.ExactArgs(1),
	RunE: runComplete,
}

func init() {
	rootCmd.AddCommand(completeCmd)

	completeCmd.Flags().IntVar(&completeScore, "score", 0, "quiz questions answered correctly")
	completeCmd.Flags().IntVar(&completeTotal, "total", 0, "quiz questions asked")
}

func runComplete(cmd *cobra.Command, args []string) error {
	topicID := args[0]

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
	if _, err := findTopic(graph, topicID); err != nil {
		return err
	}
	if completeTotal > 0 && (completeScore < 0 || completeScore > completeTotal) {
		return fmt.Errorf("score %d out of range for %d questions", completeScore, completeTotal)
	}

	progress, err := store.NewProgressStore(cfg.Store.ProgressPath)
	if err != nil {
		return err
	}
	record := model.CompletionRecord{
		TopicID:   topicID,
		Date:      time.Now().UTC().Format("2006-01-02"),
		QuizScore: completeScore,
		QuizTotal: completeTotal,
	}
	if err := progress.Append(record); err != nil {
		return fmt.Errorf("record completion: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Recorded completion for %s", topicID)
	if completeTotal > 0 {
		fmt.Fprintf(os.Stderr, " (quiz %d/%d)", completeScore, completeTotal)
	}
	fmt.Fprintln(os.Stderr)
	return nil
}
