package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	newsTimeout time.Duration
	newsOut     string
)

// newsCmd represents the news command
var newsCmd = &cobra.Command{
	Use:   "news <topic-id>",
	Short: "Generate a verified news digest for a topic",
	Long: `News produces a short digest of recent regulatory and industry
developments relevant to one curriculum topic, generated with live web
search and fact-audited like every other section. News digests are not
stored in the library; they are meant to be fresh each run.

Example:
  veritrain news grc-gdpr-enforcement
  veritrain news grc-gdpr-enforcement --out news.json`,
	Args: cobra.ExactArgs(1),
	RunE: runNews,
}

func init() {
	rootCmd.AddCommand(newsCmd)

	newsCmd.Flags().DurationVar(&newsTimeout, "timeout", 15*time.Minute, "generation timeout")
	newsCmd.Flags().StringVar(&newsOut, "out", "", "write the digest JSON to this path instead of stdout")
}

func runNews(cmd *cobra.Command, args []string) error {
	topicID := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), newsTimeout)
	defer cancel()

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
	topic, err := findTopic(graph, topicID)
	if err != nil {
		return err
	}

	orch, err := buildOrchestrator(cfg, log)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "⚙️  Generating news digest for %s...\n", topic.ID)

	section, err := orch.NewsByte(ctx, topic)
	if err != nil {
		return fmt.Errorf("generate news digest: %w", err)
	}
	section.Content.VerificationMeta = section.Meta()

	fmt.Fprintf(os.Stderr, "✓ %d updates, %d citations, confidence %.0f/100\n",
		len(section.Content.Updates), len(section.Citations), section.ConfidenceScore)

	data, err := json.MarshalIndent(section.Content, "", "  ")
	if err != nil {
		return fmt.Errorf("encode digest: %w", err)
	}
	if newsOut != "" {
		if err := os.WriteFile(newsOut, data, 0o644); err != nil {
			return fmt.Errorf("write digest file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", newsOut)
		return nil
	}
	fmt.Println(string(data))
	return nil
}
