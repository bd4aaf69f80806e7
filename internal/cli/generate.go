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
	generateTimeout time.Duration
	generateForce   bool
	generateOut     string
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate <topic-id>",
	Short: "Generate a verified training session for one topic",
	Long: `Generate produces the full training session for a curriculum topic:
- Lesson with inline citations and key term callouts
- Workplace scenario with analysis questions
- Quiz with multiple-choice and code challenge items
- Capstone section for capstone modules

Each section is fact-audited and regenerated until it clears the
confidence threshold, then stored in the content library.

Example:
  veritrain generate grc-soc2-trust-criteria
  veritrain generate grc-soc2-trust-criteria --force --out session.json`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().DurationVar(&generateTimeout, "timeout", 30*time.Minute, "overall generation timeout")
	generateCmd.Flags().BoolVar(&generateForce, "force", false, "regenerate even when stored content exists (existing content is kept; use --out to see the fresh copy)")
	generateCmd.Flags().StringVar(&generateOut, "out", "", "also write the session JSON to this path")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	topicID := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), generateTimeout)
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

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	if !generateForce {
		if _, err := st.Get(topicID); err == nil {
			fmt.Fprintf(os.Stderr, "✓ Content already stored for %s (use --force to regenerate)\n", topicID)
			return nil
		}
	}

	orch, err := buildOrchestrator(cfg, log)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "⚙️  Generating session for %s (%s, %s)...\n", topic.ID, topic.Tier, topic.ModuleType)

	session, err := orch.GenerateSession(ctx, topic)
	if err != nil {
		return fmt.Errorf("generate session: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Lesson: %d sections, confidence %s\n", len(session.Lesson.Sections), confidenceLabel(session.Lesson.ConfidenceScore))
	fmt.Fprintf(os.Stderr, "✓ Scenario: %d questions, confidence %s\n", len(session.Scenario.AnalysisQuestions), confidenceLabel(session.Scenario.ConfidenceScore))
	fmt.Fprintf(os.Stderr, "✓ Quiz: %d items, confidence %s\n", len(session.Quiz.Questions), confidenceLabel(session.Quiz.ConfidenceScore))
	if session.Capstone != nil {
		fmt.Fprintf(os.Stderr, "✓ Capstone: confidence %s\n", confidenceLabel(session.Capstone.ConfidenceScore))
	}

	if err := st.Put(topicID, session); err != nil {
		if generateForce {
			fmt.Fprintf(os.Stderr, "✗ Store kept existing content for %s\n", topicID)
		} else {
			return fmt.Errorf("store session: %w", err)
		}
	} else {
		fmt.Fprintf(os.Stderr, "✓ Stored session for %s\n", topicID)
	}

	if generateOut != "" {
		data, err := json.MarshalIndent(session, "", "  ")
		if err != nil {
			return fmt.Errorf("encode session: %w", err)
		}
		if err := os.WriteFile(generateOut, data, 0o644); err != nil {
			return fmt.Errorf("write session file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", generateOut)
	}

	return nil
}

func confidenceLabel(score *float64) string {
	if score == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.0f/100", *score)
}
