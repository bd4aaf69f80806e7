// Package pipeline drives the generate-and-verify loop: each content section
// is generated, format-checked and fact-audited, then regenerated with a
// correction prompt until it clears the confidence threshold or the retry
// budget runs out.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/mkoreshkov/veritrain/internal/format"
	"github.com/mkoreshkov/veritrain/internal/llm"
	"github.com/mkoreshkov/veritrain/internal/model"
	"github.com/mkoreshkov/veritrain/internal/prompt"
	"github.com/mkoreshkov/veritrain/internal/verify"
)

// Status is the terminal state of a section run. Both states carry usable
// content; the loop never discards a generated section outright.
type Status string

const (
	// StatusAccepted means the section cleared the confidence threshold with
	// no formatting issues
	StatusAccepted Status = "accepted"

	// StatusAcceptedWithWarnings means the retry budget ran out and the last
	// attempt was kept, with its flagged claims and formatting issues attached
	StatusAcceptedWithWarnings Status = "accepted_with_warnings"
)

// Section is the outcome of one generate-and-verify run
type Section[T any] struct {
	Content          T
	Citations        []model.Citation
	ConfidenceScore  float64
	FlaggedClaims    []model.FlaggedClaim
	FormattingIssues []format.Issue
	Status           Status
	Attempts         int
	Outcome          verify.Outcome
}

// Meta builds the verification metadata to embed in published content.
// Flagged claims surface only for warning acceptances; an accepted section
// carries none even when intermediate attempts were flagged.
func (s Section[T]) Meta() model.VerificationMeta {
	score := s.ConfidenceScore
	meta := model.VerificationMeta{
		Citations:       s.Citations,
		ConfidenceScore: &score,
	}
	if s.Status == StatusAcceptedWithWarnings {
		meta.FlaggedClaims = s.FlaggedClaims
	}
	return meta
}

// Orchestrator runs the generation pipeline for one provider configuration
type Orchestrator struct {
	client *llm.Client
	oracle *verify.Oracle
	cfg    model.PipelineConfig
	log    *zap.Logger
}

// NewOrchestrator creates an orchestrator
func NewOrchestrator(client *llm.Client, oracle *verify.Oracle, cfg model.PipelineConfig, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{client: client, oracle: oracle, cfg: cfg, log: log}
}

// Lesson generates a verified lesson section
func (o *Orchestrator) Lesson(ctx context.Context, topic model.TopicDescriptor) (Section[model.LessonContent], error) {
	return run[model.LessonContent](ctx, o, model.SectionLesson, topic)
}

// Scenario generates a verified scenario section
func (o *Orchestrator) Scenario(ctx context.Context, topic model.TopicDescriptor) (Section[model.ScenarioContent], error) {
	return run[model.ScenarioContent](ctx, o, model.SectionScenario, topic)
}

// Quiz generates a verified quiz section
func (o *Orchestrator) Quiz(ctx context.Context, topic model.TopicDescriptor) (Section[model.QuizContent], error) {
	return run[model.QuizContent](ctx, o, model.SectionQuiz, topic)
}

// NewsByte generates a verified news digest section
func (o *Orchestrator) NewsByte(ctx context.Context, topic model.TopicDescriptor) (Section[model.NewsByteContent], error) {
	return run[model.NewsByteContent](ctx, o, model.SectionNewsByte, topic)
}

// Capstone generates a verified capstone section
func (o *Orchestrator) Capstone(ctx context.Context, topic model.TopicDescriptor) (Section[model.CapstoneContent], error) {
	return run[model.CapstoneContent](ctx, o, model.SectionCapstone, topic)
}

// run is the generate-and-verify loop. Generation and parse failures are
// fatal; verification failures are not, the oracle degrades them to
// conservative scores that drive the retry decision like any other score.
func run[T any](ctx context.Context, o *Orchestrator, kind model.SectionKind, topic model.TopicDescriptor) (Section[T], error) {
	var zero Section[T]

	basePrompt := prompt.ForSection(kind, topic)
	currentPrompt := basePrompt
	budget := o.cfg.SearchBudget.For(kind)
	maxAttempts := o.cfg.MaxRetries + 1

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		content, citations, err := llm.Generate[T](ctx, o.client, currentPrompt, budget)
		if err != nil {
			return zero, fmt.Errorf("generate %s for %s: %w", kind, topic.ID, err)
		}

		contentJSON, err := json.Marshal(content)
		if err != nil {
			return zero, fmt.Errorf("encode %s for %s: %w", kind, topic.ID, err)
		}

		issues := format.Validate(content)
		verdict := o.oracle.Verify(ctx, kind, string(contentJSON), citations)

		if verdict.ConfidenceScore >= o.cfg.ConfidenceThreshold && len(issues) == 0 {
			o.log.Info("section accepted",
				zap.String("topic", topic.ID),
				zap.String("section", string(kind)),
				zap.Float64("confidence", verdict.ConfidenceScore),
				zap.Int("attempt", attempt))
			return Section[T]{
				Content:         content,
				Citations:       citations,
				ConfidenceScore: verdict.ConfidenceScore,
				Status:          StatusAccepted,
				Attempts:        attempt,
				Outcome:         verdict.Outcome,
			}, nil
		}

		if attempt == maxAttempts {
			o.log.Warn("retry budget exhausted, accepting with warnings",
				zap.String("topic", topic.ID),
				zap.String("section", string(kind)),
				zap.Float64("confidence", verdict.ConfidenceScore),
				zap.Int("flagged_claims", len(verdict.FlaggedClaims)),
				zap.Int("formatting_issues", len(issues)))
			return Section[T]{
				Content:          content,
				Citations:        citations,
				ConfidenceScore:  verdict.ConfidenceScore,
				FlaggedClaims:    verdict.FlaggedClaims,
				FormattingIssues: issues,
				Status:           StatusAcceptedWithWarnings,
				Attempts:         attempt,
				Outcome:          verdict.Outcome,
			}, nil
		}

		o.log.Info("section below acceptance bar, regenerating",
			zap.String("topic", topic.ID),
			zap.String("section", string(kind)),
			zap.Float64("confidence", verdict.ConfidenceScore),
			zap.Int("flagged_claims", len(verdict.FlaggedClaims)),
			zap.Int("formatting_issues", len(issues)),
			zap.Int("attempt", attempt))

		currentPrompt = prompt.Correction(basePrompt, verdict.FlaggedClaims, formattingFixes(issues))
	}

	// Unreachable: the loop always returns on its last attempt
	return zero, fmt.Errorf("generate %s for %s: retry loop exited without result", kind, topic.ID)
}

func formattingFixes(issues []format.Issue) []prompt.FormattingFix {
	fixes := make([]prompt.FormattingFix, 0, len(issues))
	for _, issue := range issues {
		fixes = append(fixes, prompt.FormattingFix{
			Path:   issue.Path,
			Issue:  string(issue.Kind),
			Sample: issue.Sample,
		})
	}
	return fixes
}
