package model

import (
	"encoding/json"
	"fmt"
)

// Citation is a (url, title, snippet) triple substantiating a generated claim,
// sourced from the generation capability's search tool
type Citation struct {
	URL       string `json:"url"`
	Title     string `json:"title"`
	CitedText string `json:"citedText"`
}

// FlaggedClaim is a specific factual assertion identified as likely incorrect
// by the verification oracle
type FlaggedClaim struct {
	Claim      string `json:"claim"`
	Issue      string `json:"issue"`
	Suggestion string `json:"suggestion"`
	Section    string `json:"section"`
}

// VerificationMeta is attached to every generated section after the
// generate-and-verify pipeline has run. FlaggedClaims is populated only when
// the section was accepted below the confidence threshold - its presence is
// the "needs review" signal.
type VerificationMeta struct {
	Citations       []Citation     `json:"citations,omitempty"`
	ConfidenceScore *float64       `json:"confidenceScore,omitempty"`
	FlaggedClaims   []FlaggedClaim `json:"flaggedClaims,omitempty"`
}

// LessonContent is a structured lesson with 3-5 sections
type LessonContent struct {
	Title                string          `json:"title"`
	EstimatedReadingTime int             `json:"estimatedReadingTime"`
	Introduction         string          `json:"introduction"`
	Sections             []LessonSection `json:"sections"`
	KeyTakeaways         []string        `json:"keyTakeaways"`
	VerificationMeta
}

// LessonSection is one headed block of lesson prose
type LessonSection struct {
	Heading        string          `json:"heading"`
	Content        string          `json:"content"`
	KeyTermCallout *KeyTermCallout `json:"keyTermCallout,omitempty"`
}

// KeyTermCallout highlights and defines an important term inside a section
type KeyTermCallout struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// ScenarioContent is a case-study scenario with model analyses
type ScenarioContent struct {
	Title             string             `json:"title"`
	Context           string             `json:"context"`
	Scenario          string             `json:"scenario"`
	AnalysisQuestions []AnalysisQuestion `json:"analysisQuestions"`
	VerificationMeta
}

// AnalysisQuestion pairs a scenario question with its model analysis
type AnalysisQuestion struct {
	Question string `json:"question"`
	Analysis string `json:"analysis"`
}

// QuizContent holds the assessment items for a topic
type QuizContent struct {
	Questions []AssessmentItem `json:"questions"`
	VerificationMeta
}

// MultipleChoiceItem is a 4-option question with a 0-based correct index
type MultipleChoiceItem struct {
	ID           string   `json:"id"`
	Format       string   `json:"format,omitempty"`
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Explanation  string   `json:"explanation"`
}

// CodeChallengeItem is a code exercise validated by pattern matching against
// the submitted artifact
type CodeChallengeItem struct {
	ID              string                  `json:"id"`
	Format          string                  `json:"format"`
	Language        string                  `json:"language"`
	ScenarioContext string                  `json:"scenario_context"`
	ControlMapping  string                  `json:"control_mapping"`
	ExpectedArtifact string                 `json:"expected_artifact"`
	StarterCode     string                  `json:"starter_code"`
	SolutionCode    string                  `json:"solution_code"`
	Validation      CodeChallengeValidation `json:"validation"`
	Hints           []string                `json:"hints"`
	Explanation     string                  `json:"explanation"`
}

// CodeChallengeValidation holds the pattern rules applied to a submission
type CodeChallengeValidation struct {
	RequiredPatterns  []string       `json:"required_patterns"`
	ForbiddenPatterns []string       `json:"forbidden_patterns"`
	MinOccurrences    map[string]int `json:"min_occurrences,omitempty"`
}

// AssessmentItem is the tagged union of the two quiz item formats,
// discriminated by the wire-level "format" field. Exactly one of the two
// variants is set.
type AssessmentItem struct {
	MultipleChoice *MultipleChoiceItem
	CodeChallenge  *CodeChallengeItem
}

// ID returns the item id regardless of variant
func (a AssessmentItem) ID() string {
	switch {
	case a.MultipleChoice != nil:
		return a.MultipleChoice.ID
	case a.CodeChallenge != nil:
		return a.CodeChallenge.ID
	default:
		return ""
	}
}

// UnmarshalJSON decodes the item into the variant named by its format
// discriminator. An absent format defaults to multiple choice, matching the
// generator's output for older content.
func (a *AssessmentItem) UnmarshalJSON(data []byte) error {
	var probe struct {
		Format string `json:"format"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("probe assessment item format: %w", err)
	}

	switch probe.Format {
	case "code_challenge":
		var item CodeChallengeItem
		if err := json.Unmarshal(data, &item); err != nil {
			return fmt.Errorf("decode code challenge item: %w", err)
		}
		a.CodeChallenge = &item
		a.MultipleChoice = nil
		return nil
	case "", "multiple_choice":
		var item MultipleChoiceItem
		if err := json.Unmarshal(data, &item); err != nil {
			return fmt.Errorf("decode multiple choice item: %w", err)
		}
		a.MultipleChoice = &item
		a.CodeChallenge = nil
		return nil
	default:
		return fmt.Errorf("unknown assessment item format: %q", probe.Format)
	}
}

// MarshalJSON emits whichever variant is set
func (a AssessmentItem) MarshalJSON() ([]byte, error) {
	switch {
	case a.CodeChallenge != nil:
		return json.Marshal(a.CodeChallenge)
	case a.MultipleChoice != nil:
		return json.Marshal(a.MultipleChoice)
	default:
		return nil, fmt.Errorf("assessment item has no variant set")
	}
}

// NewsByteContent is a short current-events briefing tied to a topic
type NewsByteContent struct {
	Headline     string       `json:"headline"`
	Summary      string       `json:"summary"`
	Updates      []NewsUpdate `json:"updates"`
	WhyItMatters string       `json:"whyItMatters"`
	VerificationMeta
}

// NewsUpdate is one sourced development in a news byte
type NewsUpdate struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Source  string `json:"source"`
}

// CapstoneContent is an applied capstone assignment with a grading rubric
type CapstoneContent struct {
	DeliverablePrompt  string              `json:"deliverable_prompt"`
	DeliverableFormat  string              `json:"deliverable_format"`
	SynthesisQuestions []SynthesisQuestion `json:"synthesis_questions"`
	ScenarioDecisions  []ScenarioDecision  `json:"scenario_decisions"`
	Rubric             []RubricCriterion   `json:"rubric"`
	VerificationMeta
}

// SynthesisQuestion requires tradeoff reasoning from the learner
type SynthesisQuestion struct {
	Question string `json:"question"`
	Guidance string `json:"guidance"`
}

// ScenarioDecision is a decision point with a best option and rationale
type ScenarioDecision struct {
	Situation  string   `json:"situation"`
	Options    []string `json:"options"`
	BestOption string   `json:"best_option"`
	Rationale  string   `json:"rationale"`
}

// RubricCriterion describes grading expectations for one criterion
type RubricCriterion struct {
	Criterion  string `json:"criterion"`
	Excellent  string `json:"excellent"`
	Acceptable string `json:"acceptable"`
	NeedsWork  string `json:"needs_work"`
}
