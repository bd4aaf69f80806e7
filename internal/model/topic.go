package model

// Tier is the difficulty/sequencing level of a curriculum module
type Tier string

const (
	TierFoundational Tier = "foundational"
	TierIntermediate Tier = "intermediate"
	TierAdvanced     Tier = "advanced"
)

// Rank returns the sort order of the tier (foundational < intermediate < advanced).
// Unknown tiers sort last.
func (t Tier) Rank() int {
	switch t {
	case TierFoundational:
		return 0
	case TierIntermediate:
		return 1
	case TierAdvanced:
		return 2
	default:
		return 99
	}
}

// ModuleType determines ordering and gating within a tier
type ModuleType string

const (
	ModuleCore           ModuleType = "core"
	ModuleDepth          ModuleType = "depth"
	ModuleSpecialization ModuleType = "specialization"
	ModuleCapstone       ModuleType = "capstone"
)

// Rank returns the sort order of the module type (core < depth < specialization < capstone).
// Unknown types sort last.
func (m ModuleType) Rank() int {
	switch m {
	case ModuleCore:
		return 0
	case ModuleDepth:
		return 1
	case ModuleSpecialization:
		return 2
	case ModuleCapstone:
		return 3
	default:
		return 99
	}
}

// SectionKind identifies one of the generated content sections of a topic
type SectionKind string

const (
	SectionLesson   SectionKind = "lesson"
	SectionScenario SectionKind = "scenario"
	SectionQuiz     SectionKind = "quiz"
	SectionNewsByte SectionKind = "newsByte"
	SectionCapstone SectionKind = "capstone"
)

// TopicDescriptor is a single curriculum unit. Built once at curriculum load
// and immutable thereafter.
type TopicDescriptor struct {
	ID            string     `json:"id" yaml:"id"`
	Title         string     `json:"title" yaml:"title"`
	Objectives    []string   `json:"objectives" yaml:"objectives"`
	KeyTerms      []string   `json:"keyTerms" yaml:"key_terms"`
	PromptHints   string     `json:"promptHints" yaml:"prompt_hints"`
	Domain        string     `json:"domain" yaml:"-"`
	Tier          Tier       `json:"tier" yaml:"tier"`
	ModuleType    ModuleType `json:"moduleType" yaml:"module_type"`
	CompetencyIDs []string   `json:"competencyIds" yaml:"competency_ids"`

	// Prerequisites holds ids of other topics in the same graph. References
	// that do not resolve at load time are dropped with a diagnostic.
	Prerequisites []string `json:"prerequisites" yaml:"prerequisites"`
}

// CompletionRecord is one completed study session for a topic. Consumed by the
// recommendation engine; owned by the progress store.
type CompletionRecord struct {
	TopicID   string `json:"topicId"`
	Date      string `json:"date"` // YYYY-MM-DD
	QuizScore int    `json:"quizScore"`
	QuizTotal int    `json:"quizTotal"`
}
