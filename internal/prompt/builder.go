// Package prompt builds the natural-language instructions sent to the
// generation capability. All functions are pure: a topic descriptor in, a
// prompt string out.
package prompt

import (
	"fmt"
	"strings"

	"github.com/mkoreshkov/veritrain/internal/model"
)

const rolePreamble = "You are a GRC (Governance, Risk & Compliance) training expert creating content for junior GRC analysts and engineers."

// currentFrameworks pins the generator to current framework versions. Stale
// framework references are the most common factual defect in generated
// content.
const currentFrameworks = `Use current versions of all standards and frameworks:
- NIST CSF 2.0 (not 1.1)
- ISO 27001:2022 (not 2013)
- SOC 2 (2017 Trust Services Criteria)
- PCI DSS 4.0
- COBIT 2019
- GDPR (Regulation 2016/679)
- CCPA as amended by CPRA`

// ForSection returns the generation prompt for a section kind. Unknown kinds
// fall back to the lesson prompt; a malformed topic is a contract violation,
// not a runtime error.
func ForSection(kind model.SectionKind, topic model.TopicDescriptor) string {
	switch kind {
	case model.SectionLesson:
		return Lesson(topic)
	case model.SectionScenario:
		return Scenario(topic)
	case model.SectionQuiz:
		return Quiz(topic)
	case model.SectionNewsByte:
		return NewsByte(topic)
	case model.SectionCapstone:
		return Capstone(topic)
	default:
		return Lesson(topic)
	}
}

// Lesson builds the structured-lesson generation prompt
func Lesson(topic model.TopicDescriptor) string {
	return fmt.Sprintf(`%s

IMPORTANT: Before writing, search the web to verify all facts, framework details, and regulatory references. Only state verifiable facts. Reference specific clause numbers, section IDs, or control numbers where applicable.

%s

Generate a structured lesson on the following topic for a %s-level audience in the %s domain.

Topic: %s
Learning Objectives: %s
Key Terms to Cover: %s
Additional Guidance: %s

Requirements:
- Write approximately 1,200 words total across all sections.
- Use practical, real-world examples from corporate compliance, regulatory environments, or risk management.
- Include 3-5 content sections, each with a clear heading.
- Where appropriate, include a keyTermCallout in a section to highlight and define an important term.
- Provide 3-5 concise key takeaways at the end.
- Set estimatedReadingTime to the approximate minutes needed to read the lesson.
- If you are uncertain about any fact, note the limitation rather than stating it as fact.

Respond with ONLY valid JSON matching this schema (no markdown, no code fences):
{
  "title": "string",
  "estimatedReadingTime": number,
  "introduction": "string",
  "sections": [
    {
      "heading": "string",
      "content": "string",
      "keyTermCallout": { "term": "string", "definition": "string" }
    }
  ],
  "keyTakeaways": ["string"]
}`,
		rolePreamble, currentFrameworks,
		topic.Tier, topic.Domain, topic.Title,
		strings.Join(topic.Objectives, "; "),
		strings.Join(topic.KeyTerms, ", "),
		topic.PromptHints)
}

// Scenario builds the case-study generation prompt
func Scenario(topic model.TopicDescriptor) string {
	return fmt.Sprintf(`%s

IMPORTANT: Before writing, search the web for real-world incidents, enforcement actions, or case studies relevant to this topic. Base your scenario on realistic patterns from actual cases and cite the real precedents that inspired it.

Generate a realistic case-study scenario on the following topic for a %s-level audience in the %s domain.

Topic: %s
Learning Objectives: %s
Key Terms: %s
Additional Guidance: %s

Requirements:
- Write approximately 500 words total.
- Set the scenario in a believable corporate or regulatory context inspired by real events.
- Provide 2-4 analysis questions, each with a model analysis answer that references specific best practices, frameworks, or regulatory requirements.
- The scenario should challenge the reader to apply knowledge, not just recall facts.

Respond with ONLY valid JSON matching this schema (no markdown, no code fences):
{
  "title": "string",
  "context": "string",
  "scenario": "string",
  "analysisQuestions": [
    { "question": "string", "analysis": "string" }
  ]
}`,
		rolePreamble,
		topic.Tier, topic.Domain, topic.Title,
		strings.Join(topic.Objectives, "; "),
		strings.Join(topic.KeyTerms, ", "),
		topic.PromptHints)
}

// Quiz builds the assessment generation prompt
func Quiz(topic model.TopicDescriptor) string {
	return fmt.Sprintf(`%s

IMPORTANT: Before writing, search the web to verify each correct answer against authoritative sources. Every explanation must reference the specific standard, regulation, or framework clause that supports the answer. Do not guess -- verify.

Generate a quiz on the following topic for a %s-level audience in the %s domain.

Topic: %s
Learning Objectives: %s
Key Terms: %s
Additional Guidance: %s

Requirements:
- Generate exactly 6 assessment items.
- Default format is multiple choice with exactly 4 options (A-D), using 0-based correctIndex.
- If the topic is engineering-oriented (automation, IaC, pipelines, policy-as-code), include at least one item using format "code_challenge".
- Every item must include an explanation tied to authoritative control/framework intent.
- Mix difficulty: 2 recall, 2 application, 2 analysis-level prompts.
- Give each item a unique id like "q1", "q2", etc.

Respond with ONLY valid JSON matching this schema (no markdown, no code fences):
{
  "questions": [
    {
      "id": "string",
      "format": "multiple_choice",
      "question": "string",
      "options": ["string", "string", "string", "string"],
      "correctIndex": number,
      "explanation": "string"
    },
    {
      "id": "string",
      "format": "code_challenge",
      "language": "hcl|yaml|json|python|bash",
      "scenario_context": "string",
      "control_mapping": "string",
      "expected_artifact": "string",
      "starter_code": "string",
      "solution_code": "string",
      "validation": {
        "required_patterns": ["string"],
        "forbidden_patterns": ["string"],
        "min_occurrences": { "string": 1 }
      },
      "hints": ["string"],
      "explanation": "string"
    }
  ]
}`,
		rolePreamble,
		topic.Tier, topic.Domain, topic.Title,
		strings.Join(topic.Objectives, "; "),
		strings.Join(topic.KeyTerms, ", "),
		topic.PromptHints)
}

// NewsByte builds the current-events briefing prompt
func NewsByte(topic model.TopicDescriptor) string {
	return fmt.Sprintf(`You are a GRC (Governance, Risk & Compliance) news analyst creating a briefing for compliance professionals.

IMPORTANT: Search the web for REAL, current news and developments related to this topic from the past 6 months. Do NOT fabricate news. Every update must reference a real article, regulation, or announcement that you found through search.

Topic: %s
Domain: %s
Key Terms: %s
Additional Guidance: %s

Requirements:
- Write approximately 400 words total.
- Create a compelling headline summarizing the current landscape.
- Write a 1-2 sentence summary.
- Include 2-3 updates based on REAL news you found via search. Each update must have:
  - A title summarizing the development
  - A content paragraph explaining the details
  - A "source" field with the REAL publication name (e.g., the actual outlet or agency that published it)
- End with a "Why It Matters" paragraph explaining relevance to GRC professionals and how it connects to the training topic.

Respond with ONLY valid JSON matching this schema (no markdown, no code fences):
{
  "headline": "string",
  "summary": "string",
  "updates": [
    { "title": "string", "content": "string", "source": "string" }
  ],
  "whyItMatters": "string"
}`,
		topic.Title, topic.Domain,
		strings.Join(topic.KeyTerms, ", "),
		topic.PromptHints)
}

// Capstone builds the applied capstone assignment prompt
func Capstone(topic model.TopicDescriptor) string {
	return fmt.Sprintf(`You are a senior GRC program lead designing a capstone assignment.

Create an applied capstone for:
Topic: %s
Domain: %s
Level: %s
Objectives: %s

Requirements:
- Provide a realistic deliverable prompt with explicit format guidance.
- Include 3 synthesis questions that require tradeoff reasoning.
- Include 3 scenario decision points with options, best option, and rationale.
- Include a 4-criterion rubric with excellent/acceptable/needs_work expectations.
- Keep outputs practical and enterprise-oriented.

Respond with ONLY valid JSON (no markdown, no code fences):
{
  "deliverable_prompt": "string",
  "deliverable_format": "string",
  "synthesis_questions": [
    { "question": "string", "guidance": "string" }
  ],
  "scenario_decisions": [
    {
      "situation": "string",
      "options": ["string", "string", "string"],
      "best_option": "string",
      "rationale": "string"
    }
  ],
  "rubric": [
    {
      "criterion": "string",
      "excellent": "string",
      "acceptable": "string",
      "needs_work": "string"
    }
  ]
}`,
		topic.Title, topic.Domain, topic.Tier,
		strings.Join(topic.Objectives, "; "))
}

// Correction appends the enumerated required fixes from a failed verification
// round to the original prompt. Full content replacement, not a patch: the
// regenerated output must satisfy the original prompt plus every listed fix.
func Correction(originalPrompt string, flaggedClaims []model.FlaggedClaim, formattingIssues []FormattingFix) string {
	var fixes strings.Builder
	for i, f := range flaggedClaims {
		fmt.Fprintf(&fixes, "%d. CLAIM: %q - ISSUE: %s - FIX: %s\n", i+1, f.Claim, f.Issue, f.Suggestion)
	}
	fixText := strings.TrimSuffix(fixes.String(), "\n")
	if fixText == "" {
		fixText = "None provided."
	}

	var formatting strings.Builder
	if len(formattingIssues) > 0 {
		formatting.WriteString("\nFORMATTING FIXES REQUIRED:\n")
		for i, f := range formattingIssues {
			fmt.Fprintf(&formatting, "%d. PATH: %s - ISSUE: %s - SAMPLE: %q\n", i+1, f.Path, f.Issue, f.Sample)
		}
	}

	return fmt.Sprintf(`%s

CRITICAL CORRECTIONS REQUIRED - The previous version of this content had the following accuracy issues that MUST be fixed:
%s
%s
Ensure all of the above issues are corrected in your response. Search the web again if needed to verify factual corrections.
Output clean prose with no HTML tags, no markdown code fences, and proper punctuation spacing.`,
		originalPrompt, fixText, formatting.String())
}

// FormattingFix is the slice of a formatting issue the correction prompt
// needs. Declared here so the builder does not depend on the validator
// package.
type FormattingFix struct {
	Path   string
	Issue  string
	Sample string
}
