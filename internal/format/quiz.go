package format

import (
	"fmt"
	"strings"

	"github.com/mkoreshkov/veritrain/internal/model"
)

// QuizIssue is one deterministic quiz defect
type QuizIssue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const minExplanationLength = 20

// ValidateQuiz runs the deterministic quality checks on a generated quiz:
// unique ids and question texts, option count and uniqueness, correctIndex
// range, explanation length, and code-challenge pattern rules against the
// solution code. Non-fatal; callers log the issues.
func ValidateQuiz(topicID string, quiz model.QuizContent) []QuizIssue {
	var issues []QuizIssue
	seenIDs := make(map[string]bool)
	seenQuestions := make(map[string]bool)

	for i, item := range quiz.Questions {
		label := fmt.Sprintf("%s q%d", topicID, i+1)

		id := item.ID()
		if id == "" {
			id = fmt.Sprintf("q%d", i+1)
		}
		if seenIDs[id] {
			issues = append(issues, QuizIssue{
				Code:    "QUIZ_DUPLICATE_ID",
				Message: fmt.Sprintf("%s: duplicate id %q", label, id),
			})
		}
		seenIDs[id] = true

		switch {
		case item.CodeChallenge != nil:
			issues = append(issues, validateCodeChallenge(label, item.CodeChallenge)...)
		case item.MultipleChoice != nil:
			issues = append(issues, validateMultipleChoice(label, item.MultipleChoice, seenQuestions)...)
		}
	}

	return issues
}

func validateMultipleChoice(label string, q *model.MultipleChoiceItem, seenQuestions map[string]bool) []QuizIssue {
	var issues []QuizIssue

	question := strings.TrimSpace(q.Question)
	if len(question) < 12 {
		issues = append(issues, QuizIssue{
			Code:    "QUESTION_TOO_SHORT",
			Message: fmt.Sprintf("%s: question text too short", label),
		})
	}
	normalized := strings.ToLower(question)
	if seenQuestions[normalized] {
		issues = append(issues, QuizIssue{
			Code:    "QUESTION_DUPLICATE_TEXT",
			Message: fmt.Sprintf("%s: duplicate question text", label),
		})
	}
	seenQuestions[normalized] = true

	if len(q.Options) != 4 {
		issues = append(issues, QuizIssue{
			Code:    "QUESTION_OPTION_COUNT",
			Message: fmt.Sprintf("%s: expected 4 options, got %d", label, len(q.Options)),
		})
	}
	if !uniqueStrings(q.Options) {
		issues = append(issues, QuizIssue{
			Code:    "QUESTION_DUPLICATE_OPTIONS",
			Message: fmt.Sprintf("%s: duplicate answer options found", label),
		})
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		issues = append(issues, QuizIssue{
			Code:    "QUESTION_INVALID_CORRECT_INDEX",
			Message: fmt.Sprintf("%s: invalid correctIndex %d", label, q.CorrectIndex),
		})
	}
	if len(strings.TrimSpace(q.Explanation)) < minExplanationLength {
		issues = append(issues, QuizIssue{
			Code:    "QUESTION_EXPLANATION_TOO_SHORT",
			Message: fmt.Sprintf("%s: explanation too short", label),
		})
	}

	return issues
}

func validateCodeChallenge(label string, q *model.CodeChallengeItem) []QuizIssue {
	var issues []QuizIssue

	if len(strings.TrimSpace(q.Explanation)) < minExplanationLength {
		issues = append(issues, QuizIssue{
			Code:    "CODE_EXPLANATION_TOO_SHORT",
			Message: fmt.Sprintf("%s: code challenge explanation too short", label),
		})
	}

	// The solution must itself satisfy the validation rules it ships with
	for _, pattern := range q.Validation.RequiredPatterns {
		if !strings.Contains(q.SolutionCode, pattern) {
			issues = append(issues, QuizIssue{
				Code:    "CODE_REQUIRED_PATTERN_MISSING",
				Message: fmt.Sprintf("%s: required pattern missing in solution: %s", label, pattern),
			})
		}
	}
	for _, pattern := range q.Validation.ForbiddenPatterns {
		if strings.Contains(q.SolutionCode, pattern) {
			issues = append(issues, QuizIssue{
				Code:    "CODE_FORBIDDEN_PATTERN_FOUND",
				Message: fmt.Sprintf("%s: forbidden pattern found in solution: %s", label, pattern),
			})
		}
	}
	for pattern, min := range q.Validation.MinOccurrences {
		if strings.Count(q.SolutionCode, pattern) < min {
			issues = append(issues, QuizIssue{
				Code:    "CODE_MIN_OCCURRENCES_NOT_MET",
				Message: fmt.Sprintf("%s: pattern %q occurs fewer than %d times in solution", label, pattern, min),
			})
		}
	}

	return issues
}

func uniqueStrings(values []string) bool {
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		k := strings.ToLower(strings.TrimSpace(v))
		if seen[k] {
			return false
		}
		seen[k] = true
	}
	return true
}
