package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestAssessmentItem_UnmarshalDiscriminator(t *testing.T) {
	var quiz QuizContent
	data := `{"questions": [
		{"id": "q1", "question": "Which report covers a period?", "options": ["I","II","III","IV"], "correctIndex": 1, "explanation": "Type II covers operating effectiveness over a period."},
		{"id": "q2", "format": "multiple_choice", "question": "Explicit format?", "options": ["a","b","c","d"], "correctIndex": 0, "explanation": "Explicit multiple choice decodes the same way."},
		{"id": "q3", "format": "code_challenge", "language": "hcl", "solution_code": "resource \"aws_s3_bucket\" \"b\" {}", "validation": {"required_patterns": ["aws_s3_bucket"]}, "explanation": "Terraform resource blocks define infrastructure."}
	]}`
	if err := json.Unmarshal([]byte(data), &quiz); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if quiz.Questions[0].MultipleChoice == nil || quiz.Questions[0].CodeChallenge != nil {
		t.Error("absent format must default to multiple choice")
	}
	if quiz.Questions[1].MultipleChoice == nil {
		t.Error("explicit multiple_choice format must decode")
	}
	if quiz.Questions[2].CodeChallenge == nil {
		t.Error("code_challenge format must decode")
	}
	if quiz.Questions[2].ID() != "q3" {
		t.Errorf("expected id q3, got %s", quiz.Questions[2].ID())
	}
}

func TestAssessmentItem_UnknownFormat(t *testing.T) {
	var item AssessmentItem
	err := json.Unmarshal([]byte(`{"id":"q1","format":"essay"}`), &item)
	if err == nil || !strings.Contains(err.Error(), "essay") {
		t.Fatalf("expected unknown format error, got %v", err)
	}
}

func TestAssessmentItem_MarshalVariant(t *testing.T) {
	item := AssessmentItem{CodeChallenge: &CodeChallengeItem{ID: "cc1", Format: "code_challenge"}}
	data, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"format":"code_challenge"`) {
		t.Errorf("unexpected encoding: %s", data)
	}

	var empty AssessmentItem
	if _, err := json.Marshal(empty); err == nil {
		t.Error("expected error for empty union")
	}
}

func TestVerificationMeta_InlineInContent(t *testing.T) {
	score := 96.0
	lesson := LessonContent{
		Title: "Access Reviews",
		VerificationMeta: VerificationMeta{
			Citations:       []Citation{{URL: "https://example.com"}},
			ConfidenceScore: &score,
		},
	}
	data, err := json.Marshal(lesson)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	// Embedded meta flattens into the content object
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if _, ok := raw["confidenceScore"]; !ok {
		t.Errorf("confidenceScore not inlined: %s", data)
	}
	if _, ok := raw["citations"]; !ok {
		t.Errorf("citations not inlined: %s", data)
	}

	// Empty meta serializes nothing
	plain, _ := json.Marshal(LessonContent{Title: "x"})
	if strings.Contains(string(plain), "flaggedClaims") || strings.Contains(string(plain), "confidenceScore") {
		t.Errorf("empty meta must be omitted: %s", plain)
	}
}
