package prompt

import (
	"strings"
	"testing"

	"github.com/mkoreshkov/veritrain/internal/model"
)

var sampleTopic = model.TopicDescriptor{
	ID:          "soc2-intro",
	Title:       "Introduction to SOC 2",
	Objectives:  []string{"Explain the five trust services criteria", "Contrast Type I and Type II reports"},
	KeyTerms:    []string{"trust services criteria", "Type II report"},
	PromptHints: "Emphasize the auditor's perspective.",
	Domain:      "SOC 2",
	Tier:        model.TierFoundational,
	ModuleType:  model.ModuleCore,
}

func TestLesson(t *testing.T) {
	p := Lesson(sampleTopic)

	for _, want := range []string{
		"Introduction to SOC 2",
		"foundational-level audience",
		"SOC 2 domain",
		"Explain the five trust services criteria; Contrast Type I and Type II reports",
		"trust services criteria, Type II report",
		"Emphasize the auditor's perspective.",
		"NIST CSF 2.0",
		"ONLY valid JSON",
		"keyTakeaways",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("lesson prompt missing %q", want)
		}
	}
}

func TestScenario(t *testing.T) {
	p := Scenario(sampleTopic)
	if !strings.Contains(p, "case-study scenario") {
		t.Error("scenario prompt missing framing")
	}
	if !strings.Contains(p, "analysisQuestions") {
		t.Error("scenario prompt missing schema")
	}
}

func TestQuiz(t *testing.T) {
	p := Quiz(sampleTopic)
	for _, want := range []string{
		"exactly 6 assessment items",
		"code_challenge",
		"correctIndex",
		"required_patterns",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("quiz prompt missing %q", want)
		}
	}
}

func TestNewsByte(t *testing.T) {
	p := NewsByte(sampleTopic)
	if !strings.Contains(p, "REAL, current news") {
		t.Error("news prompt missing anti-fabrication instruction")
	}
	if !strings.Contains(p, "whyItMatters") {
		t.Error("news prompt missing schema")
	}
}

func TestCapstone(t *testing.T) {
	p := Capstone(sampleTopic)
	if !strings.Contains(p, "deliverable_prompt") || !strings.Contains(p, "rubric") {
		t.Error("capstone prompt missing schema")
	}
}

func TestForSection(t *testing.T) {
	if ForSection(model.SectionQuiz, sampleTopic) != Quiz(sampleTopic) {
		t.Error("ForSection quiz mismatch")
	}
	// Unknown kinds fall back to the lesson prompt
	if ForSection(model.SectionKind("mystery"), sampleTopic) != Lesson(sampleTopic) {
		t.Error("expected lesson fallback for unknown kind")
	}
}

func TestCorrection(t *testing.T) {
	base := Lesson(sampleTopic)
	claims := []model.FlaggedClaim{
		{Claim: "ISO 27001:2013 is current", Issue: "Superseded", Suggestion: "Reference ISO 27001:2022", Section: "lesson"},
		{Claim: "SOC 2 is a certification", Issue: "It is an attestation", Suggestion: "Say attestation report", Section: "lesson"},
	}
	fixes := []FormattingFix{{Path: "sections[0].content", Issue: "spaceBeforePunctuation", Sample: "text ,here"}}

	p := Correction(base, claims, fixes)

	if !strings.HasPrefix(p, base) {
		t.Error("correction prompt must start with the original prompt")
	}
	if !strings.Contains(p, `1. CLAIM: "ISO 27001:2013 is current" - ISSUE: Superseded - FIX: Reference ISO 27001:2022`) {
		t.Error("first claim not enumerated")
	}
	if !strings.Contains(p, "2. CLAIM:") {
		t.Error("second claim not enumerated")
	}
	if !strings.Contains(p, "FORMATTING FIXES REQUIRED:") {
		t.Error("formatting block missing")
	}
	if !strings.Contains(p, "sections[0].content") {
		t.Error("formatting path missing")
	}
}

func TestCorrection_NoClaims(t *testing.T) {
	p := Correction("base", nil, nil)
	if !strings.Contains(p, "None provided.") {
		t.Error("expected None provided. placeholder")
	}
	if strings.Contains(p, "FORMATTING FIXES REQUIRED:") {
		t.Error("formatting block must be absent without issues")
	}
}
