package prompt

import (
	"strings"
	"testing"

	"github.com/mkoreshkov/veritrain/internal/model"
)

func TestAudit_Standard(t *testing.T) {
	citations := []model.Citation{
		{URL: "https://example.com/nist", Title: "NIST CSF 2.0", CitedText: "The framework has six functions."},
	}
	p := Audit(model.SectionLesson, `{"title":"x"}`, citations)

	for _, want := range []string{
		"verifying AI-generated lesson content",
		"START at 97",
		`{"title":"x"}`,
		"https://example.com/nist",
		"confidenceScore",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("audit prompt missing %q", want)
		}
	}
}

func TestAudit_ScenarioVariant(t *testing.T) {
	p := Audit(model.SectionScenario, `{"scenario":"x"}`, nil)

	if !strings.Contains(p, "fictional case study") {
		t.Error("scenario audit must use the extraction variant")
	}
	if !strings.Contains(p, "EXTRACT and VERIFY") {
		t.Error("scenario audit missing extraction instructions")
	}
	if strings.Contains(p, "verifying AI-generated scenario content") {
		t.Error("scenario audit must not use the standard framing")
	}
}

func TestAudit_NoCitations(t *testing.T) {
	p := Audit(model.SectionQuiz, `{}`, nil)
	if !strings.Contains(p, "No citations were provided") {
		t.Error("expected missing-citations note")
	}
}
