package pipeline

import (
	"context"
	"testing"

	"github.com/mkoreshkov/veritrain/internal/model"
)

// combinedJSON decodes into every section content type; unknown fields are
// ignored by each decode.
const combinedJSON = `{
	"title": "Vendor Risk",
	"estimatedReadingTime": 7,
	"introduction": "Third parties inherit your obligations.",
	"sections": [{"heading": "Due Diligence", "content": "Assess vendors before onboarding."}],
	"keyTakeaways": ["Trust but verify."],
	"context": "A SaaS vendor reports a breach.",
	"scenario": "Your payroll provider discloses unauthorized access.",
	"analysisQuestions": [{"question": "What notification duties apply?", "analysis": "Contract and statute both set clocks."}],
	"questions": [{"id": "q1", "question": "Which clause governs breach notification timelines?", "options": ["MSA", "DPA", "NDA", "SLA"], "correctIndex": 1, "explanation": "The data processing addendum sets breach notification duties."}],
	"headline": "Regulators tighten vendor oversight",
	"summary": "New guidance raises expectations for third-party monitoring.",
	"updates": [{"title": "Guidance issued", "content": "Continuous monitoring expected.", "source": "Regulator"}],
	"whyItMatters": "Vendor failures are your failures.",
	"deliverable_prompt": "Draft a vendor risk policy.",
	"deliverable_format": "markdown",
	"synthesis_questions": [{"question": "How do you tier vendors?", "guidance": "Weigh data access and criticality."}],
	"scenario_decisions": [{"situation": "Vendor refuses audit.", "options": ["Accept", "Escalate"], "best_option": "Escalate", "rationale": "Audit rights are contractual."}],
	"rubric": [{"criterion": "Coverage", "excellent": "All tiers addressed", "acceptable": "Key tiers addressed", "needs_work": "Single tier only"}]
}`

func TestGenerateSession_CoreModule(t *testing.T) {
	provider := &scriptedProvider{
		genText:    combinedJSON,
		citations:  []model.Citation{{URL: "https://example.com", Title: "Ref"}},
		auditTexts: []string{audit96},
	}
	orch := newTestOrchestrator(provider, testConfig(10))

	topic := model.TopicDescriptor{
		ID:         "t1",
		Title:      "Vendor Risk",
		Domain:     "Risk Management",
		Tier:       model.TierFoundational,
		ModuleType: model.ModuleCore,
	}
	session, err := orch.GenerateSession(context.Background(), topic)
	if err != nil {
		t.Fatalf("GenerateSession failed: %v", err)
	}

	if session.Lesson == nil || session.Scenario == nil || session.Quiz == nil {
		t.Fatal("expected lesson, scenario and quiz sections")
	}
	if session.Capstone != nil {
		t.Error("core module must not get a capstone section")
	}
	if provider.genCalls != 3 || provider.auditCalls != 3 {
		t.Errorf("expected 3 generations and 3 audits, got %d/%d", provider.genCalls, provider.auditCalls)
	}

	if session.TopicID != "t1" || session.Domain != "Risk Management" {
		t.Errorf("unexpected session identity: %+v", session)
	}
	if session.GeneratedAt.IsZero() {
		t.Error("expected generation timestamp")
	}

	// Verification metadata applied to every section
	if session.Lesson.ConfidenceScore == nil || *session.Lesson.ConfidenceScore != 96 {
		t.Errorf("lesson meta missing: %+v", session.Lesson.VerificationMeta)
	}
	if len(session.Quiz.Citations) != 1 {
		t.Errorf("quiz citations missing: %+v", session.Quiz.VerificationMeta)
	}
	if len(session.Quiz.Questions) != 1 || session.Quiz.Questions[0].MultipleChoice == nil {
		t.Errorf("unexpected quiz decode: %+v", session.Quiz.Questions)
	}
}

func TestGenerateSession_CapstoneModule(t *testing.T) {
	provider := &scriptedProvider{
		genText:    combinedJSON,
		auditTexts: []string{audit96},
	}
	orch := newTestOrchestrator(provider, testConfig(10))

	topic := model.TopicDescriptor{
		ID:         "cap1",
		Title:      "Program Capstone",
		Domain:     "Risk Management",
		Tier:       model.TierAdvanced,
		ModuleType: model.ModuleCapstone,
	}
	session, err := orch.GenerateSession(context.Background(), topic)
	if err != nil {
		t.Fatalf("GenerateSession failed: %v", err)
	}

	if session.Capstone == nil {
		t.Fatal("capstone module must get a capstone section")
	}
	if session.Capstone.DeliverablePrompt == "" {
		t.Errorf("unexpected capstone decode: %+v", session.Capstone)
	}
	if session.Capstone.ConfidenceScore == nil {
		t.Error("capstone meta missing")
	}
	if provider.genCalls != 4 {
		t.Errorf("expected 4 generations, got %d", provider.genCalls)
	}
}

func TestGenerateSession_SectionFailureFailsSession(t *testing.T) {
	provider := &scriptedProvider{
		genText:    "not json at all",
		auditTexts: []string{audit96},
	}
	orch := newTestOrchestrator(provider, testConfig(10))

	session, err := orch.GenerateSession(context.Background(), model.TopicDescriptor{ID: "t1"})
	if err == nil {
		t.Fatal("expected error")
	}
	if session != nil {
		t.Error("partial session must not be returned")
	}
}
