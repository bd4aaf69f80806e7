package prompt

import (
	"fmt"
	"strings"

	"github.com/mkoreshkov/veritrain/internal/model"
)

// Audit builds the verification prompt for a generated section. Scenario
// content uses a variant that instructs the auditor to ignore fictional
// narrative elements and extract only factual GRC claims.
func Audit(kind model.SectionKind, contentJSON string, citations []model.Citation) string {
	if kind == model.SectionScenario {
		return scenarioAudit(contentJSON, citations)
	}
	return standardAudit(string(kind), contentJSON, citations)
}

func citationBlock(citations []model.Citation) string {
	if len(citations) == 0 {
		return "\nNo citations were provided with this content."
	}
	var b strings.Builder
	b.WriteString("\nCitations provided with this content:\n")
	for i, c := range citations {
		fmt.Fprintf(&b, "%d. [%s](%s) - %q\n", i+1, c.Title, c.URL, c.CitedText)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func standardAudit(sectionType, contentJSON string, citations []model.Citation) string {
	return fmt.Sprintf(`You are a GRC (Governance, Risk & Compliance) content auditor verifying AI-generated %s content for a training platform used by junior GRC analysts and engineers.

Your task: identify ONLY factual errors in the GRC claims below. Do not flag stylistic issues, pedagogical simplifications, or missing citations for well-known concepts.

Content to verify:
%s
%s

SCORING RULES - follow precisely:
- START at 97. This is the default score for factually correct content.
- Only deduct points for claims that are DEFINITIVELY WRONG - not imprecise, not simplified, but actually incorrect.
- Well-established GRC knowledge (NIST CSF, ISO 27001, SOC 2, PCI DSS, COBIT, GDPR, HIPAA, SOX, CCPA, FedRAMP, COSO, ITIL, risk management methodologies, control frameworks, audit procedures, compliance requirements) does NOT need citations. These are common knowledge.
- If you are UNCERTAIN whether a claim is wrong, score it as correct. Only flag claims you can CONFIDENTLY identify as factually erroneous.
- Do NOT penalize for: pedagogical simplifications, missing citations, reasonable generalizations, teaching-oriented framing, or examples used for illustration.

Score from 0 to 100:
- 97-100: All claims are correct (DEFAULT - use this unless you found actual errors)
- 93-96: One claim has a clear factual error
- Below 93: Multiple claims have clear factual errors

Respond with ONLY valid JSON (no markdown, no code fences):
{
  "confidenceScore": number,
  "assessment": "brief summary",
  "flaggedClaims": [
    {
      "claim": "the specific claim that is factually wrong",
      "issue": "what is wrong with it",
      "suggestion": "the correct information",
      "section": "which part of the content (e.g., sections[0], explanation, scenario)"
    }
  ]
}`, sectionType, contentJSON, citationBlock(citations))
}

func scenarioAudit(contentJSON string, citations []model.Citation) string {
	return fmt.Sprintf(`You are a GRC (Governance, Risk & Compliance) content auditor. You are reviewing an AI-generated training SCENARIO - a fictional case study that teaches GRC concepts through a realistic workplace situation.

Your task is to EXTRACT and VERIFY only the GRC knowledge claims embedded in this scenario. Ignore all fictional elements.

STEP 1: Read the scenario and extract every concrete GRC claim. A GRC claim is any reference to:
- A specific framework, standard, or regulation (e.g., "NIST CSF", "ISO 27001", "GDPR Article 33")
- A framework component, function, or control (e.g., "the Identify function of NIST CSF")
- A regulatory requirement or obligation (e.g., "72-hour breach notification requirement")
- A best practice or methodology (e.g., "risk acceptance requires documented justification")
- A technical control or process (e.g., "data classification scheme with four tiers")

STEP 2: For each extracted claim, determine if it is:
(a) CORRECT - accurately represents the framework/regulation/practice
(b) INCORRECT - contains a clear factual error (wrong function name, wrong requirement, wrong version)

Do NOT extract or evaluate:
- Fictional company names, employee names, dates, or business contexts
- Narrative elements (plot, dialogue, character decisions)
- General business statements that don't reference specific GRC concepts
- Reasonable pedagogical simplifications of complex topics

CRITICAL scoring rules:
- START at 97. This is the baseline for a scenario where all GRC claims are correct.
- Only deduct points when you find a claim that is DEFINITIVELY WRONG - not imprecise, not simplified, but actually incorrect.
- Well-known GRC concepts (NIST CSF functions, ISO 27001 clauses, SOC 2 Trust Services Criteria, GDPR requirements, HIPAA safeguards, PCI DSS requirements, COBIT principles, COSO components, risk management methodologies) are common knowledge. Do NOT flag these unless the specific claim is factually wrong.
- If you are UNCERTAIN whether a claim is wrong, score it as CORRECT. Only flag claims you can confidently identify as erroneous.
- Simplified descriptions used for teaching purposes are acceptable and should NOT be flagged.

Scenario content:
%s
%s

STEP 3: Score from 0 to 100 based ONLY on the accuracy of extracted GRC claims:
- 97-100: All GRC claims are correct (DEFAULT - use this unless you found actual errors)
- 93-96: One GRC claim has a clear factual error
- Below 93: Multiple GRC claims have clear factual errors

Respond with ONLY valid JSON (no markdown, no code fences):
{
  "confidenceScore": number,
  "assessment": "brief summary listing the GRC claims you extracted and your verdict on each",
  "flaggedClaims": [
    {
      "claim": "the specific GRC claim that is incorrect or misleading",
      "issue": "what is wrong with it",
      "suggestion": "the correct information",
      "section": "where in the scenario this appears"
    }
  ]
}`, contentJSON, citationBlock(citations))
}
