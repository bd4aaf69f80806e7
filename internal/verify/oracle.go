// Package verify implements the fact-verification oracle: a second pass over
// generated content with an audit prompt, returning a confidence score and
// flagged claims. Verification failure never aborts the pipeline - every
// failure mode degrades to a conservative, well-formed result.
package verify

import (
	"context"
	"encoding/json"
	"math"

	"go.uber.org/zap"

	"github.com/mkoreshkov/veritrain/internal/llm"
	"github.com/mkoreshkov/veritrain/internal/model"
	"github.com/mkoreshkov/veritrain/internal/prompt"
)

// Outcome tags how the result was produced, so callers can distinguish
// "verified at 85" from "defaulted to 85 because verification broke".
type Outcome string

const (
	// OutcomeVerified means the audit call succeeded and returned a
	// well-formed score
	OutcomeVerified Outcome = "verified"

	// OutcomeClamped means the audit call succeeded but returned a malformed
	// score or claims shape, clamped to a conservative default
	OutcomeClamped Outcome = "clamped"

	// OutcomeUnavailable means the audit call itself failed
	OutcomeUnavailable Outcome = "unavailable"
)

const (
	clampedScore     = 85
	unavailableScore = 75
)

// Result is one verification outcome, consumed immediately by the
// orchestrator to decide retry. Not persisted.
type Result struct {
	ConfidenceScore float64
	Assessment      string
	FlaggedClaims   []model.FlaggedClaim
	Outcome         Outcome
}

// Oracle audits generated content through the basic generation client
type Oracle struct {
	client *llm.Client
	log    *zap.Logger
}

// NewOracle creates a verification oracle
func NewOracle(client *llm.Client, log *zap.Logger) *Oracle {
	if log == nil {
		log = zap.NewNop()
	}
	return &Oracle{client: client, log: log}
}

// auditWire is the raw shape returned by the audit call. Score and claims are
// decoded leniently so a malformed response clamps instead of failing.
type auditWire struct {
	ConfidenceScore *float64        `json:"confidenceScore"`
	Assessment      string          `json:"assessment"`
	FlaggedClaims   json.RawMessage `json:"flaggedClaims"`
}

// Verify audits the content JSON against its citations and returns a result.
// Never returns an error: an unreachable or misbehaving auditor degrades to
// the Unavailable or Clamped outcome.
func (o *Oracle) Verify(ctx context.Context, kind model.SectionKind, contentJSON string, citations []model.Citation) Result {
	raw, err := llm.GenerateBasic[auditWire](ctx, o.client, prompt.Audit(kind, contentJSON, citations))
	if err != nil {
		o.log.Warn("verification call failed",
			zap.String("section", string(kind)),
			zap.Error(err))
		return Result{
			ConfidenceScore: unavailableScore,
			Assessment:      "Verification could not be completed",
			FlaggedClaims:   nil,
			Outcome:         OutcomeUnavailable,
		}
	}

	score, scoreOK := validScore(raw.ConfidenceScore)
	claims, claimsOK := decodeClaims(raw.FlaggedClaims)

	if !scoreOK || !claimsOK {
		o.log.Warn("malformed verification output, clamping",
			zap.String("section", string(kind)),
			zap.Bool("score_ok", scoreOK),
			zap.Bool("claims_ok", claimsOK))
		return Result{
			ConfidenceScore: clampedScore,
			Assessment:      raw.Assessment,
			FlaggedClaims:   nil,
			Outcome:         OutcomeClamped,
		}
	}

	return Result{
		ConfidenceScore: score,
		Assessment:      raw.Assessment,
		FlaggedClaims:   claims,
		Outcome:         OutcomeVerified,
	}
}

func validScore(score *float64) (float64, bool) {
	if score == nil {
		return 0, false
	}
	s := *score
	if math.IsNaN(s) || math.IsInf(s, 0) || s < 0 || s > 100 {
		return 0, false
	}
	return s, true
}

// decodeClaims accepts an absent claims field as an empty list but rejects a
// present non-array value.
func decodeClaims(raw json.RawMessage) ([]model.FlaggedClaim, bool) {
	if len(raw) == 0 {
		return nil, true
	}
	var claims []model.FlaggedClaim
	if err := json.Unmarshal(raw, &claims); err != nil {
		return nil, false
	}
	return claims, true
}
