package models

// Verdict classifies a single domain's raw score for color coding in the
// result view. It plays no part in the score arithmetic.
type Verdict string

const (
	VerdictIncompatible Verdict = "incompatible" // raw < 40
	VerdictPartial      Verdict = "partial"      // 40-64
	VerdictGood         Verdict = "good"         // 65-84
	VerdictExcellent    Verdict = "excellent"    // >= 85
)

// VerdictFor buckets a raw domain score (0-100).
func VerdictFor(rawScore int) Verdict {
	switch {
	case rawScore >= 85:
		return VerdictExcellent
	case rawScore >= 65:
		return VerdictGood
	case rawScore >= 40:
		return VerdictPartial
	default:
		return VerdictIncompatible
	}
}

// DomainScore is one weighted axis of the fit analysis. MaxScore always
// equals WeightPct, and the domain's contribution to the overall score is
// RawScore * WeightPct / 100.
type DomainScore struct {
	Domain    string  `json:"domain"`
	WeightPct int     `json:"weight_pct"`
	RawScore  int     `json:"raw_score"`
	MaxScore  int     `json:"max_score"`
	Verdict   Verdict `json:"verdict"`
	Rationale string  `json:"rationale"`
}

// Contribution returns the domain's weighted share of the overall score.
func (d DomainScore) Contribution() float64 {
	return float64(d.RawScore) * float64(d.WeightPct) / 100.0
}

// MatchResult is the reconciled outcome of scoring a candidate against a job
// description. Invariants enforced by the matching engine, never trusted from
// the raw model output:
//
//	sum(WeightPct) == 100
//	OverallScore == round(sum of contributions), clamped to [0,100]
type MatchResult struct {
	OverallScore int           `json:"overall_score"`
	Domains      []DomainScore `json:"domains"`
	Synthesis    string        `json:"synthesis"`
	Usage        TokenUsage    `json:"usage"`
}

// TokenUsage carries per-run model accounting, surfaced to the analytics
// sink only; no core behavior depends on it.
type TokenUsage struct {
	InputTokens      int64   `json:"input_tokens"`
	OutputTokens     int64   `json:"output_tokens"`
	EstimatedCostUSD float64 `json:"estimated_cost_usd"`
}

// Add accumulates usage across pipeline stages.
func (u *TokenUsage) Add(other TokenUsage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
	u.EstimatedCostUSD += other.EstimatedCostUSD
}

// FailedMatch returns the degraded result used when the model could not be
// reached or produced unusable output. The synthesis explains the failure so
// the caller has something to show.
func FailedMatch(synthesis string) *MatchResult {
	return &MatchResult{
		OverallScore: 0,
		Domains:      []DomainScore{},
		Synthesis:    synthesis,
	}
}
