// Package fraud combines the sub-check scores into a single verdict.
// This is pure domain logic - no I/O, no side effects. Each sub-score is
// already clamped to its bounded contribution; the sum is clamped to [0,100]
// only at the last step, and the hard-rejection threshold is checked against
// the pre-clamp sum.
package fraud

import (
	"agrilog/internal/activity/config"
	"agrilog/internal/activity/models"
)

// Input carries the independently computed sub-results. Nil fields mean the
// corresponding check did not run.
type Input struct {
	Geo       *models.CheckResult
	Frequency *models.CheckResult
	Pattern   *models.CheckResult
	Audio     *models.AudioCheckResult

	// LocationProvided distinguishes "no location given" (flat penalty) from
	// "location checked" (Geo result).
	LocationProvided bool
}

// Verdict is the aggregate outcome plus the pre-clamp sum the pipeline gates
// rejection on.
type Verdict struct {
	models.VerificationOutcome
	RawScore int
}

// Aggregate sums sub-scores in a fixed order (geo, frequency, pattern,
// audio) and concatenates reasons the same way. Summation is
// order-independent; the order only fixes reason presentation.
func Aggregate(cfg config.FraudConfig, in Input) Verdict {
	raw := 0
	var reasons []string

	if !in.LocationProvided {
		raw += cfg.MissingLocationScore
		reasons = append(reasons, "no location provided")
	} else if in.Geo != nil {
		raw += in.Geo.Score
		reasons = append(reasons, in.Geo.Reasons...)
	}

	if in.Frequency != nil {
		raw += in.Frequency.Score
		reasons = append(reasons, in.Frequency.Reasons...)
	}

	if in.Pattern != nil {
		raw += in.Pattern.Score
		reasons = append(reasons, in.Pattern.Reasons...)
	}

	if in.Audio != nil {
		raw += in.Audio.Score
		reasons = append(reasons, in.Audio.Reasons...)
	}

	if reasons == nil {
		reasons = []string{}
	}

	return Verdict{
		VerificationOutcome: models.VerificationOutcome{
			Passed:  raw < cfg.PassBelow,
			Score:   clamp(raw),
			Reasons: reasons,
			Flagged: raw >= cfg.FlagAt || len(reasons) >= cfg.FlagReasonCount,
		},
		RawScore: raw,
	}
}

// Rejected reports whether the verdict crosses the hard-rejection threshold.
// Checked on the raw sum so stacked signals past 100 still count.
func (v Verdict) Rejected(cfg config.FraudConfig) bool {
	return v.RawScore >= cfg.RejectAt
}

func clamp(score int) int {
	return max(0, min(100, score))
}
