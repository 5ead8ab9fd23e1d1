package core

import (
	"math"

	"github.com/huangsam/gradekit/internal/contract"
	"github.com/huangsam/gradekit/schema"
)

// hardFailFloor is the fraction of a criterion's max points below which
// hard-fail mode zeroes the criterion instead of keeping partial credit.
const hardFailFloor = 0.5

// assembleReport turns the reconciled criterion results into the final
// report. Band thresholds come from configuration so grading policy can
// vary without touching this code.
func assembleReport(reconciled []schema.CriterionResult, rubric *schema.Rubric, cfg *contract.Config, outcome *passOutcome, feedback string) *schema.Report {
	if cfg.Strictness == schema.HardFailStrictness {
		reconciled = applyHardFail(reconciled)
	}

	var total float64
	needsReview := false
	for _, c := range reconciled {
		total += c.Points
		if c.Agreement == schema.SplitAgreement {
			needsReview = true
		}
	}

	report := &schema.Report{
		Title:           rubric.Title,
		Criteria:        reconciled,
		Total:           total,
		MaxTotal:        rubric.TotalPoints(),
		NeedsReview:     needsReview,
		Degraded:        outcome.degraded,
		OverallFeedback: feedback,
		Strictness:      cfg.Strictness,
	}
	report.Band = contract.GetPlainBand(report.Percentage(), cfg.BandThresholds)
	return report
}

// applyHardFail zeroes any criterion that earned less than half of its
// max points. Criteria already at zero or above the floor pass through.
func applyHardFail(reconciled []schema.CriterionResult) []schema.CriterionResult {
	out := make([]schema.CriterionResult, len(reconciled))
	copy(out, reconciled)
	for i := range out {
		if out[i].Points < out[i].MaxPoints*hardFailFloor {
			out[i].Points = 0
		}
	}
	return out
}

// pickOverallFeedback selects the overall feedback from the pass whose
// total lands closest to the reconciled total, earliest pass on a tie.
func pickOverallFeedback(candidates []*schema.CandidateResult, total float64) string {
	if len(candidates) == 0 {
		return ""
	}
	best := candidates[0]
	bestDist := math.Abs(best.TotalScore - total)
	for _, c := range candidates[1:] {
		dist := math.Abs(c.TotalScore - total)
		if dist < bestDist || (dist == bestDist && c.PassIndex < best.PassIndex) {
			best = c
			bestDist = dist
		}
	}
	return best.OverallFeedback
}
