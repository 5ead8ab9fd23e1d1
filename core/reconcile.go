// Package core has core logic for running grading passes, reconciling
// disagreement between them and assembling the final report.
package core

import (
	"fmt"
	"math"
	"sort"

	"github.com/huangsam/gradekit/schema"
)

// criterionSample is one pass's verdict for a criterion, tagged with the
// pass it came from so tie-breaks stay deterministic.
type criterionSample struct {
	passIndex     int
	points        float64
	justification string
}

// Reconcile merges the surviving candidate results into one reconciled
// outcome per rubric criterion. Candidates must already be validated;
// a candidate missing a criterion here is a programming defect, not an
// input error.
func Reconcile(candidates []*schema.CandidateResult, rubric *schema.Rubric, tolerancePct float64) ([]schema.CriterionResult, error) {
	if len(candidates) == 0 {
		return nil, &schema.ReconciliationInvariantError{Detail: "no candidates to reconcile"}
	}

	results := make([]schema.CriterionResult, 0, len(rubric.Criteria))
	for _, crit := range rubric.Criteria {
		samples, err := collectSamples(candidates, crit.Name)
		if err != nil {
			return nil, err
		}

		result, err := reconcileCriterion(crit, samples, tolerancePct)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

func collectSamples(candidates []*schema.CandidateResult, name string) ([]criterionSample, error) {
	samples := make([]criterionSample, 0, len(candidates))
	for _, c := range candidates {
		score := c.ScoreFor(name)
		if score == nil {
			return nil, &schema.ReconciliationInvariantError{
				Criterion: name,
				Detail:    fmt.Sprintf("pass %d has no score for this criterion", c.PassIndex),
			}
		}
		samples = append(samples, criterionSample{
			passIndex:     c.PassIndex,
			points:        score.Points,
			justification: score.Justification,
		})
	}
	return samples, nil
}

func reconcileCriterion(crit schema.Criterion, samples []criterionSample, tolerancePct float64) (schema.CriterionResult, error) {
	final := medianPoints(samples)
	if final < 0 || final > crit.MaxPoints {
		return schema.CriterionResult{}, &schema.ReconciliationInvariantError{
			Criterion: crit.Name,
			Detail:    fmt.Sprintf("reconciled points %v outside [0, %v]", final, crit.MaxPoints),
		}
	}

	agreement, note := classifyAgreement(crit, samples, final, tolerancePct)
	if agreement == schema.UnanimousAgreement {
		final = samples[0].points
	}

	return schema.CriterionResult{
		Criterion:     crit.Name,
		Points:        final,
		MaxPoints:     crit.MaxPoints,
		Justification: pickJustification(samples, final),
		Agreement:     agreement,
		VarianceNote:  note,
	}, nil
}

// classifyAgreement decides how closely the passes agree. Scores count
// as MAJORITY while every pass sits within the tolerance band around
// the median, measured as a percentage of the criterion's max points.
func classifyAgreement(crit schema.Criterion, samples []criterionSample, median, tolerancePct float64) (schema.Agreement, *schema.VarianceNote) {
	minPts, maxPts := samples[0].points, samples[0].points
	unanimous := true
	for _, s := range samples[1:] {
		if s.points != samples[0].points {
			unanimous = false
		}
		minPts = math.Min(minPts, s.points)
		maxPts = math.Max(maxPts, s.points)
	}
	if unanimous {
		return schema.UnanimousAgreement, nil
	}

	band := tolerancePct / 100.0 * crit.MaxPoints
	if math.Max(maxPts-median, median-minPts) <= band {
		return schema.MajorityAgreement, nil
	}

	return schema.SplitAgreement, &schema.VarianceNote{
		MinPoints: minPts,
		MaxPoints: maxPts,
		PassCount: len(samples),
	}
}

// medianPoints returns the median awarded points; an even sample count
// averages the two middle values.
func medianPoints(samples []criterionSample) float64 {
	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = s.points
	}
	sort.Float64s(values)

	mid := len(values) / 2
	if len(values)%2 == 1 {
		return values[mid]
	}
	return (values[mid-1] + values[mid]) / 2
}

// pickJustification takes the justification from the pass whose points
// land closest to the reconciled value, preferring the earliest pass on
// a tie so repeated runs produce identical reports.
func pickJustification(samples []criterionSample, final float64) string {
	best := samples[0]
	bestDist := math.Abs(best.points - final)
	for _, s := range samples[1:] {
		dist := math.Abs(s.points - final)
		if dist < bestDist || (dist == bestDist && s.passIndex < best.passIndex) {
			best = s
			bestDist = dist
		}
	}
	return best.justification
}
