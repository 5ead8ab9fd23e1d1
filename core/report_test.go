package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/huangsam/gradekit/schema"
)

func reconciledFixture() []schema.CriterionResult {
	return []schema.CriterionResult{
		{Criterion: "Accuracy", Points: 30, MaxPoints: 30, Agreement: schema.UnanimousAgreement},
		{Criterion: "Clarity", Points: 25, MaxPoints: 25, Agreement: schema.UnanimousAgreement},
		{Criterion: "Evidence", Points: 21, MaxPoints: 25, Agreement: schema.MajorityAgreement},
		{
			Criterion: "Conclusion", Points: 15, MaxPoints: 20, Agreement: schema.SplitAgreement,
			VarianceNote: &schema.VarianceNote{MinPoints: 10, MaxPoints: 19, PassCount: 3},
		},
	}
}

func TestAssembleReport(t *testing.T) {
	cfg := engineConfig()
	outcome := &passOutcome{attempted: 3, candidates: []*schema.CandidateResult{
		candidate(0, 30, 25, 20, 15),
		candidate(1, 30, 25, 22, 10),
		candidate(2, 30, 25, 21, 19),
	}}

	report := assembleReport(reconciledFixture(), fourCriterionRubric(), cfg, outcome, "tighten the conclusion")

	assert.InDelta(t, 91.0, report.Total, 1e-9)
	assert.InDelta(t, 100.0, report.MaxTotal, 1e-9)
	assert.Equal(t, schema.ExcellentBand, report.Band)
	assert.True(t, report.NeedsReview)
	assert.False(t, report.Degraded)
	assert.Equal(t, "tighten the conclusion", report.OverallFeedback)
	assert.InDelta(t, 91.0, report.Percentage(), 1e-9)
}

func TestAssembleReportBands(t *testing.T) {
	for _, tc := range []struct {
		name   string
		points float64
		want   schema.Band
	}{
		{"excellent", 30, schema.ExcellentBand},
		{"good", 26, schema.GoodBand},
		{"satisfactory", 22, schema.SatisfactoryBand},
		{"passing", 19, schema.PassingBand},
		{"failing", 10, schema.FailingBand},
	} {
		t.Run(tc.name, func(t *testing.T) {
			reconciled := []schema.CriterionResult{
				{Criterion: "Only", Points: tc.points, MaxPoints: 30, Agreement: schema.UnanimousAgreement},
			}
			rubric := &schema.Rubric{Title: "One", Criteria: []schema.Criterion{{Name: "Only", MaxPoints: 30}}}
			report := assembleReport(reconciled, rubric, engineConfig(), &passOutcome{attempted: 3}, "")
			assert.Equal(t, tc.want, report.Band)
		})
	}
}

func TestAssembleReportHardFail(t *testing.T) {
	cfg := engineConfig()
	cfg.Strictness = schema.HardFailStrictness

	reconciled := []schema.CriterionResult{
		{Criterion: "Accuracy", Points: 30, MaxPoints: 30, Agreement: schema.UnanimousAgreement},
		{Criterion: "Evidence", Points: 10, MaxPoints: 25, Agreement: schema.UnanimousAgreement},
	}
	rubric := &schema.Rubric{Title: "Short", Criteria: []schema.Criterion{
		{Name: "Accuracy", MaxPoints: 30},
		{Name: "Evidence", MaxPoints: 25},
	}}

	report := assembleReport(reconciled, rubric, cfg, &passOutcome{attempted: 3}, "")

	// Evidence earned less than half its points and collapses to zero.
	assert.InDelta(t, 30.0, report.Total, 1e-9)
	assert.InDelta(t, 0.0, report.Criteria[1].Points, 1e-9)
	// The input slice is left untouched.
	assert.InDelta(t, 10.0, reconciled[1].Points, 1e-9)
}

func TestAssembleReportDegraded(t *testing.T) {
	report := assembleReport(reconciledFixture(), fourCriterionRubric(), engineConfig(),
		&passOutcome{attempted: 3, degraded: true}, "")
	assert.True(t, report.Degraded)
}

func TestPickOverallFeedback(t *testing.T) {
	candidates := []*schema.CandidateResult{
		{PassIndex: 0, TotalScore: 90, OverallFeedback: "first"},
		{PassIndex: 1, TotalScore: 91, OverallFeedback: "second"},
		{PassIndex: 2, TotalScore: 94, OverallFeedback: "third"},
	}

	assert.Equal(t, "second", pickOverallFeedback(candidates, 91))
	// Equidistant totals fall back to the earliest pass.
	assert.Equal(t, "first", pickOverallFeedback(candidates, 90.5))
	assert.Equal(t, "", pickOverallFeedback(nil, 91))
}
