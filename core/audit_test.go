package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/huangsam/gradekit/schema"
)

func TestBuildAudit(t *testing.T) {
	cfg := engineConfig()
	outcome := &passOutcome{
		attempted:  3,
		candidates: []*schema.CandidateResult{candidate(0, 30, 25, 20, 15), candidate(1, 30, 25, 22, 10)},
	}
	rubric := fourCriterionRubric()
	report := assembleReport(reconciledFixture(), rubric, cfg, outcome, "ok")

	buildAudit(report, rubric, "the essay text", cfg, outcome)

	assert.Len(t, report.Audit.RubricHash, 64)
	assert.Len(t, report.Audit.AnswerHash, 64)
	assert.Len(t, report.Audit.ResultHash, 64)
	assert.Equal(t, "openai/gpt-5", report.Audit.Model)
	assert.Equal(t, 3, report.Audit.Passes)
	assert.Equal(t, 2, report.Audit.ValidPasses)
	assert.False(t, report.Audit.GradedAt.IsZero())
}

func TestBuildAuditResultHashVerifiable(t *testing.T) {
	cfg := engineConfig()
	outcome := &passOutcome{attempted: 3}
	rubric := fourCriterionRubric()
	report := assembleReport(reconciledFixture(), rubric, cfg, outcome, "ok")

	buildAudit(report, rubric, "essay", cfg, outcome)
	want := report.Audit.ResultHash

	// Clearing the audit block and rehashing reproduces the hash.
	clone := *report
	clone.Audit = schema.Audit{}
	data, err := json.Marshal(&clone)
	assert.NoError(t, err)
	assert.Equal(t, want, hashText(string(data)))
}

func TestBuildAuditDeterministicInputs(t *testing.T) {
	cfg := engineConfig()
	outcome := &passOutcome{attempted: 3}
	rubric := fourCriterionRubric()

	first := assembleReport(reconciledFixture(), rubric, cfg, outcome, "ok")
	second := assembleReport(reconciledFixture(), rubric, cfg, outcome, "ok")
	buildAudit(first, rubric, "essay", cfg, outcome)
	buildAudit(second, rubric, "essay", cfg, outcome)

	assert.Equal(t, first.Audit.RubricHash, second.Audit.RubricHash)
	assert.Equal(t, first.Audit.AnswerHash, second.Audit.AnswerHash)
	assert.Equal(t, first.Audit.ResultHash, second.Audit.ResultHash)
}
