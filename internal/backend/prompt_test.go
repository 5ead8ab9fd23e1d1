package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/huangsam/gradekit/schema"
)

func TestBuildGradingPrompt(t *testing.T) {
	r := essayRubric()

	prompt := BuildGradingPrompt(r, "My essay text.", schema.ProportionalStrictness)

	assert.Contains(t, prompt, "RUBRIC: Essay Rubric")
	assert.Contains(t, prompt, "Total Possible Points: 55")
	assert.Contains(t, prompt, "1. Accuracy (30 points)")
	assert.Contains(t, prompt, "2. Evidence (25 points)")
	assert.Contains(t, prompt, "---BEGIN ANSWER---\nMy essay text.\n---END ANSWER---")
	assert.Contains(t, prompt, "MODE: PROPORTIONAL")
	assert.Contains(t, prompt, `"max_possible": 55,`)
}

func TestBuildGradingPromptHardFail(t *testing.T) {
	prompt := BuildGradingPrompt(essayRubric(), "answer", schema.HardFailStrictness)

	assert.Contains(t, prompt, "MODE: HARD FAIL")
	assert.NotContains(t, prompt, "MODE: PROPORTIONAL")
}

func TestFormatPoints(t *testing.T) {
	for _, tc := range []struct {
		value float64
		want  string
	}{
		{30, "30"},
		{2.5, "2.5"},
		{0.25, "0.25"},
		{100, "100"},
	} {
		assert.Equal(t, tc.want, formatPoints(tc.value))
	}
}
