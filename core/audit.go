package core

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/huangsam/gradekit/internal/contract"
	"github.com/huangsam/gradekit/schema"
)

// buildAudit fills the report's provenance block. The result hash
// covers the report with an empty audit block, so verifiers can recompute
// it by clearing the block and hashing again.
func buildAudit(report *schema.Report, rubric *schema.Rubric, answer string, cfg *contract.Config, outcome *passOutcome) {
	report.Audit = schema.Audit{}
	resultHash := hashJSON(report)

	report.Audit = schema.Audit{
		RubricHash:  hashJSON(rubric),
		AnswerHash:  hashText(answer),
		ResultHash:  resultHash,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		Passes:      outcome.attempted,
		ValidPasses: len(outcome.candidates),
		GradedAt:    time.Now().UTC(),
	}
}

func hashText(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func hashJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
