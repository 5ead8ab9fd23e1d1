// Package schema has configs, models and global variables for all parts of gradekit.
package schema

import "time"

// Criterion is a single dimension of a rubric against which an answer is graded.
type Criterion struct {
	Name        string  `json:"name"`
	MaxPoints   float64 `json:"max_points"`
	Description string  `json:"description"`
}

// Rubric is the full grading contract for one assignment.
// DeclaredTotal is set when the rubric text states its own total,
// which validation checks against the sum of criterion points.
type Rubric struct {
	Title         string      `json:"title"`
	Criteria      []Criterion `json:"criteria"`
	DeclaredTotal *float64    `json:"declared_total,omitempty"`
}

// TotalPoints returns the sum of max points across all criteria.
func (r *Rubric) TotalPoints() float64 {
	var total float64
	for _, c := range r.Criteria {
		total += c.MaxPoints
	}
	return total
}

// FindCriterion returns the criterion with the given name, or nil if absent.
func (r *Rubric) FindCriterion(name string) *Criterion {
	for i := range r.Criteria {
		if r.Criteria[i].Name == name {
			return &r.Criteria[i]
		}
	}
	return nil
}

// CandidateScore is one pass's raw verdict for a single criterion.
type CandidateScore struct {
	Criterion     string  `json:"criterion"`
	Points        float64 `json:"points"`
	MaxPoints     float64 `json:"max_points"`
	Justification string  `json:"justification"`
}

// CandidateResult is the raw output of a single grading pass after
// strict validation. PassIndex is the zero-based position of the pass
// in the run order.
type CandidateResult struct {
	PassIndex       int              `json:"pass_index"`
	TotalScore      float64          `json:"total_score"`
	MaxPossible     float64          `json:"max_possible"`
	Scores          []CandidateScore `json:"scores"`
	OverallFeedback string           `json:"overall_feedback"`
}

// ScoreFor returns the candidate score for the named criterion, or nil.
func (c *CandidateResult) ScoreFor(name string) *CandidateScore {
	for i := range c.Scores {
		if c.Scores[i].Criterion == name {
			return &c.Scores[i]
		}
	}
	return nil
}

// VarianceNote records the spread observed when passes split on a criterion.
type VarianceNote struct {
	MinPoints float64 `json:"min_points"`
	MaxPoints float64 `json:"max_points"`
	PassCount int     `json:"pass_count"`
}

// CriterionResult is the reconciled outcome for one criterion across all passes.
type CriterionResult struct {
	Criterion     string        `json:"criterion"`
	Points        float64       `json:"points"`
	MaxPoints     float64       `json:"max_points"`
	Justification string        `json:"justification"`
	Agreement     Agreement     `json:"agreement"`
	VarianceNote  *VarianceNote `json:"variance_note,omitempty"`
}

// Audit holds the provenance block for a grading run. Hashes are
// hex-encoded SHA-256 digests.
type Audit struct {
	RubricHash  string    `json:"rubric_hash"`
	AnswerHash  string    `json:"answer_hash"`
	ResultHash  string    `json:"result_hash"`
	Model       string    `json:"model"`
	Temperature float64   `json:"temperature"`
	Passes      int       `json:"passes"`
	ValidPasses int       `json:"valid_passes"`
	GradedAt    time.Time `json:"graded_at"`
}

// Report is the final reconciled grading report for one submission.
type Report struct {
	Title           string            `json:"title"`
	Criteria        []CriterionResult `json:"criteria"`
	Total           float64           `json:"total"`
	MaxTotal        float64           `json:"max_total"`
	Band            Band              `json:"band"`
	NeedsReview     bool              `json:"needs_review"`
	Degraded        bool              `json:"degraded,omitempty"`
	OverallFeedback string            `json:"overall_feedback"`
	Strictness      Strictness        `json:"strictness"`
	Audit           Audit             `json:"audit"`
}

// Percentage returns the total as a percentage of the maximum, or 0 when
// the rubric carries no points.
func (r *Report) Percentage() float64 {
	if r.MaxTotal == 0 {
		return 0
	}
	return r.Total / r.MaxTotal * 100.0
}

// GradingRunRecord is a persisted grading run as stored in the history store.
type GradingRunRecord struct {
	RunID       int64     `json:"run_id"`
	GradedAt    time.Time `json:"graded_at"`
	RubricTitle string    `json:"rubric_title"`
	Total       float64   `json:"total"`
	MaxTotal    float64   `json:"max_total"`
	Band        string    `json:"band"`
	NeedsReview bool      `json:"needs_review"`
	Passes      int       `json:"passes"`
	Model       string    `json:"model"`
	ReportJSON  *string   `json:"report_json,omitempty"`
}

// HistoryStatus holds status information about the history store.
type HistoryStatus struct {
	Backend    string           `json:"backend"`
	Connected  bool             `json:"connected"`
	TotalRuns  int64            `json:"total_runs"`
	LastRunID  int64            `json:"last_run_id"`
	LastRunAt  time.Time        `json:"last_run_at"`
	OldestRun  time.Time        `json:"oldest_run"`
	TableSizes map[string]int64 `json:"table_sizes"`
}
