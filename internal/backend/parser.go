package backend

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/huangsam/gradekit/schema"
)

var codeFencePattern = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)```")

// rawResponse mirrors the JSON shape the grading prompt asks for.
type rawResponse struct {
	TotalScore      json.Number    `json:"total_score"`
	MaxPossible     json.Number    `json:"max_possible"`
	CriteriaResults []rawCriterion `json:"criteria_results"`
	OverallFeedback string         `json:"overall_feedback"`
}

type rawCriterion struct {
	Criterion       string      `json:"criterion"`
	MaxPoints       json.Number `json:"max_points"`
	AwardedPoints   json.Number `json:"awarded_points"`
	Justification   string      `json:"justification"`
	DeductionReason *string     `json:"deduction_reason"`
}

// ParseResponse turns a raw model response into a candidate result,
// validating it against the rubric. Code fences and stray prose around
// the JSON object are tolerated; malformed JSON gets one repair attempt
// before the pass is rejected.
func ParseResponse(response string, r *schema.Rubric, passIndex int) (*schema.CandidateResult, error) {
	jsonStr, err := extractJSON(response)
	if err != nil {
		return nil, err
	}

	var raw rawResponse
	if err := decodeStrictNumbers(jsonStr, &raw); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(jsonStr)
		if repairErr != nil {
			return nil, fmt.Errorf("invalid JSON in response: %w", err)
		}
		if err := decodeStrictNumbers(repaired, &raw); err != nil {
			return nil, fmt.Errorf("invalid JSON in response after repair: %w", err)
		}
	}

	return validateResponse(&raw, r, passIndex)
}

func decodeStrictNumbers(jsonStr string, out *rawResponse) error {
	dec := json.NewDecoder(strings.NewReader(jsonStr))
	dec.UseNumber()
	return dec.Decode(out)
}

// extractJSON pulls the JSON object out of a response that may wrap it
// in a markdown code fence or surrounding prose.
func extractJSON(response string) (string, error) {
	if m := codeFencePattern.FindStringSubmatch(response); m != nil {
		return strings.TrimSpace(m[1]), nil
	}

	start := strings.Index(response, "{")
	if start == -1 {
		return "", fmt.Errorf("no JSON object found in response")
	}

	depth := 0
	for i := start; i < len(response); i++ {
		switch response[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return response[start : i+1], nil
			}
		}
	}
	return "", fmt.Errorf("unclosed JSON object in response")
}

func validateResponse(raw *rawResponse, r *schema.Rubric, passIndex int) (*schema.CandidateResult, error) {
	if raw.OverallFeedback == "" {
		return nil, fmt.Errorf("missing required field: overall_feedback")
	}
	if len(raw.CriteriaResults) == 0 {
		return nil, fmt.Errorf("missing required field: criteria_results")
	}
	if _, err := parseNumber(raw.TotalScore, "total_score"); err != nil {
		return nil, err
	}

	maxPossible, err := parseNumber(raw.MaxPossible, "max_possible")
	if err != nil {
		return nil, err
	}
	if rubricTotal := r.TotalPoints(); !almostEqual(maxPossible, rubricTotal) {
		return nil, fmt.Errorf("max_possible (%v) doesn't match rubric total (%v)", maxPossible, rubricTotal)
	}

	scores := make([]schema.CandidateScore, 0, len(raw.CriteriaResults))
	seen := make(map[string]bool, len(raw.CriteriaResults))
	for i, item := range raw.CriteriaResults {
		if item.Criterion == "" {
			return nil, fmt.Errorf("criteria_results[%d] missing criterion name", i)
		}

		crit := matchCriterion(r, item.Criterion)
		if crit == nil {
			return nil, fmt.Errorf("unknown criterion: %q", item.Criterion)
		}
		key := strings.ToLower(crit.Name)
		if seen[key] {
			return nil, fmt.Errorf("duplicate criterion in response: %q", item.Criterion)
		}
		seen[key] = true

		points, err := parseNumber(item.AwardedPoints, fmt.Sprintf("criteria_results[%d].awarded_points", i))
		if err != nil {
			return nil, err
		}
		if points < 0 {
			return nil, fmt.Errorf("negative points for %q: %v", item.Criterion, points)
		}
		if points > crit.MaxPoints {
			return nil, fmt.Errorf("points for %q (%v) exceed max (%v)", item.Criterion, points, crit.MaxPoints)
		}
		if item.Justification == "" {
			return nil, fmt.Errorf("missing justification for %q", item.Criterion)
		}

		scores = append(scores, schema.CandidateScore{
			Criterion:     crit.Name,
			Points:        points,
			MaxPoints:     crit.MaxPoints,
			Justification: item.Justification,
		})
	}

	if missing := missingCriteria(r, seen); len(missing) > 0 {
		return nil, fmt.Errorf("missing criteria in response: %v", missing)
	}

	// The summed total is more reliable than the reported one.
	var total float64
	for _, s := range scores {
		total += s.Points
	}

	return &schema.CandidateResult{
		PassIndex:       passIndex,
		TotalScore:      total,
		MaxPossible:     maxPossible,
		Scores:          scores,
		OverallFeedback: raw.OverallFeedback,
	}, nil
}

// matchCriterion resolves a reported criterion name, falling back to
// a case-insensitive partial match when the model reworded it.
func matchCriterion(r *schema.Rubric, name string) *schema.Criterion {
	lower := strings.ToLower(name)
	for i := range r.Criteria {
		if strings.ToLower(r.Criteria[i].Name) == lower {
			return &r.Criteria[i]
		}
	}
	for i := range r.Criteria {
		critLower := strings.ToLower(r.Criteria[i].Name)
		if strings.Contains(lower, critLower) || strings.Contains(critLower, lower) {
			return &r.Criteria[i]
		}
	}
	return nil
}

func missingCriteria(r *schema.Rubric, seen map[string]bool) []string {
	var missing []string
	for _, c := range r.Criteria {
		if !seen[strings.ToLower(c.Name)] {
			missing = append(missing, c.Name)
		}
	}
	return missing
}

func parseNumber(n json.Number, field string) (float64, error) {
	if n == "" {
		return 0, fmt.Errorf("missing required field: %s", field)
	}
	v, err := n.Float64()
	if err != nil {
		return 0, fmt.Errorf("invalid numeric value for %s: %v", field, n)
	}
	return v, nil
}

func almostEqual(a, b float64) bool {
	diff := a - b
	return diff < 0.01 && diff > -0.01
}
