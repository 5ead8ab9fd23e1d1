package rubric

import (
	"fmt"
	"strings"

	"github.com/huangsam/gradekit/schema"
)

// Validation limits.
const (
	// MinDescriptionLength is the minimum description length for clarity.
	MinDescriptionLength = 10

	// MaxPointsPerCriterion is the maximum allowed points per criterion.
	MaxPointsPerCriterion = 1000.0

	// MaxTotalPoints is the threshold above which a rubric total is flagged.
	MaxTotalPoints = 1000.0
)

// vagueWords are words that indicate descriptions too vague for consistent grading.
var vagueWords = []string{
	"good", "bad", "nice", "okay", "fine",
	"appropriate", "adequate", "sufficient", "reasonable",
}

// Validate checks a rubric for completeness and consistency and returns
// every violation found, not just the first. An empty slice means the
// rubric is valid.
func Validate(r *schema.Rubric) []string {
	var issues []string

	issues = append(issues, validateStructure(r)...)
	for i, criterion := range r.Criteria {
		issues = append(issues, validateCriterion(&criterion, i+1)...)
	}
	issues = append(issues, checkDuplicates(r.Criteria)...)
	issues = append(issues, validateTotalPoints(r)...)

	return issues
}

// ValidateOrError checks a rubric and wraps any violations in a RubricError.
func ValidateOrError(r *schema.Rubric) error {
	if issues := Validate(r); len(issues) > 0 {
		return &schema.RubricError{Violations: issues}
	}
	return nil
}

// validateStructure validates basic rubric structure.
func validateStructure(r *schema.Rubric) []string {
	var issues []string

	if strings.TrimSpace(r.Title) == "" {
		issues = append(issues, "Rubric title is empty")
	}
	if len(r.Criteria) == 0 {
		issues = append(issues, "Rubric has no criteria")
	}

	return issues
}

// validateCriterion validates a single criterion.
func validateCriterion(c *schema.Criterion, index int) []string {
	var issues []string
	prefix := fmt.Sprintf("Criterion %d (%s)", index, c.Name)

	if len(strings.TrimSpace(c.Name)) < 2 {
		issues = append(issues, fmt.Sprintf("%s: Name is too short", prefix))
	}

	if len(strings.TrimSpace(c.Description)) < MinDescriptionLength {
		issues = append(issues, fmt.Sprintf(
			"%s: Description is too short (minimum %d characters). Clear descriptions are essential for consistent grading.",
			prefix, MinDescriptionLength))
	}

	descLower := strings.ToLower(c.Description)
	var vagueFound []string
	for _, w := range vagueWords {
		if strings.Contains(descLower, w) {
			vagueFound = append(vagueFound, w)
		}
	}
	if len(vagueFound) > 0 {
		issues = append(issues, fmt.Sprintf(
			"%s: Description contains vague words (%s). Use specific, measurable criteria instead.",
			prefix, strings.Join(vagueFound, ", ")))
	}

	if c.MaxPoints > MaxPointsPerCriterion {
		issues = append(issues, fmt.Sprintf(
			"%s: Points (%g) exceed maximum allowed (%g)", prefix, c.MaxPoints, MaxPointsPerCriterion))
	}

	return issues
}

// checkDuplicates checks for duplicate criterion names, case-insensitively.
func checkDuplicates(criteria []schema.Criterion) []string {
	var issues []string
	seen := make(map[string]int)

	for i, criterion := range criteria {
		nameLower := strings.ToLower(strings.TrimSpace(criterion.Name))
		if first, ok := seen[nameLower]; ok {
			issues = append(issues, fmt.Sprintf(
				"Duplicate criterion name: '%s' (appears at positions %d and %d)",
				criterion.Name, first, i+1))
		} else {
			seen[nameLower] = i + 1
		}
	}

	return issues
}

// validateTotalPoints validates that total points are sensible.
func validateTotalPoints(r *schema.Rubric) []string {
	var issues []string

	total := r.TotalPoints()
	if total <= 0 {
		issues = append(issues, "Total points must be greater than 0")
	}
	if total > MaxTotalPoints {
		issues = append(issues, fmt.Sprintf(
			"Total points (%g) is unusually high. Consider if this is intentional.", total))
	}
	if r.DeclaredTotal != nil && *r.DeclaredTotal != total {
		issues = append(issues, fmt.Sprintf(
			"Declared total (%g) does not match the sum of criterion points (%g)",
			*r.DeclaredTotal, total))
	}

	return issues
}
