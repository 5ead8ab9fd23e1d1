package rubric

import (
	"strings"
	"testing"

	"github.com/huangsam/gradekit/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRubric() *schema.Rubric {
	return &schema.Rubric{
		Title: "Essay Rubric",
		Criteria: []schema.Criterion{
			{Name: "Accuracy", MaxPoints: 30, Description: "Factual correctness of all claims"},
			{Name: "Evidence", MaxPoints: 25, Description: "Use of supporting sources and citations"},
		},
	}
}

func TestValidateCleanRubric(t *testing.T) {
	assert.Empty(t, Validate(validRubric()))
	assert.NoError(t, ValidateOrError(validRubric()))
}

func TestValidateStructure(t *testing.T) {
	r := &schema.Rubric{Title: "  "}
	issues := Validate(r)

	assert.Contains(t, issues, "Rubric title is empty")
	assert.Contains(t, issues, "Rubric has no criteria")
	assert.Contains(t, issues, "Total points must be greater than 0")
}

func TestValidateCriterionIssues(t *testing.T) {
	t.Run("short name", func(t *testing.T) {
		r := validRubric()
		r.Criteria[0].Name = "A"
		assertHasIssue(t, Validate(r), "Name is too short")
	})

	t.Run("short description", func(t *testing.T) {
		r := validRubric()
		r.Criteria[0].Description = "Facts"
		assertHasIssue(t, Validate(r), "Description is too short")
	})

	t.Run("vague words", func(t *testing.T) {
		r := validRubric()
		r.Criteria[0].Description = "The writing should be good and appropriate"
		issues := Validate(r)
		assertHasIssue(t, issues, "vague words")
		assertHasIssue(t, issues, "good, appropriate")
	})

	t.Run("excessive points", func(t *testing.T) {
		r := validRubric()
		r.Criteria[0].MaxPoints = 1500
		issues := Validate(r)
		assertHasIssue(t, issues, "exceed maximum allowed")
		assertHasIssue(t, issues, "unusually high")
	})
}

func TestValidateDuplicateNames(t *testing.T) {
	r := validRubric()
	r.Criteria = append(r.Criteria, schema.Criterion{
		Name:        " ACCURACY ",
		MaxPoints:   10,
		Description: "Same criterion under a different casing",
	})

	issues := Validate(r)
	assertHasIssue(t, issues, "Duplicate criterion name")
	assertHasIssue(t, issues, "positions 1 and 3")
}

func TestValidateDeclaredTotalMismatch(t *testing.T) {
	r := validRubric()
	declared := 100.0
	r.DeclaredTotal = &declared

	assertHasIssue(t, Validate(r), "does not match the sum of criterion points")

	r.DeclaredTotal = nil
	matching := r.TotalPoints()
	r.DeclaredTotal = &matching
	assert.Empty(t, Validate(r))
}

func TestValidateOrErrorWrapsViolations(t *testing.T) {
	r := validRubric()
	r.Criteria[0].Description = "Meh"

	err := ValidateOrError(r)
	require.Error(t, err)

	rubricErr, ok := err.(*schema.RubricError)
	require.True(t, ok)
	assert.NotEmpty(t, rubricErr.Violations)
}

// assertHasIssue checks that at least one violation contains the substring.
func assertHasIssue(t *testing.T, issues []string, substr string) {
	t.Helper()
	for _, issue := range issues {
		if strings.Contains(issue, substr) {
			return
		}
	}
	t.Errorf("no violation contains %q in %v", substr, issues)
}
