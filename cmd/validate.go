package cmd

import (
	"github.com/huangsam/gradekit/core"
	"github.com/huangsam/gradekit/internal/contract"
	"github.com/spf13/cobra"
)

// validateCmd checks a rubric without grading anything.
var validateCmd = &cobra.Command{
	Use:     "validate-rubric <rubric-path>",
	Aliases: []string{"validate"},
	Short:   "Check a rubric for structural problems without grading.",
	Long: `Parse a rubric file and report every structural violation found.

Checks include:
- At least one criterion with a positive point value
- No duplicate criterion names (case-insensitive)
- Descriptions that are specific enough to grade against

Exits non-zero when violations are found, so this works as a CI gate
for rubric repositories.

Examples:
  # Validate before grading
  gradekit validate-rubric rubric.md

  # Machine-readable result for CI
  gradekit validate-rubric rubric.md --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteValidateRubric(cfg); err != nil {
			contract.LogFatal("Rubric validation failed", err)
		}
	},
}
