package cmd

import (
	"github.com/huangsam/gradekit/core"
	"github.com/huangsam/gradekit/internal/contract"
	"github.com/spf13/cobra"
)

// gradeCmd performs multi-pass grading of a submission.
var gradeCmd = &cobra.Command{
	Use:   "grade <rubric-path> <answer-path>",
	Short: "Grade a submission against a rubric with multiple independent passes.",
	Long: `Run independent grading passes over a submission and reconcile them into one report.

Each pass sends the rubric and submission to the configured LLM backend, then the
per-criterion verdicts are reconciled deterministically:
- UNANIMOUS when every pass awards the same points
- MAJORITY when all passes fall inside the tolerance band (median wins)
- SPLIT when passes genuinely disagree (flags the report for human review)

Rubrics and submissions may be plain text, Markdown, docx, xlsx or PDF files.

Examples:
  # Grade an essay with the defaults (3 passes, 5% tolerance)
  gradekit grade rubric.md essay.txt

  # Run more passes with a tighter tolerance
  gradekit grade rubric.md essay.txt --passes 5 --tolerance 2.5

  # All-or-nothing scoring per criterion
  gradekit grade rubric.md essay.txt --strictness hardfail

  # Export the report for downstream tooling
  gradekit grade rubric.md essay.txt --output json --output-file report.json`,
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteGrade(rootCtx, newGrader(cfg), historyManager, cfg); err != nil {
			contract.LogFatal("Cannot grade submission", err)
		}
	},
}
