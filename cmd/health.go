package cmd

import (
	"github.com/huangsam/gradekit/core"
	"github.com/huangsam/gradekit/internal/contract"
	"github.com/spf13/cobra"
)

// healthCmd verifies connectivity to the grading backend.
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Verify that the grading backend is reachable and authorized.",
	Long: `Send a minimal completion request to the configured backend.

Confirms in one round trip that:
- The base URL resolves and accepts requests
- The API key is valid
- The selected model is available

Examples:
  # Check the default endpoint
  GRADEKIT_API_KEY=sk-... gradekit health

  # Check an alternate endpoint and model
  gradekit health --base-url https://api.example.com/v1 --model gpt-4o`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHealth(rootCtx, newGrader(cfg), cfg); err != nil {
			contract.LogFatal("Backend health check failed", err)
		}
	},
}
