package core

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/huangsam/gradekit/internal/contract"
	"github.com/huangsam/gradekit/schema"
)

// passOutcome captures how one grading run went: the surviving
// candidates plus the counts the report's audit block needs.
type passOutcome struct {
	candidates []*schema.CandidateResult
	attempted  int
	degraded   bool
}

// runPasses dispatches the configured number of grading passes
// concurrently and collects the candidates that survive validation.
// Pass indices are assigned at dispatch time so reconciliation
// tie-breaks do not depend on completion order.
func runPasses(ctx context.Context, grader contract.Grader, rubric *schema.Rubric, answer string, cfg *contract.Config) (*passOutcome, error) {
	results := make([]*schema.CandidateResult, cfg.Passes)
	errs := make([]error, cfg.Passes)

	var wg sync.WaitGroup
	for i := range cfg.Passes {
		wg.Add(1)
		go func(pass int) {
			defer wg.Done()
			result, err := grader.Grade(ctx, rubric, answer)
			if err != nil {
				errs[pass] = err
				return
			}
			result.PassIndex = pass
			results[pass] = result
			if cfg.Verbose {
				contract.LogInfo(fmt.Sprintf("pass %d scored %.2f/%.2f", pass+1, result.TotalScore, result.MaxPossible))
			}
		}(i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	valid := make([]*schema.CandidateResult, 0, cfg.Passes)
	for i, r := range results {
		if r != nil {
			valid = append(valid, r)
			continue
		}
		contract.LogWarn(fmt.Sprintf("pass %d dropped", i+1), errs[i])
	}
	sort.Slice(valid, func(a, b int) bool { return valid[a].PassIndex < valid[b].PassIndex })

	outcome := &passOutcome{candidates: valid, attempted: cfg.Passes}
	switch {
	case len(valid) >= contract.MinValidPasses:
		return outcome, nil
	case len(valid) == 1 && cfg.AllowSinglePass:
		outcome.degraded = true
		return outcome, nil
	default:
		return nil, &schema.InsufficientPassesError{
			Valid:    len(valid),
			Required: contract.MinValidPasses,
			Total:    cfg.Passes,
		}
	}
}
