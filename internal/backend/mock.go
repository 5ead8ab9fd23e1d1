package backend

import (
	"context"
	"errors"
	"sync"

	"github.com/huangsam/gradekit/schema"
)

// MockGrader replays scripted pass results in order. It is used by
// engine tests and by anything that needs deterministic grading.
type MockGrader struct {
	mu      sync.Mutex
	next    int
	Results []*schema.CandidateResult
	Errors  []error

	HealthErr error
}

// Grade returns the next scripted result or error. Once the script is
// exhausted the last entry repeats.
func (m *MockGrader) Grade(ctx context.Context, _ *schema.Rubric, _ string) (*schema.CandidateResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	i := m.next
	m.next++
	m.mu.Unlock()

	if i < len(m.Errors) && m.Errors[i] != nil {
		return nil, m.Errors[i]
	}
	if len(m.Results) == 0 {
		return nil, &schema.BackendError{Err: errors.New("no scripted results")}
	}
	if i >= len(m.Results) {
		i = len(m.Results) - 1
	}
	return cloneResult(m.Results[i]), nil
}

// Health returns the scripted health error, if any.
func (m *MockGrader) Health(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.HealthErr
}

func cloneResult(r *schema.CandidateResult) *schema.CandidateResult {
	out := *r
	out.Scores = make([]schema.CandidateScore, len(r.Scores))
	copy(out.Scores, r.Scores)
	return &out
}
