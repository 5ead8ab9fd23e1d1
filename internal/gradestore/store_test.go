package gradestore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/huangsam/gradekit/schema"
)

func testReport(title string, total float64) *schema.Report {
	return &schema.Report{
		Title: title,
		Criteria: []schema.CriterionResult{
			{Criterion: "Accuracy", Points: total, MaxPoints: 100, Agreement: schema.UnanimousAgreement, Justification: "ok"},
		},
		Total:    total,
		MaxTotal: 100,
		Band:     schema.ExcellentBand,
		Audit: schema.Audit{
			Model:       "openai/gpt-5",
			Passes:      3,
			ValidPasses: 3,
			GradedAt:    time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
		},
	}
}

func newTestStore(t *testing.T) *HistoryStoreImpl {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "history.db")
	store, err := NewHistoryStore(schema.SQLiteBackend, dbPath)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.(*HistoryStoreImpl)
}

func TestSaveAndGetRuns(t *testing.T) {
	store := newTestStore(t)

	id1, err := store.SaveRun(testReport("Essay Rubric", 91))
	assert.NoError(t, err)
	assert.Equal(t, int64(1), id1)

	id2, err := store.SaveRun(testReport("Lab Report", 70))
	assert.NoError(t, err)
	assert.Equal(t, int64(2), id2)

	runs, err := store.GetAllRuns()
	assert.NoError(t, err)
	assert.Len(t, runs, 2)

	first := runs[0]
	assert.Equal(t, int64(1), first.RunID)
	assert.Equal(t, "Essay Rubric", first.RubricTitle)
	assert.InDelta(t, 91.0, first.Total, 1e-9)
	assert.InDelta(t, 100.0, first.MaxTotal, 1e-9)
	assert.Equal(t, "Excellent", first.Band)
	assert.Equal(t, 3, first.Passes)
	assert.Equal(t, "openai/gpt-5", first.Model)
	assert.True(t, first.GradedAt.Equal(time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)))
	if assert.NotNil(t, first.ReportJSON) {
		assert.Contains(t, *first.ReportJSON, `"title":"Essay Rubric"`)
	}
}

func TestPurge(t *testing.T) {
	store := newTestStore(t)

	_, err := store.SaveRun(testReport("Essay Rubric", 91))
	assert.NoError(t, err)

	assert.NoError(t, store.Purge())

	runs, err := store.GetAllRuns()
	assert.NoError(t, err)
	assert.Empty(t, runs)
}

func TestGetStatus(t *testing.T) {
	store := newTestStore(t)

	_, err := store.SaveRun(testReport("Essay Rubric", 91))
	assert.NoError(t, err)
	_, err = store.SaveRun(testReport("Lab Report", 70))
	assert.NoError(t, err)

	status, err := store.GetStatus()
	assert.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	assert.True(t, status.Connected)
	assert.Equal(t, int64(2), status.TotalRuns)
	assert.Equal(t, int64(2), status.LastRunID)
	assert.False(t, status.LastRunAt.IsZero())
	assert.False(t, status.OldestRun.IsZero())
	assert.Equal(t, int64(2), status.TableSizes[runsTable])
}

func TestNoneBackendNoOps(t *testing.T) {
	store, err := NewHistoryStore(schema.NoneBackend, "")
	assert.NoError(t, err)

	id, err := store.SaveRun(testReport("Essay Rubric", 91))
	assert.NoError(t, err)
	assert.Equal(t, int64(0), id)

	runs, err := store.GetAllRuns()
	assert.NoError(t, err)
	assert.Nil(t, runs)

	assert.NoError(t, store.Purge())

	status, err := store.GetStatus()
	assert.NoError(t, err)
	assert.False(t, status.Connected)

	assert.NoError(t, store.Close())
}

func TestUnsupportedBackend(t *testing.T) {
	_, err := NewHistoryStore(schema.DatabaseBackend("oracle"), "")
	assert.ErrorContains(t, err, "unsupported backend")
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, "`gradekit_runs`", quoteTableName(runsTable, schema.MySQLBackend))
	assert.Equal(t, `"gradekit_runs"`, quoteTableName(runsTable, schema.PostgreSQLBackend))
	assert.Equal(t, "gradekit_runs", quoteTableName(runsTable, schema.SQLiteBackend))
}
