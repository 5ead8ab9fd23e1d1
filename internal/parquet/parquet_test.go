package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/gradekit/schema"
)

func sampleRuns() []GradingRun {
	report := `{"title":"Essay Rubric","total":47}`
	return []GradingRun{
		{
			RunID:       1,
			GradedAt:    time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
			RubricTitle: "Essay Rubric",
			Total:       47,
			MaxTotal:    55,
			Band:        "Good",
			NeedsReview: false,
			Passes:      3,
			Model:       "openai/gpt-5",
			ReportJSON:  &report,
		},
		{
			RunID:       2,
			GradedAt:    time.Date(2026, 3, 2, 11, 30, 0, 0, time.UTC),
			RubricTitle: "Lab Report Rubric",
			Total:       30,
			MaxTotal:    60,
			Band:        "Failing",
			NeedsReview: true,
			Passes:      5,
			Model:       "openai/gpt-5",
			ReportJSON:  nil,
		},
	}
}

func TestGradingRunStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	sch := parquet.SchemaOf(new(GradingRun))
	require.NotNil(t, sch)

	expectedColumns := []string{
		"run_id",
		"graded_at",
		"rubric_title",
		"total",
		"max_total",
		"band",
		"needs_review",
		"passes",
		"model",
		"report_json",
	}

	for _, colName := range expectedColumns {
		col, ok := sch.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestWriteGradingRunsParquet(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "grading_runs.parquet")

	data := sampleRuns()
	err := WriteGradingRunsParquet(data, outputPath)
	require.NoError(t, err, "Writing Parquet file should not produce error")

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should not be empty")

	// Read back and verify data
	file, err := os.Open(outputPath)
	require.NoError(t, err, "Should be able to open output file")
	defer file.Close()

	reader := parquet.NewGenericReader[GradingRun](file)
	defer reader.Close()

	readData := make([]GradingRun, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err, "Should be able to read data")
	}
	assert.Equal(t, len(data), n, "Should read all records")

	for i := 0; i < len(data); i++ {
		assert.Equal(t, data[i].RunID, readData[i].RunID, "RunID should match")
		assert.Equal(t, data[i].RubricTitle, readData[i].RubricTitle, "RubricTitle should match")
		assert.InDelta(t, data[i].Total, readData[i].Total, 0.001, "Total should match")
		assert.InDelta(t, data[i].MaxTotal, readData[i].MaxTotal, 0.001, "MaxTotal should match")
		assert.Equal(t, data[i].Band, readData[i].Band, "Band should match")
		assert.Equal(t, data[i].NeedsReview, readData[i].NeedsReview, "NeedsReview should match")
		assert.Equal(t, data[i].Passes, readData[i].Passes, "Passes should match")
		assert.WithinDuration(t, data[i].GradedAt, readData[i].GradedAt, time.Nanosecond, "GradedAt should match within nanosecond precision")

		// Check nullable ReportJSON field
		if data[i].ReportJSON == nil {
			assert.Nil(t, readData[i].ReportJSON, "ReportJSON should be nil")
		} else {
			require.NotNil(t, readData[i].ReportJSON, "ReportJSON should not be nil")
			assert.Equal(t, *data[i].ReportJSON, *readData[i].ReportJSON, "ReportJSON should match")
		}
	}
}

func TestWriteGradingRunsParquet_EmptyData(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "empty_grading_runs.parquet")

	err := WriteGradingRunsParquet([]GradingRun{}, outputPath)
	require.NoError(t, err, "Writing empty data should not produce error")

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should contain schema even if empty")
}

func TestWriteGradingRunsParquet_InvalidPath(t *testing.T) {
	err := WriteGradingRunsParquet(sampleRuns(), "/nonexistent/directory/output.parquet")
	require.Error(t, err, "Writing to invalid path should produce error")
}

func TestConvertGradingRunRecords(t *testing.T) {
	report := `{"total":47}`
	records := []schema.GradingRunRecord{
		{
			RunID:       7,
			GradedAt:    time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
			RubricTitle: "Essay Rubric",
			Total:       47,
			MaxTotal:    55,
			Band:        "Good",
			NeedsReview: true,
			Passes:      3,
			Model:       "openai/gpt-5",
			ReportJSON:  &report,
		},
	}

	converted := ConvertGradingRunRecords(records)
	require.Len(t, converted, 1)
	assert.Equal(t, int64(7), converted[0].RunID)
	assert.Equal(t, "Essay Rubric", converted[0].RubricTitle)
	assert.Equal(t, int32(3), converted[0].Passes)
	assert.True(t, converted[0].NeedsReview)
	require.NotNil(t, converted[0].ReportJSON)
	assert.Equal(t, report, *converted[0].ReportJSON)
}
