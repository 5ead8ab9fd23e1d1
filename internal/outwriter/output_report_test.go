package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/huangsam/gradekit/internal/contract"
	"github.com/huangsam/gradekit/schema"
)

func testConfig() *contract.Config {
	return &contract.Config{
		Precision: 1,
		Width:     120,
		BandThresholds: map[schema.Band]float64{
			schema.ExcellentBand:    90,
			schema.GoodBand:         80,
			schema.SatisfactoryBand: 70,
			schema.PassingBand:      60,
			schema.FailingBand:      0,
		},
	}
}

func sampleReport() *schema.Report {
	return &schema.Report{
		Title: "Essay Rubric",
		Criteria: []schema.CriterionResult{
			{Criterion: "Accuracy", Points: 30, MaxPoints: 30, Agreement: schema.UnanimousAgreement, Justification: "All claims check out"},
			{Criterion: "Evidence", Points: 21, MaxPoints: 25, Agreement: schema.MajorityAgreement, Justification: "Two sources cited"},
			{
				Criterion: "Conclusion", Points: 15, MaxPoints: 20, Agreement: schema.SplitAgreement,
				Justification: "Restates thesis without synthesis",
				VarianceNote:  &schema.VarianceNote{MinPoints: 10, MaxPoints: 19, PassCount: 3},
			},
		},
		Total:           66,
		MaxTotal:        75,
		Band:            schema.GoodBand,
		NeedsReview:     true,
		OverallFeedback: "Strengthen the conclusion",
		Strictness:      schema.ProportionalStrictness,
		Audit:           schema.Audit{Model: "openai/gpt-5", Passes: 3, ValidPasses: 3},
	}
}

func TestWriteReportTable(t *testing.T) {
	var buf bytes.Buffer
	err := writeReportTable(&buf, sampleReport(), testConfig(), createFormatter(1), 1500*time.Millisecond)
	assert.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Essay Rubric")
	assert.Contains(t, out, "Accuracy")
	assert.Contains(t, out, "UNANIMOUS")
	assert.Contains(t, out, "MAJORITY")
	assert.Contains(t, out, "SPLIT (10.0..19.0 over 3 passes)")
	assert.Contains(t, out, "Total: 66.0 / 75.0 (88.0%) -> Good")
	assert.Contains(t, out, "Needs review")
	assert.Contains(t, out, "Strengthen the conclusion")
	assert.Contains(t, out, "3/3 valid passes")
}

func TestWriteReportTableDegraded(t *testing.T) {
	report := sampleReport()
	report.Degraded = true

	var buf bytes.Buffer
	err := writeReportTable(&buf, report, testConfig(), createFormatter(1), time.Second)
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Degraded: result from a single surviving pass")
}

func TestPrintReportRejectsParquet(t *testing.T) {
	cfg := testConfig()
	cfg.Output = schema.ParquetOut

	err := PrintReport(sampleReport(), cfg, time.Second)
	assert.ErrorContains(t, err, "parquet output is not supported for grade reports")
}

func TestWriteReportCSV(t *testing.T) {
	var buf bytes.Buffer
	err := writeReportCSV(&buf, sampleReport(), createFormatter(1))
	assert.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	assert.NoError(t, err)
	// Header + three criteria + total row
	assert.Len(t, records, 5)
	assert.Equal(t, "criterion", records[0][0])
	assert.Equal(t, "Conclusion", records[3][0])
	assert.Equal(t, "10.0", records[3][5])
	assert.Equal(t, "19.0", records[3][6])
	assert.Equal(t, "TOTAL", records[4][0])
	assert.Equal(t, "Good", records[4][3])
}

func TestReportJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, writeJSON(&buf, sampleReport()))

	var decoded schema.Report
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "Essay Rubric", decoded.Title)
	assert.True(t, decoded.NeedsReview)
	assert.Len(t, decoded.Criteria, 3)
	assert.NotNil(t, decoded.Criteria[2].VarianceNote)
}

func TestGetMaxJustificationWidth(t *testing.T) {
	cfg := testConfig()

	cfg.Width = 120
	assert.Equal(t, 65, getMaxJustificationWidth(cfg))

	cfg.Width = 60
	assert.Equal(t, 20, getMaxJustificationWidth(cfg))

	cfg.Width = 300
	assert.Equal(t, 80, getMaxJustificationWidth(cfg))
}
