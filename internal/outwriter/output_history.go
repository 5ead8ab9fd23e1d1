package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/huangsam/gradekit/internal/contract"
	"github.com/huangsam/gradekit/internal/parquet"
	"github.com/huangsam/gradekit/schema"
)

// PrintHistory outputs persisted grading runs, dispatching based on the
// configured output format. Parquet output requires an output file.
func PrintHistory(runs []schema.GradingRunRecord, cfg *contract.Config) error {
	fmtFloat := createFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, runs)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHistoryCSV(w, runs, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return fmt.Errorf("parquet output requires --output-file")
		}
		if err := parquet.WriteGradingRunsParquet(parquet.ConvertGradingRunRecords(runs), cfg.OutputFile); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote parquet to %s\n", cfg.OutputFile)
		return nil
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHistoryTable(w, runs, cfg, fmtFloat)
		}, "Wrote table")
	}
}

func writeHistoryTable(w io.Writer, runs []schema.GradingRunRecord, cfg *contract.Config, fmtFloat func(float64) string) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No grading runs recorded")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Run", "Graded At", "Rubric", "Score", "Band", "Review", "Passes", "Model"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, r := range runs {
		review := ""
		if r.NeedsReview {
			review = "yes"
		}
		data = append(data, []string{
			strconv.FormatInt(r.RunID, 10),
			r.GradedAt.Format(time.DateTime),
			contract.TruncateText(r.RubricTitle, 30),
			fmt.Sprintf("%s/%s", fmtFloat(r.Total), fmtFloat(r.MaxTotal)),
			bandCell(r, cfg),
			review,
			strconv.Itoa(r.Passes),
			r.Model,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d grading runs\n", len(runs))
	return err
}

func bandCell(r schema.GradingRunRecord, cfg *contract.Config) string {
	if !cfg.UseColors {
		return r.Band
	}
	pct := 0.0
	if r.MaxTotal > 0 {
		pct = r.Total / r.MaxTotal * 100.0
	}
	return contract.GetColorBand(pct, cfg.BandThresholds)
}

func writeHistoryCSV(w io.Writer, runs []schema.GradingRunRecord, fmtFloat func(float64) string) error {
	header := []string{
		"run_id",
		"graded_at",
		"rubric_title",
		"total",
		"max_total",
		"band",
		"needs_review",
		"passes",
		"model",
	}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, r := range runs {
			rec := []string{
				strconv.FormatInt(r.RunID, 10),
				r.GradedAt.Format(time.RFC3339),
				r.RubricTitle,
				fmtFloat(r.Total),
				fmtFloat(r.MaxTotal),
				r.Band,
				strconv.FormatBool(r.NeedsReview),
				strconv.Itoa(r.Passes),
				r.Model,
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// PrintHistoryStatus outputs status information about the history store.
func PrintHistoryStatus(status schema.HistoryStatus, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, status)
		}, "Wrote JSON")
	}

	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		if _, err := fmt.Fprintf(w, "Backend: %s (connected: %t)\n", status.Backend, status.Connected); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "Total runs: %d\n", status.TotalRuns); err != nil {
			return err
		}
		if status.TotalRuns > 0 {
			if _, err := fmt.Fprintf(w, "Last run: #%d at %s\n", status.LastRunID, status.LastRunAt.Format(time.DateTime)); err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "Oldest run: %s\n", status.OldestRun.Format(time.DateTime)); err != nil {
				return err
			}
		}
		for name, size := range status.TableSizes {
			if _, err := fmt.Fprintf(w, "Table %s: %d rows\n", name, size); err != nil {
				return err
			}
		}
		return nil
	}, "Wrote status")
}
