package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/huangsam/funcspot/internal/contract"
	"github.com/huangsam/funcspot/schema"
)

// PrintComparisonResults outputs the per-function deltas between the base
// and target refs in the configured format.
func PrintComparisonResults(result schema.ComparisonResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeComparisonJSONResults(result, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeComparisonCSVResults(result, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		// Deltas are a two-sided view with no stable row identity, so the
		// columnar export is not offered here.
		return fmt.Errorf("parquet output is not supported for compare; use json or csv")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeComparisonTable(result, cfg, duration, w)
		}, "Wrote table")
	}
	return nil
}

// formatDelta renders a signed commit delta with a direction marker,
// colored when the terminal supports it. Zero gets no marker.
func formatDelta(delta int, useColors bool) string {
	paint := func(attr color.Attribute, s string) string {
		if !useColors {
			return s
		}
		return color.New(attr).Sprint(s)
	}
	switch {
	case delta > 0:
		return paint(color.FgRed, fmt.Sprintf("+%d ▲", delta))
	case delta < 0:
		return paint(color.FgGreen, fmt.Sprintf("%d ▼", delta))
	default:
		return paint(color.FgYellow, "0")
	}
}

func writeComparisonTable(result schema.ComparisonResult, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	table := newRankTable(writer, []string{"Rank", "File", "Function", "Before", "After", "Delta", "Status"})

	var data [][]string
	for i, r := range result.Details {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(r.Path, getMaxTablePathWidth(cfg)),
			truncateName(r.Name, getMaxTableFuncWidth(cfg)),
			strconv.Itoa(r.BeforeCommits),
			strconv.Itoa(r.AfterCommits),
			formatDelta(r.DeltaCommits, cfg.UseColors),
			string(r.Status),
		})
	}

	if err := renderRankTable(table, data); err != nil {
		return err
	}

	summary := result.Summary
	if _, err := fmt.Fprintf(writer,
		"Showing top %d changes\nNet commit delta: %d\nNew functions: %d, Removed functions: %d, Changed functions: %d\n",
		len(result.Details), summary.NetDeltaCommits,
		summary.TotalNewFuncs, summary.TotalRemovedFuncs, summary.TotalChangedFuncs); err != nil {
		return err
	}
	_, err := fmt.Fprintf(writer, "Comparison completed in %v with %d workers. Cache backend: %s\n",
		duration, cfg.Workers, cfg.CacheBackend)
	return err
}

func writeComparisonJSONResults(result schema.ComparisonResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, result)
	}, "Wrote JSON")
}

func writeComparisonCSVResults(result schema.ComparisonResult, cfg *contract.Config) error {
	header := []string{"rank", "file", "function", "before_commits", "after_commits", "delta_commits", "status"}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			for i, r := range result.Details {
				row := []string{
					strconv.Itoa(i + 1),
					r.Path,
					r.Name,
					strconv.Itoa(r.BeforeCommits),
					strconv.Itoa(r.AfterCommits),
					strconv.Itoa(r.DeltaCommits),
					string(r.Status),
				}
				if err := csvWriter.Write(row); err != nil {
					return err
				}
			}
			return nil
		})
	}, "Wrote CSV")
}
