package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/funcspot/internal/contract"
	"github.com/huangsam/funcspot/internal/parquet"
	"github.com/huangsam/funcspot/schema"
)

// PrintFuncResults outputs the ranked function records in the configured
// format. Text tables are the default.
func PrintFuncResults(records []schema.FuncRecord, stats *schema.RunStats, cfg *contract.Config) error {
	enriched := schema.EnrichFuncs(records)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeFuncJSONResults(enriched, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeFuncCSVResults(enriched, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeFuncParquetResults(enriched, cfg); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeFuncTable(enriched, stats, cfg, w)
		}, "Wrote table")
	}
	return nil
}

func writeFuncJSONResults(enriched []schema.EnrichedFuncResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, enriched)
	}, "Wrote JSON")
}

func writeFuncCSVResults(enriched []schema.EnrichedFuncResult, cfg *contract.Config) error {
	header := []string{"rank", "file", "line", "function", "language", "frequency", "heat"}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			for _, r := range enriched {
				rec := []string{
					strconv.Itoa(r.Rank),
					r.Path,
					strconv.Itoa(r.Line),
					r.Name,
					string(r.Language),
					strconv.Itoa(r.Commits),
					r.Heat,
				}
				if err := csvWriter.Write(rec); err != nil {
					return err
				}
			}
			return nil
		})
	}, "Wrote CSV")
}

func writeFuncParquetResults(enriched []schema.EnrichedFuncResult, cfg *contract.Config) error {
	return writeParquetFileOrErr(parquet.ConvertEnrichedFuncs(enriched), cfg.OutputFile, parquet.WriteFuncHotspotsParquet)
}

func writeFuncTable(enriched []schema.EnrichedFuncResult, stats *schema.RunStats, cfg *contract.Config, writer io.Writer) error {
	table := newRankTable(writer, []string{"Rank", "File", "Line", "Function", "Frequency", "Heat"})

	var data [][]string
	for _, r := range enriched {
		data = append(data, []string{
			strconv.Itoa(r.Rank),
			contract.TruncatePath(r.Path, getMaxTablePathWidth(cfg)),
			strconv.Itoa(r.Line),
			truncateName(r.Name, getMaxTableFuncWidth(cfg)),
			strconv.Itoa(r.Commits),
			heatCell(r.Heat, cfg),
		})
	}

	if err := renderRankTable(table, data); err != nil {
		return err
	}
	return writeRunStatsFooter(writer, len(enriched), "functions", stats)
}

// writeRunStatsFooter prints the shared two-to-three line summary below
// text tables.
func writeRunStatsFooter(writer io.Writer, shown int, noun string, stats *schema.RunStats) error {
	if _, err := fmt.Fprintf(writer, "Showing %d of %d %s (files: %d, commits walked: %d, cache hits: %d)\n",
		shown, stats.TotalMatched, noun, stats.FilesAnalyzed, stats.CommitsWalked, stats.CacheHits); err != nil {
		return err
	}
	// Recoverable losses stay visible instead of silently vanishing
	if stats.FilesSkipped > 0 || stats.CommitsSkipped > 0 || stats.DegradedParses > 0 {
		if _, err := fmt.Fprintf(writer, "Skipped %d files, %d commits; degraded parses: %d\n",
			stats.FilesSkipped, stats.CommitsSkipped, stats.DegradedParses); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "Analysis completed in %v with %d workers. Cache backend: %s\n",
		stats.Duration, stats.Workers, stats.CacheBackend); err != nil {
		return err
	}
	return nil
}
