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

// PrintRollupResults outputs the per-file activity rollups in the
// configured format.
func PrintRollupResults(rollups []schema.FileRollup, stats *schema.RunStats, cfg *contract.Config) error {
	enriched := schema.EnrichRollups(rollups)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeRollupJSONResults(enriched, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeRollupCSVResults(enriched, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeRollupParquetResults(enriched, cfg); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRollupTable(enriched, stats, cfg, w)
		}, "Wrote table")
	}
	return nil
}

func writeRollupJSONResults(enriched []schema.EnrichedFileRollup, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, enriched)
	}, "Wrote JSON")
}

func writeRollupCSVResults(enriched []schema.EnrichedFileRollup, cfg *contract.Config) error {
	header := []string{"rank", "file", "functions", "touches", "heat"}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			for _, r := range enriched {
				rec := []string{
					strconv.Itoa(r.Rank),
					r.Path,
					strconv.Itoa(r.Funcs),
					strconv.Itoa(r.Touches),
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

func writeRollupParquetResults(enriched []schema.EnrichedFileRollup, cfg *contract.Config) error {
	return writeParquetFileOrErr(parquet.ConvertEnrichedRollups(enriched), cfg.OutputFile, parquet.WriteFileActivityParquet)
}

func writeRollupTable(enriched []schema.EnrichedFileRollup, stats *schema.RunStats, cfg *contract.Config, writer io.Writer) error {
	table := newRankTable(writer, []string{"Rank", "File", "Functions", "Touches", "Heat"})

	var data [][]string
	for _, r := range enriched {
		data = append(data, []string{
			strconv.Itoa(r.Rank),
			contract.TruncatePath(r.Path, getMaxRollupPathWidth(cfg)),
			strconv.Itoa(r.Funcs),
			strconv.Itoa(r.Touches),
			heatCell(r.Heat, cfg),
		})
	}

	if err := renderRankTable(table, data); err != nil {
		return err
	}
	return writeRunStatsFooter(writer, len(enriched), "files", stats)
}

// getMaxRollupPathWidth gives paths the function column's budget back,
// since the rollup table has no function column.
func getMaxRollupPathWidth(cfg *contract.Config) int {
	available := resolveTermWidth(cfg) - 43 // Rank + Functions + Touches + Heat + borders
	if available < 15 {
		return 15
	}
	if available > 70 {
		return 70
	}
	return available
}
