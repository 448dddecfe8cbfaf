package iocache

import (
	"errors"
	"fmt"

	"github.com/huangsam/funcspot/internal/parquet"
)

// ExecuteAnalysisExport dumps the tracking store into two Parquet files,
// one for run metadata and one for per-function counts. The files are
// named by suffixing outputFile.
func ExecuteAnalysisExport(outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	store := Manager.GetAnalysisStore()

	// Bail out early when there is nothing to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get analysis status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no analysis data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total analysis runs: %d\n", status.TotalRuns)
	fmt.Printf("Total function count records: %d\n", status.TableSizes[functionCountsTable])

	analysisRuns, err := store.GetAllAnalysisRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve analysis runs: %w", err)
	}
	functionCounts, err := store.GetAllFunctionCounts()
	if err != nil {
		return fmt.Errorf("failed to retrieve function counts: %w", err)
	}

	parquetAnalysisRuns := parquet.ConvertAnalysisRunRecords(analysisRuns)
	parquetFunctionCounts := parquet.ConvertFunctionCountRecords(functionCounts)

	analysisRunsFile := outputFile + ".analysis_runs.parquet"
	if err := parquet.WriteAnalysisRunsParquet(parquetAnalysisRuns, analysisRunsFile); err != nil {
		return fmt.Errorf("failed to write analysis runs: %w", err)
	}
	fmt.Printf("Exported %d analysis runs to: %s\n", len(parquetAnalysisRuns), analysisRunsFile)

	functionCountsFile := outputFile + ".function_counts.parquet"
	if err := parquet.WriteFunctionCountsParquet(parquetFunctionCounts, functionCountsFile); err != nil {
		return fmt.Errorf("failed to write function counts: %w", err)
	}
	fmt.Printf("Exported %d function count records to: %s\n", len(parquetFunctionCounts), functionCountsFile)

	fmt.Println("\nExport complete. Load the files with DuckDB, pandas (pyarrow),")
	fmt.Println("Spark, or any other Parquet reader.")

	return nil
}
