// Package parquet shapes funcspot's export surfaces into Parquet rows
// via github.com/parquet-go/parquet-go. Column schemas come from struct
// tag inference, and every column is snappy-compressed.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/funcspot/schema"
	"github.com/parquet-go/parquet-go"
)

// AnalysisRun is one exported row of the funcspot_analysis_runs table.
// Field order mirrors schema.AnalysisRunRecord so a plain struct
// conversion stays valid. Nullable columns are pointers.
type AnalysisRun struct {
	AnalysisID         int64      `parquet:"analysis_id,snappy"`
	StartTime          time.Time  `parquet:"start_time,snappy"`
	EndTime            *time.Time `parquet:"end_time,optional,snappy"`
	RunDurationMs      *int32     `parquet:"run_duration_ms,optional,snappy"`
	TotalFilesAnalyzed int32      `parquet:"total_files_analyzed,snappy"`
	ConfigParams       *string    `parquet:"config_params,optional,snappy"`
}

// FunctionCount is one exported row of the funcspot_function_counts
// table. Field order mirrors schema.FunctionCountRecord.
type FunctionCount struct {
	AnalysisID    int64     `parquet:"analysis_id,snappy"`
	FilePath      string    `parquet:"file_path,snappy"`
	QualifiedName string    `parquet:"qualified_name,snappy"`
	Language      string    `parquet:"language,snappy"`
	StartLine     int32     `parquet:"start_line,snappy"`
	ChangeCount   int32     `parquet:"change_count,snappy"`
	AnalysisTime  time.Time `parquet:"analysis_time,snappy"`
}

// FuncHotspot is one ranked row of the funcs command for Parquet output.
type FuncHotspot struct {
	Rank         int32  `parquet:"rank,snappy"`
	FilePath     string `parquet:"file_path,snappy"`
	StartLine    int32  `parquet:"start_line,snappy"`
	FunctionName string `parquet:"function_name,snappy"`
	Language     string `parquet:"language,snappy"`
	CommitCount  int32  `parquet:"commit_count,snappy"`
	HeatLabel    string `parquet:"heat_label,snappy"`
}

// FileActivity is one ranked row of the files command for Parquet output.
type FileActivity struct {
	Rank          int32  `parquet:"rank,snappy"`
	FilePath      string `parquet:"file_path,snappy"`
	FunctionCount int32  `parquet:"function_count,snappy"`
	TouchCount    int32  `parquet:"touch_count,snappy"`
	HeatLabel     string `parquet:"heat_label,snappy"`
}

// writeParquetFile writes rows to outputPath with a schema inferred from
// T's struct tags. An empty slice still produces a valid file carrying
// just the schema.
func writeParquetFile[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return nil
}

// WriteAnalysisRunsParquet writes run metadata rows to a Parquet file.
func WriteAnalysisRunsParquet(data []AnalysisRun, outputPath string) error {
	return writeParquetFile(data, outputPath)
}

// WriteFunctionCountsParquet writes per-function count rows to a Parquet file.
func WriteFunctionCountsParquet(data []FunctionCount, outputPath string) error {
	return writeParquetFile(data, outputPath)
}

// WriteFuncHotspotsParquet writes ranked function rows to a Parquet file.
func WriteFuncHotspotsParquet(data []FuncHotspot, outputPath string) error {
	return writeParquetFile(data, outputPath)
}

// WriteFileActivityParquet writes ranked file rows to a Parquet file.
func WriteFileActivityParquet(data []FileActivity, outputPath string) error {
	return writeParquetFile(data, outputPath)
}

// completedRun builds a finished sample run whose duration follows from
// its start and end times.
func completedRun(id int64, start, end time.Time, files int32, config string) AnalysisRun {
	durationMs := int32(end.Sub(start).Milliseconds())
	return AnalysisRun{
		AnalysisID:         id,
		StartTime:          start,
		EndTime:            &end,
		RunDurationMs:      &durationMs,
		TotalFilesAnalyzed: files,
		ConfigParams:       &config,
	}
}

// MockFetchAnalysisRuns generates sample AnalysisRun data for demonstration.
func MockFetchAnalysisRuns() []AnalysisRun {
	now := time.Now()
	return []AnalysisRun{
		completedRun(1, now.Add(-2*time.Hour), now.Add(-90*time.Minute), 150, `{"languages":"go,rust","workers":8,"total":50}`),
		completedRun(2, now.Add(-24*time.Hour), now.Add(-23*time.Hour), 75, `{"languages":"lua","workers":4,"total":100}`),
		// Still in flight, so the nullable columns stay nil
		{AnalysisID: 3, StartTime: now.Add(-10 * time.Minute)},
	}
}

// MockFetchFunctionCounts generates sample FunctionCount data for demonstration.
func MockFetchFunctionCounts() []FunctionCount {
	now := time.Now()
	return []FunctionCount{
		{
			AnalysisID:    1,
			FilePath:      "internal/server/server.go",
			QualifiedName: "(*Server) Serve",
			Language:      "go",
			StartLine:     142,
			ChangeCount:   42,
			AnalysisTime:  now.Add(-1 * time.Hour),
		},
		{
			AnalysisID:    1,
			FilePath:      "internal/server/handler.go",
			QualifiedName: "handleRequest",
			Language:      "go",
			StartLine:     28,
			ChangeCount:   18,
			AnalysisTime:  now.Add(-1 * time.Hour),
		},
		{
			AnalysisID:    2,
			FilePath:      "scripts/deploy.lua",
			QualifiedName: "rollout.apply",
			Language:      "lua",
			StartLine:     55,
			ChangeCount:   5,
			AnalysisTime:  now.Add(-23 * time.Hour),
		},
	}
}

// ConvertAnalysisRunRecords maps store records onto Parquet rows.
func ConvertAnalysisRunRecords(records []schema.AnalysisRunRecord) []AnalysisRun {
	result := make([]AnalysisRun, len(records))
	for i, record := range records {
		result[i] = AnalysisRun(record)
	}
	return result
}

// ConvertFunctionCountRecords maps store records onto Parquet rows.
func ConvertFunctionCountRecords(records []schema.FunctionCountRecord) []FunctionCount {
	result := make([]FunctionCount, len(records))
	for i, record := range records {
		result[i] = FunctionCount(record)
	}
	return result
}

// ConvertEnrichedFuncs maps ranked function results onto FuncHotspot rows.
func ConvertEnrichedFuncs(results []schema.EnrichedFuncResult) []FuncHotspot {
	rows := make([]FuncHotspot, len(results))
	for i, r := range results {
		rows[i] = FuncHotspot{
			Rank:         int32(r.Rank),
			FilePath:     r.Path,
			StartLine:    int32(r.Line),
			FunctionName: r.Name,
			Language:     string(r.Language),
			CommitCount:  int32(r.Commits),
			HeatLabel:    r.Heat,
		}
	}
	return rows
}

// ConvertEnrichedRollups maps ranked file rollups onto FileActivity rows.
func ConvertEnrichedRollups(results []schema.EnrichedFileRollup) []FileActivity {
	rows := make([]FileActivity, len(results))
	for i, r := range results {
		rows[i] = FileActivity{
			Rank:          int32(r.Rank),
			FilePath:      r.Path,
			FunctionCount: int32(r.Funcs),
			TouchCount:    int32(r.Touches),
			HeatLabel:     r.Heat,
		}
	}
	return rows
}
