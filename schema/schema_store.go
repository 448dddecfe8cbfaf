package schema

import "time"

// AnalysisRunRecord represents a row from the funcspot_analysis_runs table.
type AnalysisRunRecord struct {
	AnalysisID         int64
	StartTime          time.Time
	EndTime            *time.Time
	RunDurationMs      *int32
	TotalFilesAnalyzed int32
	ConfigParams       *string
}

// FunctionCountRecord represents a row from the funcspot_function_counts table.
type FunctionCountRecord struct {
	AnalysisID    int64
	FilePath      string
	QualifiedName string
	Language      string
	StartLine     int32
	ChangeCount   int32
	AnalysisTime  time.Time
}
