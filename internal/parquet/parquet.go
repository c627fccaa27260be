// Package parquet provides data structures and functions for exporting
// style metrics to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/stylemetrics/schema"
	"github.com/parquet-go/parquet-go"
)

// MetricRow is one leaf of a single result tree.
type MetricRow struct {
	// Path is the dotted key of the leaf, e.g. strict_types.coverage_percent
	Path string `parquet:"path,snappy"`

	// Kind is int, percent, float, string or bool
	Kind string `parquet:"kind,snappy"`

	Value string `parquet:"value,snappy"`
}

// Run represents a stored extraction run.
// This struct maps to the stylemetrics_runs database table.
type Run struct {
	RunID       int64  `parquet:"run_id,snappy"`
	ProjectRoot string `parquet:"project_root,snappy"`
	SourceDir   string `parquet:"source_dir,snappy"`

	// StartTime is stored as TIMESTAMP with nanosecond precision
	StartTime time.Time  `parquet:"start_time,snappy"`
	EndTime   *time.Time `parquet:"end_time,optional,snappy"`

	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`
	TotalFiles    int32  `parquet:"total_files,snappy"`

	// Fingerprint identifies identical reports across runs
	Fingerprint string  `parquet:"fingerprint,snappy"`
	Report      *string `parquet:"report,optional,snappy"`
}

// MetricValue is one leaf of a stored run.
// This struct maps to the stylemetrics_metric_values database table.
type MetricValue struct {
	RunID     int64  `parquet:"run_id,snappy"`
	Path      string `parquet:"path,snappy"`
	ValueKind string `parquet:"value_kind,snappy"`
	Value     string `parquet:"value,snappy"`
}

// writeRows writes rows with a schema inferred from the struct tags of T.
func writeRows[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// writeRowsFile writes rows into a newly created file at outputPath.
func writeRowsFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := writeRows(file, rows); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteMetrics writes the flattened leaves of one result tree.
func WriteMetrics(w io.Writer, values []schema.FlatValue) error {
	rows := make([]MetricRow, len(values))
	for i, v := range values {
		rows[i] = MetricRow{Path: v.Path, Kind: v.Kind, Value: v.Value}
	}
	return writeRows(w, rows)
}

// WriteRunsParquet writes stored runs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeRowsFile(data, outputPath)
}

// WriteMetricValuesParquet writes stored metric values to a Parquet file.
func WriteMetricValuesParquet(data []MetricValue, outputPath string) error {
	return writeRowsFile(data, outputPath)
}

// ConvertRunRecords converts store records into Parquet rows.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, r := range records {
		result[i] = Run{
			RunID:         r.RunID,
			ProjectRoot:   r.ProjectRoot,
			SourceDir:     r.SourceDir,
			StartTime:     r.StartTime,
			EndTime:       r.EndTime,
			RunDurationMs: r.RunDurationMs,
			TotalFiles:    r.TotalFiles,
			Fingerprint:   r.Fingerprint,
			Report:        r.Report,
		}
	}
	return result
}

// ConvertMetricValueRecords converts store records into Parquet rows.
func ConvertMetricValueRecords(records []schema.MetricValueRecord) []MetricValue {
	result := make([]MetricValue, len(records))
	for i, r := range records {
		result[i] = MetricValue(r)
	}
	return result
}
