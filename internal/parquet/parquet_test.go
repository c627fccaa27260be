package parquet

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/stylemetrics/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructTags(t *testing.T) {
	tests := []struct {
		name    string
		schema  *parquet.Schema
		columns []string
	}{
		{"metric row", parquet.SchemaOf(new(MetricRow)), []string{"path", "kind", "value"}},
		{"run", parquet.SchemaOf(new(Run)), []string{
			"run_id", "project_root", "source_dir", "start_time", "end_time",
			"run_duration_ms", "total_files", "fingerprint", "report",
		}},
		{"metric value", parquet.SchemaOf(new(MetricValue)), []string{"run_id", "path", "value_kind", "value"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, colName := range tt.columns {
				_, ok := tt.schema.Lookup(colName)
				assert.True(t, ok, "Column %s should exist in schema", colName)
			}
		})
	}
}

func TestWriteMetrics(t *testing.T) {
	values := []schema.FlatValue{
		{Path: "files.php_files", Kind: schema.KindInt, Value: "4"},
		{Path: "strict_types.coverage_percent", Kind: schema.KindPercent, Value: "25.00"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteMetrics(&buf, values))

	rows, err := parquet.Read[MetricRow](bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "strict_types.coverage_percent", rows[1].Path)
	assert.Equal(t, "25.00", rows[1].Value)
}

func TestWriteRunsParquet(t *testing.T) {
	end := time.Date(2024, 5, 1, 10, 0, 1, 0, time.UTC)
	duration := int32(1000)
	report := "files:\n  php_files: 1\n"
	records := []schema.RunRecord{
		{
			RunID:         1,
			ProjectRoot:   "/work/app",
			SourceDir:     "src",
			StartTime:     time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
			EndTime:       &end,
			RunDurationMs: &duration,
			TotalFiles:    1,
			Fingerprint:   "abc123",
			Report:        &report,
		},
		{RunID: 2, ProjectRoot: "/work/app", SourceDir: "src", StartTime: end, Fingerprint: "abc123"},
	}

	path := filepath.Join(t.TempDir(), "runs.parquet")
	require.NoError(t, WriteRunsParquet(ConvertRunRecords(records), path))

	rows, err := parquet.ReadFile[Run](path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(1), rows[0].RunID)
	require.NotNil(t, rows[0].RunDurationMs)
	assert.Equal(t, int32(1000), *rows[0].RunDurationMs)
	assert.Nil(t, rows[1].EndTime)
	assert.Nil(t, rows[1].Report)
}

func TestWriteMetricValuesParquet(t *testing.T) {
	records := []schema.MetricValueRecord{
		{RunID: 1, Path: "imports.files_with_use", ValueKind: schema.KindInt, Value: "3"},
	}
	path := filepath.Join(t.TempDir(), "values.parquet")
	require.NoError(t, WriteMetricValuesParquet(ConvertMetricValueRecords(records), path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	rows, err := parquet.ReadFile[MetricValue](path)
	require.NoError(t, err)
	assert.Equal(t, []MetricValue{{RunID: 1, Path: "imports.files_with_use", ValueKind: "int", Value: "3"}}, rows)
}

func TestWriteRunsParquetBadPath(t *testing.T) {
	err := WriteRunsParquet(nil, filepath.Join(t.TempDir(), "missing", "runs.parquet"))
	assert.Error(t, err)
}
