package iosink

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/stylemetrics/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRun(start time.Time) (schema.RunRecord, []schema.FlatValue) {
	end := start.Add(1500 * time.Millisecond)
	duration := int32(1500)
	report := "files:\n  php_files: 4\n"
	run := schema.RunRecord{
		ProjectRoot:   "/work/app",
		SourceDir:     "src",
		StartTime:     start,
		EndTime:       &end,
		RunDurationMs: &duration,
		TotalFiles:    4,
		Fingerprint:   "0123456789abcdef",
		Report:        &report,
	}
	values := []schema.FlatValue{
		{Path: "files.php_files", Kind: schema.KindInt, Value: "4"},
		{Path: "strict_types.coverage_percent", Kind: schema.KindPercent, Value: "25.00"},
		{Path: "phpstan.found", Kind: schema.KindBool, Value: "false"},
	}
	return run, values
}

func TestRunStore_NoneBackend(t *testing.T) {
	store, err := NewRunStore(schema.NoneBackend, "")
	require.NoError(t, err)

	run, values := sampleRun(time.Now())
	id, err := store.RecordRun(run, values)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), id)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)

	runs, err := store.GetAllRuns()
	assert.NoError(t, err)
	assert.Empty(t, runs)
	assert.NoError(t, store.Close())
}

func TestRunStore_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	store, err := NewRunStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	run, values := sampleRun(start)

	firstID, err := store.RecordRun(run, values)
	require.NoError(t, err)
	assert.Greater(t, firstID, int64(0))

	run.StartTime = start.Add(time.Hour)
	run.EndTime = nil
	run.RunDurationMs = nil
	secondID, err := store.RecordRun(run, values[:1])
	require.NoError(t, err)
	assert.Greater(t, secondID, firstID)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	assert.True(t, status.Connected)
	assert.Equal(t, 2, status.TotalRuns)
	assert.Equal(t, secondID, status.LastRunID)
	assert.True(t, status.OldestRunTime.Equal(start))
	assert.True(t, status.LastRunTime.Equal(start.Add(time.Hour)))
	assert.Equal(t, 4, status.TotalValues)
	assert.Equal(t, int64(2), status.TableSizes[runsTable])

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, firstID, runs[0].RunID)
	require.NotNil(t, runs[0].EndTime)
	assert.True(t, runs[0].EndTime.Equal(start.Add(1500*time.Millisecond)))
	require.NotNil(t, runs[0].RunDurationMs)
	assert.Equal(t, int32(1500), *runs[0].RunDurationMs)
	require.NotNil(t, runs[0].Report)
	assert.Contains(t, *runs[0].Report, "php_files")
	assert.Nil(t, runs[1].EndTime)
	assert.Nil(t, runs[1].RunDurationMs)

	stored, err := store.GetAllMetricValues()
	require.NoError(t, err)
	require.Len(t, stored, 4)
	// ordered by run, then path
	assert.Equal(t, "files.php_files", stored[0].Path)
	assert.Equal(t, "phpstan.found", stored[1].Path)
	assert.Equal(t, schema.KindBool, stored[1].ValueKind)
	assert.Equal(t, secondID, stored[3].RunID)
}

func TestRunStore_DuplicatePathRollsBack(t *testing.T) {
	store, err := NewRunStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	run, values := sampleRun(time.Now())
	values = append(values, values[0])

	_, err = store.RecordRun(run, values)
	require.Error(t, err)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 0, status.TotalRuns)
	assert.Equal(t, 0, status.TotalValues)
}

func TestNewRunStore_UnsupportedBackend(t *testing.T) {
	_, err := NewRunStore(schema.DatabaseBackend("oracle"), "")
	assert.Error(t, err)
}

func TestQuoteTableName(t *testing.T) {
	tests := []struct {
		backend  schema.DatabaseBackend
		expected string
	}{
		{schema.SQLiteBackend, `"stylemetrics_runs"`},
		{schema.PostgreSQLBackend, `"stylemetrics_runs"`},
		{schema.MySQLBackend, "`stylemetrics_runs`"},
	}
	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			assert.Equal(t, tt.expected, quoteTableName(runsTable, tt.backend))
		})
	}
}

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "stylemetrics_runs", false},
		{"leading underscore", "_runs", false},
		{"empty", "", true},
		{"leading digit", "1runs", true},
		{"injection", "runs; DROP TABLE x", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTableName(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseTime(t *testing.T) {
	want := time.Date(2024, 1, 2, 3, 4, 5, 600000000, time.UTC)
	tests := []struct {
		name string
		raw  any
	}{
		{"native", want},
		{"rfc3339 string", "2024-01-02T03:04:05.6Z"},
		{"mysql bytes", []byte("2024-01-02 03:04:05.600000")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTime(tt.raw)
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "got %v", got)
		})
	}

	_, err := parseTime(42)
	assert.Error(t, err)
}
