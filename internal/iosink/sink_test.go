package iosink

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/stylemetrics/internal/contract"
	"github.com/huangsam/stylemetrics/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClearRuns_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	store, err := NewRunStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	require.NoError(t, ClearRuns(schema.SQLiteBackend, dbPath, ""))
	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err))

	// clearing twice is fine
	assert.NoError(t, ClearRuns(schema.SQLiteBackend, dbPath, ""))
}

func TestClearRuns_Other(t *testing.T) {
	assert.NoError(t, ClearRuns(schema.NoneBackend, "", ""))
	assert.Error(t, ClearRuns(schema.DatabaseBackend("oracle"), "", ""))
}

func TestMigrateRuns_NoneBackend(t *testing.T) {
	_, err := MigrateRuns(schema.NoneBackend, "", -1)
	assert.ErrorContains(t, err, "migrations are not supported for NoneBackend")
}

func TestMigrateRuns_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate.db")

	msg, err := MigrateRuns(schema.SQLiteBackend, dbPath, -1)
	require.NoError(t, err)
	assert.Contains(t, msg, "to version 2")

	msg, err = MigrateRuns(schema.SQLiteBackend, dbPath, -1)
	require.NoError(t, err)
	assert.Contains(t, msg, "No migration needed")

	// the migrated schema is what the store writes to
	store, err := NewRunStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	run, values := sampleRun(time.Now())
	_, err = store.RecordRun(run, values)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	msg, err = MigrateRuns(schema.SQLiteBackend, dbPath, 1)
	require.NoError(t, err)
	assert.Contains(t, msg, "to version 1")

	_, err = MigrateRuns(schema.SQLiteBackend, dbPath, 0)
	require.NoError(t, err)
}

func TestExportRuns(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	store, err := NewRunStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	out := filepath.Join(t.TempDir(), "export")
	assert.ErrorContains(t, ExportRuns(store, out, &bytes.Buffer{}), "no runs found")

	run, values := sampleRun(time.Now())
	_, err = store.RecordRun(run, values)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, ExportRuns(store, out, &buf))
	assert.Contains(t, buf.String(), "Exported 1 runs")
	assert.Contains(t, buf.String(), "Exported 3 metric values")

	for _, suffix := range []string{".runs.parquet", ".metric_values.parquet"} {
		_, err := os.Stat(out + suffix)
		assert.NoError(t, err, suffix)
	}
}

func TestExportRuns_Validation(t *testing.T) {
	assert.ErrorContains(t, ExportRuns(&MockRunStore{}, "", &bytes.Buffer{}), "--output-file")
	assert.ErrorContains(t, ExportRuns(nil, "out", &bytes.Buffer{}), "disabled")

	store := &MockRunStore{}
	store.On("GetStatus").Return(schema.SinkStatus{}, errors.New("boom"))
	assert.ErrorContains(t, ExportRuns(store, "out", &bytes.Buffer{}), "boom")
	store.AssertExpectations(t)
}

func TestPrintSinkStatus(t *testing.T) {
	var buf bytes.Buffer
	PrintSinkStatus(&buf, schema.SinkStatus{Backend: "none"})
	assert.Equal(t, "Sink Backend: none\nConnected: false\n", buf.String())

	buf.Reset()
	PrintSinkStatus(&buf, schema.SinkStatus{
		Backend:     "sqlite",
		Connected:   true,
		TotalRuns:   1,
		LastRunID:   7,
		LastRunTime: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		TableSizes:  map[string]int64{metricValuesTable: 12, runsTable: 1},
	})
	assert.Contains(t, buf.String(), "Last Run ID: 7")
	assert.Contains(t, buf.String(), "Table Sizes:\n  stylemetrics_metric_values: 12 rows\n  stylemetrics_runs: 1 rows\n")
}

func TestNewS3Uploader_Validation(t *testing.T) {
	_, err := NewS3Uploader(contractS3("", "bucket", "a", "s"))
	assert.Error(t, err)
	_, err = NewS3Uploader(contractS3("localhost:9000", "bucket", "", ""))
	assert.Error(t, err)

	u, err := NewS3Uploader(contractS3("localhost:9000", "bucket", "a", "s"))
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", u.region)
	assert.ErrorContains(t, u.Upload(t.Context(), " / ", []byte("x")), "object key is required")
}

func contractS3(endpoint, bucket, access, secret string) contract.S3Config {
	return contract.S3Config{Endpoint: endpoint, Bucket: bucket, AccessKey: access, SecretKey: secret}
}
