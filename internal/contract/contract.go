// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/huangsam/stylemetrics/schema"
)

// RunStore defines the write side of the run sink plus the reads needed
// by the runs subcommands. The engine itself never reads from it.
type RunStore interface {
	// RecordRun stores a finished report and returns the new run ID.
	RecordRun(run schema.RunRecord, values []schema.FlatValue) (int64, error)

	// GetStatus returns status information about the run store.
	GetStatus() (schema.SinkStatus, error)

	// GetAllRuns returns every stored run ordered by ID.
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllMetricValues returns every stored metric value ordered by run and path.
	GetAllMetricValues() ([]schema.MetricValueRecord, error)

	// Close releases the underlying connection.
	Close() error
}

// SinkManager defines the interface for reaching the configured run store.
// This allows the sink layer to be mocked for testing.
type SinkManager interface {
	GetRunStore() RunStore
}

// ReportUploader publishes a serialized report to object storage.
type ReportUploader interface {
	Upload(ctx context.Context, key string, content []byte) error
}
