package schema

import "time"

// SinkStatus represents the status of the run sink.
type SinkStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     int64            `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TotalValues   int              `json:"total_values"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}
