package schema

import "time"

// RunRecord represents a row from the stylemetrics_runs table.
type RunRecord struct {
	RunID         int64
	ProjectRoot   string
	SourceDir     string
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	TotalFiles    int32
	Fingerprint   string
	Report        *string
}

// MetricValueRecord represents a row from the stylemetrics_metric_values table.
// Every leaf of a result tree becomes one row keyed by its dotted path.
type MetricValueRecord struct {
	RunID     int64
	Path      string
	ValueKind string
	Value     string
}

// RuleInfo describes a registered pattern metric or config probe for listing.
type RuleInfo struct {
	Kind        string   `json:"kind"`
	ID          string   `json:"id"`
	Mode        string   `json:"mode"`
	Description string   `json:"description"`
	Patterns    []string `json:"patterns"`
}
