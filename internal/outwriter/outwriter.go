// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/stylemetrics/internal/contract"
	"github.com/huangsam/stylemetrics/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteReport prints an extraction report using the configured output format.
func (ow *OutWriter) WriteReport(report schema.Report, cfg *contract.Config, duration time.Duration) error {
	return WriteReportResults(report, cfg, duration)
}

// WriteReportFile stores the YAML rendering of tree at path.
func (ow *OutWriter) WriteReportFile(path string, tree *schema.Tree) error {
	return writeReportFile(path, tree)
}

// WriteRules prints the registered metrics and probes using the configured output format.
func (ow *OutWriter) WriteRules(rules []schema.RuleInfo, cfg *contract.Config) error {
	return WriteRuleResults(rules, cfg)
}
