package cmd

import (
	"github.com/huangsam/stylemetrics/core"
	"github.com/huangsam/stylemetrics/internal/contract"
	"github.com/huangsam/stylemetrics/internal/iosink"
	"github.com/spf13/cobra"
)

// extractCmd runs every metric and probe against one project.
var extractCmd = &cobra.Command{
	Use:   "extract <project-root> [src-dir]",
	Short: "Extract coding-style metrics from a PHP project",
	Long: `Scan the source directory of a PHP project and report how it adopts modern conventions.

Reports:
- Source and test file totals
- declare(strict_types=1) adoption
- Short [] versus long array() syntax
- Typed properties and fully-qualified function calls
- use statements and files importing them
- PHPStan and PHP-CS-Fixer configuration

The YAML report is written to --report-file (metrics_output.yaml by default)
while stdout carries the chosen --output rendering.

Examples:
  # Scan ./src of the current project
  stylemetrics extract .

  # Scan a different source directory and print JSON
  stylemetrics extract /path/to/project lib --output json

  # Record the run and upload the report
  stylemetrics extract . --sink-backend sqlite --s3-endpoint localhost:9000 --s3-bucket reports`,
	Args:    cobra.RangeArgs(1, 2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		var uploader contract.ReportUploader
		if cfg.S3.Enabled() {
			s3, err := iosink.NewS3Uploader(cfg.S3)
			if err != nil {
				contract.LogFatal("Cannot configure report upload", err)
			}
			uploader = s3
		}
		if err := core.ExecuteExtract(rootCtx, cfg, sinkManager, uploader); err != nil {
			contract.LogFatal("Cannot extract metrics", err)
		}
	},
}
