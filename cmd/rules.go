package cmd

import (
	"github.com/huangsam/stylemetrics/core"
	"github.com/huangsam/stylemetrics/internal/contract"
	"github.com/huangsam/stylemetrics/internal/outwriter"
	"github.com/spf13/cobra"
)

// rulesCmd lists the registered pattern metrics and config probes.
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the pattern metrics and config probes",
	Long: `Show every metric and probe the extractor runs, with its counting mode and patterns.

No project is scanned - this is purely informational.

Examples:
  # Show the rules as a table
  stylemetrics rules

  # Dump them as YAML
  stylemetrics rules --output yaml`,
	Args:    cobra.NoArgs,
	PreRunE: outputSetup,
	Run: func(_ *cobra.Command, _ []string) {
		rules := core.NewEngine(cfg).Rules()
		if err := outwriter.NewOutWriter().WriteRules(rules, cfg); err != nil {
			contract.LogFatal("Cannot display rules", err)
		}
	},
}
