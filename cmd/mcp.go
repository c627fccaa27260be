package cmd

import (
	"fmt"

	"github.com/huangsam/stylemetrics/internal/iosink"
	"github.com/huangsam/stylemetrics/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the stylemetrics MCP server",
	Long:  `Launch an MCP server that allows AI agents to extract style metrics via standard tools.`,
	Args:  cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// The project arrives per tool call, so only output and sink settings are resolved here.
		if err := outputSetup(cmd, args); err != nil {
			return err
		}
		if err := resolveSinkConfig(); err != nil {
			return err
		}
		if err := iosink.InitSink(cfg.SinkBackend, cfg.SinkDBConnect); err != nil {
			return fmt.Errorf("failed to initialize run sink: %w", err)
		}
		return nil
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, sinkManager)
	},
}
