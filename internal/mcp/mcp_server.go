// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/stylemetrics/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the style metrics MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.SinkManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Style Metrics Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	s.AddTool(mcp.NewTool("extract_metrics",
		mcp.WithDescription("Extract coding-style metrics (strict types, array syntax, type system, imports, PHPStan and PHP-CS-Fixer settings) from a PHP project."),
		mcp.WithString("project_root", mcp.Description("Path to the project root."), mcp.Required()),
		mcp.WithString("src_dir", mcp.Description("Source directory relative to the project root. Defaults to 'src'.")),
		mcp.WithString("format", mcp.Description("Result format. Defaults to 'json'."), mcp.Enum("json", "yaml")),
	), h.handleExtractMetrics)

	s.AddTool(mcp.NewTool("list_rules",
		mcp.WithDescription("List the pattern metrics and config probes applied during extraction."),
	), h.handleListRules)

	return s
}

// StartMCPServer starts the style metrics MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.SinkManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
