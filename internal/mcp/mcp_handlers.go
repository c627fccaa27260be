package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/huangsam/stylemetrics/core"
	"github.com/huangsam/stylemetrics/internal/contract"
	"github.com/huangsam/stylemetrics/internal/outwriter"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.SinkManager
}

func (h *toolHandler) handleExtractMetrics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root := request.GetString("project_root", "")
	if root == "" {
		return mcp.NewToolResultError("project_root is required"), nil
	}

	cfg := h.baseCfg.Clone()
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid project_root: %v", err)), nil
	}
	cfg.RootPath = absRoot
	if src := request.GetString("src_dir", ""); src != "" {
		cfg.SourceDir = src
	}
	if cfg.SourceDir == "" {
		cfg.SourceDir = contract.DefaultSourceDir
	}
	if cfg.TestDir == "" {
		cfg.TestDir = contract.DefaultTestDir
	}

	start := time.Now()
	report, stats, err := core.Extract(core.WithSuppressHeader(ctx), cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("extraction failed: %v", err)), nil
	}
	core.RecordRun(cfg, h.mgr, report, stats, start, time.Now())

	if request.GetString("format", "json") == "yaml" {
		content, err := outwriter.MarshalYAML(report.Tree)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encoding failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(content)), nil
	}

	jsonData, _ := json.MarshalIndent(report.Tree, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListRules(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rules := core.NewEngine(h.baseCfg).Rules()
	jsonData, _ := json.MarshalIndent(rules, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
