// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/churnchart/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the churnchart MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"churnchart Activity Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}
	windows := mcp.Enum("7d", "30d", "90d", "1y", "all")

	// --- 1. Tool: get_daily_buckets ---
	s.AddTool(mcp.NewTool("get_daily_buckets",
		mcp.WithDescription("Aggregate contribution activity into daily buckets (gap-filled for bounded windows)."),
		mcp.WithString("input", mcp.Description("Path to a .json, .csv or .parquet activity file. Defaults to the configured input.")),
		mcp.WithString("window", mcp.Description("Time window ending at 'end'. Defaults to the configured window."), windows),
		mcp.WithString("end", mcp.Description("End of the window (ISO8601, YYYY-MM-DD or 'N units ago'). Defaults to now.")),
	), h.handleGetDailyBuckets)

	// --- 2. Tool: get_trends ---
	s.AddTool(mcp.NewTool("get_trends",
		mcp.WithDescription("Compare the period ending at 'end' with the period right before it."),
		mcp.WithString("input", mcp.Description("Path to an activity file.")),
		mcp.WithString("period", mcp.Description("Length of each compared period (e.g. '7 days', '2 weeks')."), mcp.Required()),
		mcp.WithString("metrics", mcp.Description("Comma-separated metric names (count, pull_requests, issues, commits, additions, deletions, files_changed, unique_authors, stars, forks).")),
		mcp.WithString("end", mcp.Description("End of the current period.")),
	), h.handleGetTrends)

	// --- 3. Tool: get_candles ---
	s.AddTool(mcp.NewTool("get_candles",
		mcp.WithDescription("Project the gap-filled daily series into candlesticks with dominance classes."),
		mcp.WithString("input", mcp.Description("Path to an activity file.")),
		mcp.WithString("window", mcp.Description("Time window ending at 'end'."), windows),
		mcp.WithString("end", mcp.Description("End of the window.")),
	), h.handleGetCandles)

	// --- 4. Tool: bucket_at ---
	s.AddTool(mcp.NewTool("bucket_at",
		mcp.WithDescription("Return the daily bucket under a cursor position on the rendered chart surface."),
		mcp.WithNumber("x", mcp.Description("Cursor x in surface pixels."), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("Cursor y in surface pixels."), mcp.Required()),
		mcp.WithString("input", mcp.Description("Path to an activity file.")),
		mcp.WithString("window", mcp.Description("Time window ending at 'end'."), windows),
		mcp.WithString("end", mcp.Description("End of the window.")),
	), h.handleBucketAt)

	return s
}

// StartMCPServer starts the churnchart MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
