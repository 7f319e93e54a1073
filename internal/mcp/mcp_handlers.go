package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/huangsam/churnchart/core"
	"github.com/huangsam/churnchart/internal/contract"
	"github.com/huangsam/churnchart/internal/theme"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// requestConfig clones the base config and applies the common tool arguments.
func (h *toolHandler) requestConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if p := strings.TrimSpace(request.GetString("input", "")); p != "" {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("invalid input path %q: %w", p, err)
		}
		cfg.InputPath = abs
	}
	err := contract.RevalidateQuery(cfg,
		request.GetString("window", ""),
		request.GetString("end", ""),
		request.GetString("period", ""))
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func jsonResult(v any) *mcp.CallToolResult {
	jsonData, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(jsonData))
}

func (h *toolHandler) handleGetDailyBuckets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	result, _, err := core.GetBucketsResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("aggregation failed: %v", err)), nil
	}
	return jsonResult(result), nil
}

func (h *toolHandler) handleGetTrends(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if strings.TrimSpace(request.GetString("period", "")) == "" {
		return mcp.NewToolResultError("period is required"), nil
	}
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if m := request.GetString("metrics", ""); m != "" {
		cfg.TrendMetrics = nil
		for name := range strings.SplitSeq(m, ",") {
			if trimmed := strings.TrimSpace(name); trimmed != "" {
				cfg.TrendMetrics = append(cfg.TrendMetrics, strings.ToLower(trimmed))
			}
		}
	}

	result, _, err := core.GetTrendResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("trend comparison failed: %v", err)), nil
	}
	return jsonResult(result), nil
}

func (h *toolHandler) handleGetCandles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	result, _, err := core.GetChartResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("projection failed: %v", err)), nil
	}
	return jsonResult(result), nil
}

// bucketAtResponse is the payload of the bucket_at tool.
type bucketAtResponse struct {
	Width   int  `json:"width"`
	Height  int  `json:"height"`
	Found   bool `json:"found"`
	Tooltip any  `json:"tooltip"`
}

func (h *toolHandler) handleBucketAt(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	x, err := request.RequireFloat("x")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	y, err := request.RequireFloat("y")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	result, _, err := core.GetChartResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("projection failed: %v", err)), nil
	}

	view := core.NewChartView(cfg, theme.Default)
	view.SetSeries(result.Series)
	width, height := view.Size()

	resp := bucketAtResponse{Width: width, Height: height}
	if tip := view.BucketAt(x, y); tip != nil {
		resp.Found = true
		resp.Tooltip = tip
	}
	return jsonResult(resp), nil
}
