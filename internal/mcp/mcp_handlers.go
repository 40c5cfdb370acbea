package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	aggregator ContributionsAggregator
	profile    ProfileReader
}

func (h *toolHandler) handleGetContributions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var year *int
	if _, ok := request.GetArguments()["year"]; ok {
		y := request.GetInt("year", 0)
		year = &y
	}

	payload, err := h.aggregator.Aggregate(ctx, year)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to fetch contributions: %v", err)), nil
	}
	return jsonResult(payload)
}

func (h *toolHandler) handleGetProfileStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := h.profile.Profile(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to fetch profile stats: %v", err)), nil
	}
	return jsonResult(stats)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tool result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
