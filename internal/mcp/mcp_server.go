// Package mcp exposes the contributions use cases as Model Context Protocol tools.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/naka-gawa/github-contributions/internal/domain"
)

// ContributionsAggregator produces the contributions payload for a year.
type ContributionsAggregator interface {
	Aggregate(ctx context.Context, year *int) (*domain.ContributionsPayload, error)
}

// ProfileReader produces the account-level statistics.
type ProfileReader interface {
	Profile(ctx context.Context) (*domain.ProfileStats, error)
}

// NewMCPServer initializes and configures the MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(version string, aggregator ContributionsAggregator, profile ProfileReader) *server.MCPServer {
	s := server.NewMCPServer(
		"GitHub Contributions Server",
		version,
		server.WithLogging(),
	)

	h := &toolHandler{aggregator: aggregator, profile: profile}

	s.AddTool(mcp.NewTool("get_contributions",
		mcp.WithDescription("Fetch the GitHub contribution calendar with current and longest streaks, top repositories and recent commit activity."),
		mcp.WithNumber("year", mcp.Description("Calendar year to report. Omit for the trailing twelve months.")),
	), h.handleGetContributions)

	s.AddTool(mcp.NewTool("get_profile_stats",
		mcp.WithDescription("Fetch total stars, public repositories, followers and the years with contributions."),
	), h.handleGetProfileStats)

	return s
}

// StartMCPServer serves the tools over stdio until the client disconnects.
func StartMCPServer(_ context.Context, version string, aggregator ContributionsAggregator, profile ProfileReader) error {
	return server.ServeStdio(NewMCPServer(version, aggregator, profile))
}
