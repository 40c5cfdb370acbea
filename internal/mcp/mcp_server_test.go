package mcp_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/github-contributions/internal/domain"
	mcp_internal "github.com/naka-gawa/github-contributions/internal/mcp"
)

type stubAggregator struct {
	payload *domain.ContributionsPayload
	err     error
	gotYear *int
}

func (s *stubAggregator) Aggregate(_ context.Context, year *int) (*domain.ContributionsPayload, error) {
	s.gotYear = year
	return s.payload, s.err
}

type stubProfile struct {
	stats *domain.ProfileStats
	err   error
}

func (s *stubProfile) Profile(_ context.Context) (*domain.ProfileStats, error) {
	return s.stats, s.err
}

func callTool(t *testing.T, agg *stubAggregator, profile *stubProfile, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer("test", agg, profile)
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	return res
}

func TestGetContributions(t *testing.T) {
	t.Run("year argument is forwarded", func(t *testing.T) {
		agg := &stubAggregator{payload: &domain.ContributionsPayload{
			ContributionCalendar: domain.ContributionCalendar{TotalContributions: 42},
			StreakResult:         domain.StreakResult{CurrentStreak: 3, LongestStreak: 9},
		}}
		res := callTool(t, agg, &stubProfile{}, "get_contributions", map[string]any{"year": 2023.0})

		assert.False(t, res.IsError)
		require.NotNil(t, agg.gotYear)
		assert.Equal(t, 2023, *agg.gotYear)

		var body map[string]any
		require.NoError(t, json.Unmarshal([]byte(res.Content[0].(mcp.TextContent).Text), &body))
		assert.EqualValues(t, 42, body["totalContributions"])
		assert.EqualValues(t, 9, body["longestStreak"])
	})

	t.Run("no year means trailing window", func(t *testing.T) {
		agg := &stubAggregator{payload: &domain.ContributionsPayload{}}
		res := callTool(t, agg, &stubProfile{}, "get_contributions", map[string]any{})

		assert.False(t, res.IsError)
		assert.Nil(t, agg.gotYear)
	})

	t.Run("explicit zero year is forwarded", func(t *testing.T) {
		agg := &stubAggregator{payload: &domain.ContributionsPayload{}}
		res := callTool(t, agg, &stubProfile{}, "get_contributions", map[string]any{"year": 0.0})

		assert.False(t, res.IsError)
		require.NotNil(t, agg.gotYear)
		assert.Equal(t, 0, *agg.gotYear)
	})

	t.Run("aggregate failure is a tool error", func(t *testing.T) {
		agg := &stubAggregator{err: errors.New("GitHub transport failure")}
		res := callTool(t, agg, &stubProfile{}, "get_contributions", nil)

		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "GitHub transport failure")
	})
}

func TestGetProfileStats(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		profile := &stubProfile{stats: &domain.ProfileStats{TotalStars: 5, ContributionYears: []int{2024}}}
		res := callTool(t, &stubAggregator{}, profile, "get_profile_stats", nil)

		assert.False(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, `"totalStars": 5`)
	})

	t.Run("failure", func(t *testing.T) {
		res := callTool(t, &stubAggregator{}, &stubProfile{err: errors.New("rate limited")}, "get_profile_stats", nil)

		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "rate limited")
	})
}
