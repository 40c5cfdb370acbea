package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/naka-gawa/github-contributions/internal/domain"
	"github.com/naka-gawa/github-contributions/internal/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockFetcher is a mock implementation of the gateway.Fetcher interface.
// It allows us to simulate the behavior of the GitHub gateway without making real API calls.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchContributions(ctx context.Context, login string, window domain.DateRange) (*domain.ContributionsCollection, error) {
	args := m.Called(ctx, login, window)
	// The returned value is nil when an error is simulated.
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContributionsCollection), args.Error(1)
}

func (m *mockFetcher) FetchRecentCommits(ctx context.Context, login string) ([]domain.RecentRepository, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecentRepository), args.Error(1)
}

func (m *mockFetcher) FetchContributionYears(ctx context.Context, login string) ([]int, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func (m *mockFetcher) FetchProfile(ctx context.Context, login string) (*domain.Profile, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *mockFetcher) FetchOwnedRepositories(ctx context.Context, login string) ([]domain.OwnedRepository, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OwnedRepository), args.Error(1)
}

var fixedNow = time.Date(2024, time.June, 5, 12, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// calendarFrom builds a single-week calendar starting Sunday 2024-06-02.
func calendarFrom(counts ...int) domain.ContributionCalendar {
	start := domain.NewDate(2024, time.June, 2)
	week := domain.ContributionWeek{}
	total := 0
	for i, c := range counts {
		week.ContributionDays = append(week.ContributionDays, domain.ContributionDay{Date: start.AddDays(i), ContributionCount: c})
		total += c
	}
	return domain.ContributionCalendar{TotalContributions: total, Weeks: []domain.ContributionWeek{week}}
}

// TestAggregator_Aggregate uses a table-driven approach to test the aggregator.
func TestAggregator_Aggregate(t *testing.T) {
	transportContrib := &gateway.UpstreamError{Operation: "contributions", Kind: gateway.KindTransport, StatusCode: http.StatusUnauthorized, Body: `{"message":"Bad credentials"}`}
	transportCommits := &gateway.UpstreamError{Operation: "recent commits", Kind: gateway.KindTransport, StatusCode: http.StatusBadGateway, Body: "bad gateway"}
	protocolCommits := &gateway.UpstreamError{Operation: "recent commits", Kind: gateway.KindProtocol, StatusCode: http.StatusOK, Errors: []gateway.GraphQLError{{Message: "boom"}}}
	protocolContrib := &gateway.UpstreamError{Operation: "contributions", Kind: gateway.KindProtocol, StatusCode: http.StatusOK, Errors: []gateway.GraphQLError{{Message: "first"}}}
	netErr := errors.New("dial tcp 140.82.112.6:443: connect: connection refused")
	stars := "stars"

	testCases := []struct {
		name             string
		mockCollection   *domain.ContributionsCollection
		mockRecent       []domain.RecentRepository
		mockContribErr   error
		mockCommitsErr   error
		expectedPayload  *domain.ContributionsPayload
		expectedAggErr   *AggregateError
		expectUnexpected error
	}{
		{
			name: "happy path - merges calendar, streaks, repos and filtered commits",
			mockCollection: &domain.ContributionsCollection{
				Calendar:                  calendarFrom(1, 0, 2, 3),
				TopRepositories:           []domain.RepositorySummary{{Name: "top", Description: &stars, StarCount: 9}},
				RepositoriesContributedTo: 4,
			},
			mockRecent: []domain.RecentRepository{
				{Name: "busy", URL: "https://github.com/octo/busy", HistoryCount: 120},
				{Name: "empty", URL: "https://github.com/octo/empty", HistoryCount: 0},
				{Name: "quiet", URL: "https://github.com/octo/quiet", HistoryCount: 1},
			},
			expectedPayload: &domain.ContributionsPayload{
				ContributionCalendar: calendarFrom(1, 0, 2, 3),
				StreakResult:         domain.StreakResult{CurrentStreak: 2, LongestStreak: 2},
				TopRepositories:      []domain.RepositorySummary{{Name: "top", Description: &stars, StarCount: 9}},
				RecentCommits: []domain.CommitActivitySummary{
					{RepositoryName: "busy", RepositoryURL: "https://github.com/octo/busy", CommitCount: 120},
					{RepositoryName: "quiet", RepositoryURL: "https://github.com/octo/quiet", CommitCount: 1},
				},
				RepositoriesContributedTo: 4,
			},
		},
		{
			name:           "empty case - no days and no repositories",
			mockCollection: &domain.ContributionsCollection{},
			mockRecent:     []domain.RecentRepository{},
			expectedPayload: &domain.ContributionsPayload{
				ContributionCalendar: domain.ContributionCalendar{Weeks: []domain.ContributionWeek{}},
				TopRepositories:      []domain.RepositorySummary{},
				RecentCommits:        []domain.CommitActivitySummary{},
			},
		},
		{
			name:           "error case - contributions transport failure",
			mockContribErr: transportContrib,
			mockRecent:     []domain.RecentRepository{{Name: "busy", HistoryCount: 3}},
			expectedAggErr: &AggregateError{Kind: gateway.KindTransport, Contributions: transportContrib},
		},
		{
			name:           "error case - both transport failures",
			mockContribErr: transportContrib,
			mockCommitsErr: transportCommits,
			expectedAggErr: &AggregateError{Kind: gateway.KindTransport, Contributions: transportContrib, Commits: transportCommits},
		},
		{
			name:           "error case - transport wins over protocol",
			mockContribErr: protocolContrib,
			mockCommitsErr: transportCommits,
			expectedAggErr: &AggregateError{Kind: gateway.KindTransport, Commits: transportCommits},
		},
		{
			name:           "error case - commits protocol failure",
			mockCollection: &domain.ContributionsCollection{Calendar: calendarFrom(1)},
			mockCommitsErr: protocolCommits,
			expectedAggErr: &AggregateError{Kind: gateway.KindProtocol, Commits: protocolCommits},
		},
		{
			name:             "error case - malformed response is unexpected",
			mockContribErr:   gateway.ErrMalformedResponse,
			mockRecent:       []domain.RecentRepository{},
			expectUnexpected: gateway.ErrMalformedResponse,
		},
		{
			name:             "error case - network failure wins over transport",
			mockContribErr:   netErr,
			mockCommitsErr:   transportCommits,
			expectUnexpected: netErr,
		},
		{
			name:             "error case - malformed body wins over protocol",
			mockContribErr:   protocolContrib,
			mockCommitsErr:   fmt.Errorf("%w: recent commits: unexpected EOF", gateway.ErrMalformedResponse),
			expectUnexpected: gateway.ErrMalformedResponse,
		},
	}

	// Iterate over the test cases
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange: Set up the test for this specific case ---
			ctx := context.Background()
			fetcher := new(mockFetcher)
			window := domain.ResolveDateRange(nil, fixedNow)

			fetcher.On("FetchContributions", mock.Anything, "octo", window).Return(tc.mockCollection, tc.mockContribErr)
			fetcher.On("FetchRecentCommits", mock.Anything, "octo").Return(tc.mockRecent, tc.mockCommitsErr)

			aggregator := NewAggregator(fetcher, "octo", discardLogger(), WithClock(func() time.Time { return fixedNow }))

			// --- Act: Execute the method we want to test ---
			payload, err := aggregator.Aggregate(ctx, nil)

			// --- Assert: Check the results ---
			switch {
			case tc.expectedAggErr != nil:
				var aggErr *AggregateError
				require.ErrorAs(t, err, &aggErr)
				assert.Equal(t, tc.expectedAggErr, aggErr)
				assert.Nil(t, payload)
			case tc.expectUnexpected != nil:
				require.Error(t, err)
				var aggErr *AggregateError
				assert.False(t, errors.As(err, &aggErr), "a failed call must not be reported as a null upstream body")
				assert.ErrorIs(t, err, tc.expectUnexpected)
				assert.Nil(t, payload)
			default:
				require.NoError(t, err)
				assert.Equal(t, tc.expectedPayload, payload)
			}

			// Both calls must have been issued even when one fails.
			fetcher.AssertExpectations(t)
		})
	}
}

func TestAggregator_Aggregate_YearSelectsWindow(t *testing.T) {
	fetcher := new(mockFetcher)
	year := 2022
	window := domain.DateRange{
		From: time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2022, time.December, 31, 23, 59, 59, 0, time.UTC),
	}
	fetcher.On("FetchContributions", mock.Anything, "someone-else", window).
		Return(&domain.ContributionsCollection{Calendar: calendarFrom(5, 5)}, nil)
	fetcher.On("FetchRecentCommits", mock.Anything, "someone-else").Return([]domain.RecentRepository{}, nil)

	aggregator := NewAggregator(fetcher, "someone-else", discardLogger(), WithClock(func() time.Time { return fixedNow }))
	payload, err := aggregator.Aggregate(context.Background(), &year)

	require.NoError(t, err)
	assert.Equal(t, 10, payload.TotalContributions)
	fetcher.AssertExpectations(t)
}

func TestAggregator_Aggregate_ReferenceDateUsesLocation(t *testing.T) {
	// 2024-06-05 03:00 UTC is still 2024-06-04 in Los Angeles, so the zero on
	// the 5th is in the future there and the streak stays intact.
	now := time.Date(2024, time.June, 5, 3, 0, 0, 0, time.UTC)
	la := time.FixedZone("PDT", -7*60*60)

	testCases := []struct {
		name     string
		location *time.Location
		expected int
	}{
		{name: "UTC today includes the zero day", location: time.UTC, expected: 0},
		{name: "earlier timezone skips it", location: la, expected: 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fetcher := new(mockFetcher)
			fetcher.On("FetchContributions", mock.Anything, "octo", mock.Anything).
				Return(&domain.ContributionsCollection{Calendar: calendarFrom(1, 1, 1, 0)}, nil)
			fetcher.On("FetchRecentCommits", mock.Anything, "octo").Return([]domain.RecentRepository{}, nil)

			aggregator := NewAggregator(fetcher, "octo", discardLogger(),
				WithClock(func() time.Time { return now }),
				WithLocation(tc.location),
			)
			payload, err := aggregator.Aggregate(context.Background(), nil)

			require.NoError(t, err)
			assert.Equal(t, tc.expected, payload.CurrentStreak)
			assert.Equal(t, 3, payload.LongestStreak)
		})
	}
}

func TestAggregateError(t *testing.T) {
	protocol := &gateway.UpstreamError{Operation: "recent commits", Kind: gateway.KindProtocol, Errors: []gateway.GraphQLError{{Message: "x"}}}
	err := &AggregateError{Kind: gateway.KindProtocol, Commits: protocol}

	assert.Equal(t, protocol.Errors, err.ProtocolErrors())
	assert.Contains(t, err.Error(), "GitHub protocol failure")
	assert.Contains(t, err.Error(), "recent commits")
	assert.Nil(t, (&AggregateError{Kind: gateway.KindTransport}).ProtocolErrors())
}
