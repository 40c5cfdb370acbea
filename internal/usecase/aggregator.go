// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/naka-gawa/github-contributions/internal/domain"
	"github.com/naka-gawa/github-contributions/internal/gateway"
	"golang.org/x/sync/errgroup"
)

// AggregateError reports that the contributions query, the recent commits
// query, or both failed upstream. Either field is nil when that call succeeded
// or failed for another reason.
type AggregateError struct {
	Kind          gateway.ErrorKind
	Contributions *gateway.UpstreamError
	Commits       *gateway.UpstreamError
}

func (e *AggregateError) Error() string {
	var parts []error
	if e.Contributions != nil {
		parts = append(parts, e.Contributions)
	}
	if e.Commits != nil {
		parts = append(parts, e.Commits)
	}
	return fmt.Sprintf("GitHub %s failure: %v", e.Kind, errors.Join(parts...))
}

// ProtocolErrors returns the GraphQL errors to report, preferring those of
// the contributions query.
func (e *AggregateError) ProtocolErrors() []gateway.GraphQLError {
	if e.Contributions != nil && e.Contributions.Kind == gateway.KindProtocol {
		return e.Contributions.Errors
	}
	if e.Commits != nil && e.Commits.Kind == gateway.KindProtocol {
		return e.Commits.Errors
	}
	return nil
}

// Aggregator is the use case for aggregating GitHub contribution stats.
// It orchestrates the fetching and combining of data.
type Aggregator struct {
	fetcher  gateway.Fetcher
	login    string
	location *time.Location
	now      func() time.Time
	logger   *slog.Logger
}

// AggregatorOption customises an Aggregator.
type AggregatorOption func(*Aggregator)

// WithClock overrides the time source used for the default window and "today".
func WithClock(now func() time.Time) AggregatorOption {
	return func(a *Aggregator) { a.now = now }
}

// WithLocation sets the location whose calendar day counts as "today" for the
// current streak. UTC by default.
func WithLocation(loc *time.Location) AggregatorOption {
	return func(a *Aggregator) { a.location = loc }
}

// NewAggregator creates a new Aggregator instance for the account login.
func NewAggregator(fetcher gateway.Fetcher, login string, logger *slog.Logger, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		fetcher:  fetcher,
		login:    login,
		location: time.UTC,
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate fetches the contribution calendar for year (or the trailing year
// when nil) and the recent commit activity concurrently, then combines them.
// Both fetches must succeed; otherwise no partial payload is returned.
func (a *Aggregator) Aggregate(ctx context.Context, year *int) (*domain.ContributionsPayload, error) {
	now := a.now()
	window := domain.ResolveDateRange(year, now)
	a.logger.Debug("starting contributions aggregation", "login", a.login, "from", window.From, "to", window.To)

	var (
		collection             *domain.ContributionsCollection
		recent                 []domain.RecentRepository
		contribErr, commitsErr error
	)

	// No shared context: one failing call does not cancel the other, and
	// Wait returns only after both have settled.
	var eg errgroup.Group
	eg.Go(func() error {
		collection, contribErr = a.fetcher.FetchContributions(ctx, a.login, window)
		return contribErr
	})
	eg.Go(func() error {
		recent, commitsErr = a.fetcher.FetchRecentCommits(ctx, a.login)
		return commitsErr
	})

	if err := eg.Wait(); err != nil {
		return nil, a.classify(contribErr, commitsErr)
	}
	a.logger.Debug("all contribution data fetched successfully")

	calendar := collection.Calendar
	a.checkTotal(calendar)
	streaks := domain.ComputeStreaks(calendar.Weeks, domain.DateOf(now.In(a.location)))

	payload := &domain.ContributionsPayload{
		ContributionCalendar:      calendar,
		StreakResult:              streaks,
		TopRepositories:           collection.TopRepositories,
		RecentCommits:             summarizeRecent(recent),
		RepositoriesContributedTo: collection.RepositoriesContributedTo,
	}
	if payload.Weeks == nil {
		payload.Weeks = []domain.ContributionWeek{}
	}
	if payload.TopRepositories == nil {
		payload.TopRepositories = []domain.RepositorySummary{}
	}

	a.logger.Debug("contributions aggregation complete",
		"current_streak", streaks.CurrentStreak,
		"longest_streak", streaks.LongestStreak,
		"recent_commits", len(payload.RecentCommits),
	)
	return payload, nil
}

// classify turns the per-call errors into the error Aggregate returns.
// A failure that is not an UpstreamError (network, malformed body) wins, so
// a failed call is never reported with a null body. Otherwise transport
// failures take precedence over protocol failures.
func (a *Aggregator) classify(contribErr, commitsErr error) error {
	var contribUp, commitsUp *gateway.UpstreamError
	contribIsUp := errors.As(contribErr, &contribUp)
	commitsIsUp := errors.As(commitsErr, &commitsUp)

	if (contribErr != nil && !contribIsUp) || (commitsErr != nil && !commitsIsUp) {
		err := errors.Join(contribErr, commitsErr)
		a.logger.Error("failed to fetch GitHub contributions", "error", err)
		return fmt.Errorf("failed to aggregate contributions: %w", err)
	}

	for _, kind := range []gateway.ErrorKind{gateway.KindTransport, gateway.KindProtocol} {
		aggErr := &AggregateError{Kind: kind}
		if contribUp != nil && contribUp.Kind == kind {
			aggErr.Contributions = contribUp
		}
		if commitsUp != nil && commitsUp.Kind == kind {
			aggErr.Commits = commitsUp
		}
		if aggErr.Contributions == nil && aggErr.Commits == nil {
			continue
		}
		a.logger.Error("GitHub API error",
			"kind", kind.String(),
			"contributions_status", statusOf(contribUp),
			"contributions_error", detailOf(contribUp),
			"commits_status", statusOf(commitsUp),
			"commits_error", detailOf(commitsUp),
		)
		return aggErr
	}

	err := errors.Join(contribErr, commitsErr)
	a.logger.Error("failed to fetch GitHub contributions", "error", err)
	return fmt.Errorf("failed to aggregate contributions: %w", err)
}

// checkTotal compares the reported total with the summed days. The reported
// figure is kept either way.
func (a *Aggregator) checkTotal(calendar domain.ContributionCalendar) {
	sum := 0
	for _, day := range calendar.Days() {
		sum += day.ContributionCount
	}
	if sum != calendar.TotalContributions {
		a.logger.Debug("reported total differs from summed days",
			"reported", calendar.TotalContributions,
			"summed", sum,
		)
	}
}

// summarizeRecent keeps repositories with commit history and collapses each
// into a single aggregated count, preserving upstream order.
func summarizeRecent(repos []domain.RecentRepository) []domain.CommitActivitySummary {
	out := make([]domain.CommitActivitySummary, 0, len(repos))
	for _, r := range repos {
		if r.HistoryCount <= 0 {
			continue
		}
		out = append(out, domain.CommitActivitySummary{
			RepositoryName: r.Name,
			RepositoryURL:  r.URL,
			CommitCount:    r.HistoryCount,
		})
	}
	return out
}

func statusOf(e *gateway.UpstreamError) int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

func detailOf(e *gateway.UpstreamError) string {
	if e == nil {
		return ""
	}
	if e.Kind == gateway.KindTransport {
		return e.Body
	}
	return e.Error()
}
