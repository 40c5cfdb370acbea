// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/google/go-github/v84/github"
	"github.com/shurcooL/githubv4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/naka-gawa/github-contributions/internal/domain"
)

const (
	opContributions     = "contributions"
	opRecentCommits     = "recent commits"
	opContributionYears = "contribution years"
)

var tracer = otel.Tracer("github.com/naka-gawa/github-contributions/internal/gateway")

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	FetchContributions(ctx context.Context, login string, window domain.DateRange) (*domain.ContributionsCollection, error)
	FetchRecentCommits(ctx context.Context, login string) ([]domain.RecentRepository, error)
	FetchContributionYears(ctx context.Context, login string) ([]int, error)
	FetchProfile(ctx context.Context, login string) (*domain.Profile, error)
	FetchOwnedRepositories(ctx context.Context, login string) ([]domain.OwnedRepository, error)
}

// QueryLimits sizes the repository lists requested from GitHub.
type QueryLimits struct {
	TopRepositories    int
	RecentRepositories int
	CommitHistory      int
}

// DefaultQueryLimits mirrors what the portfolio page shows.
var DefaultQueryLimits = QueryLimits{TopRepositories: 10, RecentRepositories: 10, CommitHistory: 5}

// Options configures NewGitHubGateway.
type Options struct {
	Token       string
	GraphQLURL  string
	RESTBaseURL string
	Limits      QueryLimits
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	httpClient    *http.Client
	graphqlURL    string
	limits        QueryLimits
	logger        *slog.Logger
}

var _ Fetcher = (*GitHubGateway)(nil)

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
// Both APIs authenticate through an oauth2 static token transport. Only the REST
// client sits behind the secondary rate limit middleware; the contributions
// queries surface GitHub's status as-is.
func NewGitHubGateway(opts Options, logger *slog.Logger) (*GitHubGateway, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   http.DefaultTransport,
			Source: ts,
		},
	}
	restHTTPClient := github_ratelimit.NewClient(&oauth2.Transport{
		Base:   http.DefaultTransport,
		Source: ts,
	})

	restClient := github.NewClient(restHTTPClient)
	if opts.RESTBaseURL != "" {
		baseURL, err := url.Parse(opts.RESTBaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse REST base URL: %w", err)
		}
		restClient.BaseURL = baseURL
	}
	if opts.GraphQLURL == "" {
		opts.GraphQLURL = "https://api.github.com/graphql"
	}
	if opts.Limits == (QueryLimits{}) {
		opts.Limits = DefaultQueryLimits
	}

	return &GitHubGateway{
		restClient:    restClient,
		graphqlClient: githubv4.NewEnterpriseClient(opts.GraphQLURL, httpClient),
		httpClient:    httpClient,
		graphqlURL:    opts.GraphQLURL,
		limits:        opts.Limits,
		logger:        logger,
	}, nil
}

// FetchContributions fetches the contribution calendar for window together with
// the most-starred public repositories and the contributed-to repository count.
func (g *GitHubGateway) FetchContributions(ctx context.Context, login string, window domain.DateRange) (_ *domain.ContributionsCollection, err error) {
	ctx, span := startSpan(ctx, "gateway.FetchContributions", login)
	defer func() { endSpan(span, err) }()

	g.logger.Debug("fetching contribution calendar", "login", login, "from", window.From, "to", window.To)
	variables := map[string]any{
		"userName":        githubv4.String(login),
		"from":            githubv4.DateTime{Time: window.From},
		"to":              githubv4.DateTime{Time: window.To},
		"topRepositories": githubv4.Int(g.limits.TopRepositories),
	}
	data, err := executeQuery[contributionsData](ctx, g, opContributions, contributionsQuery, variables)
	if err != nil {
		return nil, err
	}
	collection, err := data.toDomain()
	if err != nil {
		return nil, err
	}
	g.logger.Debug("completed fetching contribution calendar",
		"weeks", len(collection.Calendar.Weeks),
		"total", collection.Calendar.TotalContributions,
	)
	return collection, nil
}

// FetchRecentCommits fetches the most recently pushed-to repositories with a
// short slice of their default-branch history.
func (g *GitHubGateway) FetchRecentCommits(ctx context.Context, login string) (_ []domain.RecentRepository, err error) {
	ctx, span := startSpan(ctx, "gateway.FetchRecentCommits", login)
	defer func() { endSpan(span, err) }()

	g.logger.Debug("fetching recent commit history", "login", login)
	variables := map[string]any{
		"userName":           githubv4.String(login),
		"recentRepositories": githubv4.Int(g.limits.RecentRepositories),
		"commitHistory":      githubv4.Int(g.limits.CommitHistory),
	}
	data, err := executeQuery[recentCommitsData](ctx, g, opRecentCommits, recentCommitsQuery, variables)
	if err != nil {
		return nil, err
	}
	repos, err := data.toDomain()
	if err != nil {
		return nil, err
	}
	g.logger.Debug("completed fetching recent commit history", "repositories", len(repos))
	return repos, nil
}

// contributionYearsQuery lists the years the account has contributions in.
type contributionYearsQuery struct {
	User struct {
		ContributionsCollection struct {
			ContributionYears []int
		}
	} `graphql:"user(login: $login)"`
}

// FetchContributionYears returns the years with contributions, newest first.
func (g *GitHubGateway) FetchContributionYears(ctx context.Context, login string) (_ []int, err error) {
	ctx, span := startSpan(ctx, "gateway.FetchContributionYears", login)
	defer func() { endSpan(span, err) }()

	var q contributionYearsQuery
	variables := map[string]interface{}{"login": githubv4.String(login)}
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return nil, fmt.Errorf("failed to execute GraphQL query for %s: %w", opContributionYears, err)
	}
	years := q.User.ContributionsCollection.ContributionYears
	if years == nil {
		years = []int{}
	}
	return years, nil
}

// FetchProfile fetches the public profile of login using the REST API.
func (g *GitHubGateway) FetchProfile(ctx context.Context, login string) (_ *domain.Profile, err error) {
	ctx, span := startSpan(ctx, "gateway.FetchProfile", login)
	defer func() { endSpan(span, err) }()

	user, _, err := g.restClient.Users.Get(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user %s with REST API: %w", login, err)
	}
	return &domain.Profile{
		Login:       user.GetLogin(),
		PublicRepos: user.GetPublicRepos(),
		Followers:   user.GetFollowers(),
	}, nil
}

// FetchOwnedRepositories lists every repository owned by login, following pagination.
func (g *GitHubGateway) FetchOwnedRepositories(ctx context.Context, login string) (_ []domain.OwnedRepository, err error) {
	ctx, span := startSpan(ctx, "gateway.FetchOwnedRepositories", login)
	defer func() { endSpan(span, err) }()

	opts := &github.RepositoryListByUserOptions{
		Type:        "owner",
		Sort:        "updated",
		ListOptions: github.ListOptions{PerPage: 100},
	}
	repos := []domain.OwnedRepository{}
	for {
		page, resp, err := g.restClient.Repositories.ListByUser(ctx, login, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list repositories with REST API: %w", err)
		}
		for _, r := range page {
			repos = append(repos, domain.OwnedRepository{
				Name:        r.GetName(),
				Description: r.GetDescription(),
				Stars:       r.GetStargazersCount(),
				Forks:       r.GetForksCount(),
				Language:    r.GetLanguage(),
				URL:         r.GetHTMLURL(),
				Fork:        r.GetFork(),
				CreatedAt:   r.GetCreatedAt().Time,
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Debug("fetching next page of repositories", "page", opts.Page)
	}
	return repos, nil
}

func startSpan(ctx context.Context, name, login string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attribute.String("github.login", login)))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
