package gateway

import (
	"fmt"

	"github.com/shurcooL/githubv4"

	"github.com/naka-gawa/github-contributions/internal/domain"
)

// graphqlEnvelope is the top-level shape of every GraphQL response.
type graphqlEnvelope[T any] struct {
	Data   *T             `json:"data"`
	Errors []GraphQLError `json:"errors"`
}

// contributionsData is the data shape of contributionsQuery.
type contributionsData struct {
	User *struct {
		ContributionsCollection struct {
			ContributionCalendar calendarNode `json:"contributionCalendar"`
		} `json:"contributionsCollection"`
		Repositories struct {
			Nodes []repositoryNode `json:"nodes"`
		} `json:"repositories"`
		RepositoriesContributedTo struct {
			TotalCount int `json:"totalCount"`
		} `json:"repositoriesContributedTo"`
	} `json:"user"`
}

type calendarNode struct {
	TotalContributions int `json:"totalContributions"`
	Weeks              []struct {
		ContributionDays []struct {
			ContributionCount int    `json:"contributionCount"`
			Date              string `json:"date"`
			Color             string `json:"color"`
		} `json:"contributionDays"`
	} `json:"weeks"`
}

type repositoryNode struct {
	Name            string  `json:"name"`
	Description     *string `json:"description"`
	StargazerCount  int     `json:"stargazerCount"`
	ForkCount       int     `json:"forkCount"`
	PrimaryLanguage *struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	} `json:"primaryLanguage"`
	URL string `json:"url"`
}

// recentCommitsData is the data shape of recentCommitsQuery.
type recentCommitsData struct {
	User *struct {
		Repositories struct {
			Nodes []recentRepositoryNode `json:"nodes"`
		} `json:"repositories"`
	} `json:"user"`
}

type recentRepositoryNode struct {
	Name             string `json:"name"`
	URL              string `json:"url"`
	DefaultBranchRef *struct {
		Target *struct {
			History *struct {
				TotalCount int `json:"totalCount"`
				Nodes      []struct {
					Message       string               `json:"message"`
					CommittedDate githubv4.DateTime    `json:"committedDate"`
					OID           githubv4.GitObjectID `json:"oid"`
				} `json:"nodes"`
			} `json:"history"`
		} `json:"target"`
	} `json:"defaultBranchRef"`
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedResponse, fmt.Sprintf(format, args...))
}

// toDomain validates the contributions response and maps it to domain types.
func (d *contributionsData) toDomain() (*domain.ContributionsCollection, error) {
	if d.User == nil {
		return nil, malformed("contributions: user is missing")
	}
	cal := d.User.ContributionsCollection.ContributionCalendar
	if cal.TotalContributions < 0 {
		return nil, malformed("contributions: negative totalContributions %d", cal.TotalContributions)
	}

	weeks := make([]domain.ContributionWeek, 0, len(cal.Weeks))
	for wi, w := range cal.Weeks {
		days := make([]domain.ContributionDay, 0, len(w.ContributionDays))
		for di, day := range w.ContributionDays {
			if day.ContributionCount < 0 {
				return nil, malformed("contributions: week %d day %d has negative count", wi, di)
			}
			date, err := domain.ParseDate(day.Date)
			if err != nil {
				return nil, malformed("contributions: week %d day %d: %v", wi, di, err)
			}
			days = append(days, domain.ContributionDay{
				Date:              date,
				ContributionCount: day.ContributionCount,
				Color:             day.Color,
			})
		}
		weeks = append(weeks, domain.ContributionWeek{ContributionDays: days})
	}

	repos := make([]domain.RepositorySummary, 0, len(d.User.Repositories.Nodes))
	for i, node := range d.User.Repositories.Nodes {
		if node.Name == "" {
			return nil, malformed("contributions: repository %d has no name", i)
		}
		repo := domain.RepositorySummary{
			Name:        node.Name,
			Description: node.Description,
			StarCount:   node.StargazerCount,
			ForkCount:   node.ForkCount,
			URL:         node.URL,
		}
		if node.PrimaryLanguage != nil {
			repo.PrimaryLanguage = &domain.Language{Name: node.PrimaryLanguage.Name, Color: node.PrimaryLanguage.Color}
		}
		repos = append(repos, repo)
	}

	return &domain.ContributionsCollection{
		Calendar: domain.ContributionCalendar{
			TotalContributions: cal.TotalContributions,
			Weeks:              weeks,
		},
		TopRepositories:           repos,
		RepositoriesContributedTo: d.User.RepositoriesContributedTo.TotalCount,
	}, nil
}

// toDomain validates the recent-commits response and maps it to domain types.
// Repositories without a default branch or commit history report a zero count.
func (d *recentCommitsData) toDomain() ([]domain.RecentRepository, error) {
	if d.User == nil {
		return nil, malformed("recent commits: user is missing")
	}

	repos := make([]domain.RecentRepository, 0, len(d.User.Repositories.Nodes))
	for i, node := range d.User.Repositories.Nodes {
		if node.Name == "" {
			return nil, malformed("recent commits: repository %d has no name", i)
		}
		repo := domain.RecentRepository{Name: node.Name, URL: node.URL}
		if ref := node.DefaultBranchRef; ref != nil && ref.Target != nil && ref.Target.History != nil {
			history := ref.Target.History
			if history.TotalCount < 0 {
				return nil, malformed("recent commits: repository %s has negative history count", node.Name)
			}
			repo.HistoryCount = history.TotalCount
			for _, c := range history.Nodes {
				repo.Commits = append(repo.Commits, domain.Commit{
					Message:     c.Message,
					CommittedAt: c.CommittedDate.Time,
					OID:         string(c.OID),
				})
			}
		}
		repos = append(repos, repo)
	}
	return repos, nil
}
