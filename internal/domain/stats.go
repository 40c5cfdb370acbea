// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// ContributionDay is a single cell of the contribution calendar.
type ContributionDay struct {
	Date              Date   `json:"date"`
	ContributionCount int    `json:"contributionCount"`
	Color             string `json:"color"`
}

// ContributionWeek holds the days of one calendar week, Sunday first.
type ContributionWeek struct {
	ContributionDays []ContributionDay `json:"contributionDays"`
}

// ContributionCalendar is the week-by-week contribution grid for a date range.
// TotalContributions is reported by GitHub and is not recomputed from Weeks.
type ContributionCalendar struct {
	TotalContributions int                `json:"totalContributions"`
	Weeks              []ContributionWeek `json:"weeks"`
}

// Days flattens the calendar into a single chronological slice.
func (c ContributionCalendar) Days() []ContributionDay {
	return flatten(c.Weeks)
}

// StreakResult holds the derived streak metrics of a calendar.
type StreakResult struct {
	CurrentStreak int `json:"currentStreak"`
	LongestStreak int `json:"longestStreak"`
}

// Language is a repository's primary language as reported by GitHub.
type Language struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// RepositorySummary describes one of the account's most-starred repositories.
type RepositorySummary struct {
	Name            string    `json:"name"`
	Description     *string   `json:"description"`
	StarCount       int       `json:"stargazerCount"`
	ForkCount       int       `json:"forkCount"`
	PrimaryLanguage *Language `json:"primaryLanguage"`
	URL             string    `json:"url"`
}

// Commit is one entry of a repository's recent default-branch history.
type Commit struct {
	Message     string    `json:"message"`
	CommittedAt time.Time `json:"committedDate"`
	OID         string    `json:"oid"`
}

// RecentRepository is a recently pushed-to repository together with a short
// slice of its default-branch history and the total history count.
type RecentRepository struct {
	Name         string
	URL          string
	HistoryCount int
	Commits      []Commit
}

// CommitActivitySummary is the aggregated commit count of a recently active repository.
type CommitActivitySummary struct {
	RepositoryName string `json:"repositoryName"`
	RepositoryURL  string `json:"repositoryUrl"`
	CommitCount    int    `json:"commitCount"`
}

// ContributionsCollection is everything the contribution query returns for a date range.
type ContributionsCollection struct {
	Calendar                  ContributionCalendar
	TopRepositories           []RepositorySummary
	RepositoriesContributedTo int
}

// ContributionsPayload is the combined response of the contributions endpoint.
// The calendar fields are embedded so they serialise at the top level.
type ContributionsPayload struct {
	ContributionCalendar
	StreakResult
	TopRepositories           []RepositorySummary     `json:"topRepositories"`
	RecentCommits             []CommitActivitySummary `json:"recentCommits"`
	RepositoriesContributedTo int                     `json:"repositoriesContributedTo"`
}

// ProfileStats are the account-level figures shown next to the calendar.
type ProfileStats struct {
	TotalStars        int   `json:"totalStars"`
	TotalRepos        int   `json:"totalRepos"`
	TotalFollowers    int   `json:"totalFollowers"`
	ContributionYears []int `json:"contributionYears"`
}

// LanguageShare is the percentage of owned repositories using a primary language.
type LanguageShare struct {
	Language string `json:"language"`
	Percent  int    `json:"percent"`
}

// OwnedRepository is the REST view of a repository owned by the account.
type OwnedRepository struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Stars       int       `json:"stars"`
	Forks       int       `json:"forks"`
	Language    string    `json:"language"`
	URL         string    `json:"url"`
	Fork        bool      `json:"-"`
	CreatedAt   time.Time `json:"-"`
}

// Profile is the REST view of the account.
type Profile struct {
	Login       string
	PublicRepos int
	Followers   int
}
