// Package display turns a contributions payload into terminal output.
package display

import (
	"time"

	"github.com/fatih/color"

	"github.com/naka-gawa/github-contributions/internal/domain"
)

// MonthLabel marks the week column where a month starts.
type MonthLabel struct {
	Month     string `json:"month"`
	WeekIndex int    `json:"weekIndex"`
}

var levelColors = [...]*color.Color{
	color.New(color.FgHiBlack),           // 0: no contributions
	color.New(color.FgGreen),             // 1
	color.New(color.FgHiGreen),           // 2
	color.New(color.FgGreen, color.Bold), // 3
	color.New(color.FgHiGreen, color.Bold),
}

// Level buckets a day's count into the five heat-map intensities.
// - 0: none
// - 1: 1-2
// - 2: 3-5
// - 3: 6-8
// - 4: 9 or more
func Level(count int) int {
	switch {
	case count <= 0:
		return 0
	case count <= 2:
		return 1
	case count <= 5:
		return 2
	case count <= 8:
		return 3
	default:
		return 4
	}
}

// MonthLabels places a label on every week after the first whose opening day
// falls in a different month than the previous label.
func MonthLabels(weeks []domain.ContributionWeek) []MonthLabel {
	labels := []MonthLabel{}
	current := time.Month(0)
	for i, week := range weeks {
		if len(week.ContributionDays) == 0 {
			continue
		}
		month := week.ContributionDays[0].Date.Month()
		if month != current && i > 0 {
			labels = append(labels, MonthLabel{Month: month.String()[:3], WeekIndex: i})
			current = month
		}
	}
	return labels
}

// YearOptions lists the four full years before now, newest first.
func YearOptions(now time.Time) []int {
	years := make([]int, 0, 4)
	for i := 1; i <= 4; i++ {
		years = append(years, now.Year()-i)
	}
	return years
}

// Placeholder is the zero payload shown when contributions could not be fetched.
func Placeholder() *domain.ContributionsPayload {
	return &domain.ContributionsPayload{
		ContributionCalendar: domain.ContributionCalendar{Weeks: []domain.ContributionWeek{}},
		TopRepositories:      []domain.RepositorySummary{},
		RecentCommits:        []domain.CommitActivitySummary{},
	}
}
