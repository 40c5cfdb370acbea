package display

import (
	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/github-contributions/internal/domain"
)

// Summary describes the distribution of daily contributions in a calendar.
type Summary struct {
	Days         int                    `json:"days"`
	ActiveDays   int                    `json:"activeDays"`
	Sum          int                    `json:"sum"`
	DailyMean    float64                `json:"dailyMean"`
	ActiveMedian float64                `json:"activeMedian"`
	Busiest      domain.ContributionDay `json:"busiest"`
	TotalMatches bool                   `json:"totalMatches"`
}

// Summarize computes a Summary for the calendar. Empty calendars yield zeros.
func Summarize(calendar domain.ContributionCalendar) (Summary, error) {
	days := calendar.Days()
	s := Summary{Days: len(days)}

	all := make(stats.Float64Data, 0, len(days))
	active := make(stats.Float64Data, 0, len(days))
	for _, d := range days {
		all = append(all, float64(d.ContributionCount))
		if d.ContributionCount > 0 {
			active = append(active, float64(d.ContributionCount))
		}
		if d.ContributionCount > s.Busiest.ContributionCount {
			s.Busiest = d
		}
	}
	s.ActiveDays = len(active)

	if len(all) > 0 {
		sum, err := stats.Sum(all)
		if err != nil {
			return Summary{}, err
		}
		mean, err := stats.Mean(all)
		if err != nil {
			return Summary{}, err
		}
		s.Sum = int(sum)
		s.DailyMean = mean
	}
	if len(active) > 0 {
		median, err := stats.Median(active)
		if err != nil {
			return Summary{}, err
		}
		s.ActiveMedian = median
	}
	s.TotalMatches = s.Sum == calendar.TotalContributions
	return s, nil
}
