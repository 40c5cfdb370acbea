package display

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/naka-gawa/github-contributions/internal/domain"
)

const cell = "■"

var (
	titleColor = color.New(color.Bold)
	faintColor = color.New(color.FgHiBlack)
)

// Render writes the full terminal report for payload.
func Render(w io.Writer, payload *domain.ContributionsPayload) error {
	fmt.Fprintf(w, "%s contributions\n", titleColor.Sprint(payload.TotalContributions))
	fmt.Fprintf(w, "Current streak: %d days   Longest streak: %d days   Contributed to: %d repositories\n\n",
		payload.CurrentStreak, payload.LongestStreak, payload.RepositoriesContributedTo)

	renderHeatMap(w, payload.Weeks)

	summary, err := Summarize(payload.ContributionCalendar)
	if err != nil {
		return fmt.Errorf("failed to summarize calendar: %w", err)
	}
	if err := renderSummary(w, summary); err != nil {
		return err
	}
	if err := renderTopRepositories(w, payload.TopRepositories); err != nil {
		return err
	}
	return renderRecentCommits(w, payload.RecentCommits)
}

// renderHeatMap draws one row per weekday and one column per week.
func renderHeatMap(w io.Writer, weeks []domain.ContributionWeek) {
	if len(weeks) == 0 {
		fmt.Fprintln(w, faintColor.Sprint("No contribution data"))
		fmt.Fprintln(w)
		return
	}

	header := []rune(strings.Repeat(" ", len(weeks)*2))
	for _, l := range MonthLabels(weeks) {
		pos := l.WeekIndex * 2
		for i, r := range l.Month {
			if pos+i < len(header) {
				header[pos+i] = r
			}
		}
	}
	fmt.Fprintf(w, "    %s\n", string(header))

	var grid [7][]string
	for row := range grid {
		grid[row] = make([]string, len(weeks))
		for col := range grid[row] {
			grid[row][col] = " "
		}
	}
	for col, week := range weeks {
		for _, day := range week.ContributionDays {
			grid[day.Date.Weekday()][col] = levelColors[Level(day.ContributionCount)].Sprint(cell)
		}
	}

	for row := range grid {
		label := "   "
		if wd := time.Weekday(row); wd == time.Monday || wd == time.Wednesday || wd == time.Friday {
			label = wd.String()[:3]
		}
		fmt.Fprintf(w, "%s %s\n", label, strings.Join(grid[row], " "))
	}

	legend := make([]string, len(levelColors))
	for i, c := range levelColors {
		legend[i] = c.Sprint(cell)
	}
	fmt.Fprintf(w, "    Less %s More\n\n", strings.Join(legend, " "))
}

func renderSummary(w io.Writer, s Summary) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Days", "Active", "Sum", "Daily Mean", "Active Median", "Busiest Day"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	busiest := "-"
	if s.Busiest.ContributionCount > 0 {
		busiest = fmt.Sprintf("%s (%d)", s.Busiest.Date, s.Busiest.ContributionCount)
	}
	row := []string{
		strconv.Itoa(s.Days),
		strconv.Itoa(s.ActiveDays),
		strconv.Itoa(s.Sum),
		strconv.FormatFloat(s.DailyMean, 'f', 2, 64),
		strconv.FormatFloat(s.ActiveMedian, 'f', 1, 64),
		busiest,
	}
	if err := table.Bulk([][]string{row}); err != nil {
		return err
	}
	return table.Render()
}

func renderTopRepositories(w io.Writer, repos []domain.RepositorySummary) error {
	fmt.Fprintln(w, titleColor.Sprint("Top repositories"))
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Repository", "Language", "Stars", "Forks"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, r := range repos {
		lang := "-"
		if r.PrimaryLanguage != nil {
			lang = r.PrimaryLanguage.Name
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			r.Name,
			lang,
			strconv.Itoa(r.StarCount),
			strconv.Itoa(r.ForkCount),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func renderRecentCommits(w io.Writer, commits []domain.CommitActivitySummary) error {
	fmt.Fprintln(w, titleColor.Sprint("Recent commit activity"))
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Repository", "Commits", "URL"})

	var data [][]string
	for _, c := range commits {
		data = append(data, []string{c.RepositoryName, strconv.Itoa(c.CommitCount), c.RepositoryURL})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
