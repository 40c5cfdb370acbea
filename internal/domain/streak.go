package domain

// ComputeStreaks derives the current and longest streak from a chronological
// calendar.
//
// The current streak walks backwards from the most recent day, ignoring days
// after referenceDate, and stops at the first day without contributions.
// The longest streak considers every supplied day, including ones after
// referenceDate.
func ComputeStreaks(weeks []ContributionWeek, referenceDate Date) StreakResult {
	days := flatten(weeks)

	current := 0
	for i := len(days) - 1; i >= 0; i-- {
		day := days[i]
		if day.Date.After(referenceDate) {
			continue
		}
		if day.ContributionCount == 0 {
			break
		}
		current++
	}

	longest, running := 0, 0
	for _, day := range days {
		if day.ContributionCount > 0 {
			running++
			longest = max(longest, running)
		} else {
			running = 0
		}
	}

	return StreakResult{CurrentStreak: current, LongestStreak: longest}
}

func flatten(weeks []ContributionWeek) []ContributionDay {
	n := 0
	for _, w := range weeks {
		n += len(w.ContributionDays)
	}
	days := make([]ContributionDay, 0, n)
	for _, w := range weeks {
		days = append(days, w.ContributionDays...)
	}
	return days
}
