package domain

import "time"

// DateRange is the inclusive [From, To] window of a contributions query.
type DateRange struct {
	From time.Time
	To   time.Time
}

// ResolveDateRange turns an optional year into a query window.
// A year covers Jan 1 00:00:00Z through Dec 31 23:59:59Z; without one the
// window is the trailing calendar year ending at now.
// The year is not validated; GitHub rejects values it does not accept.
func ResolveDateRange(year *int, now time.Time) DateRange {
	if year != nil {
		return DateRange{
			From: time.Date(*year, time.January, 1, 0, 0, 0, 0, time.UTC),
			To:   time.Date(*year, time.December, 31, 23, 59, 59, 0, time.UTC),
		}
	}
	now = now.UTC()
	return DateRange{
		From: now.AddDate(-1, 0, 0),
		To:   now,
	}
}
