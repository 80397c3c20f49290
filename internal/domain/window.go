package domain

import "time"

// FeedDateLayout is the YYYY-MM-DD format the NEO feed uses for dates.
const FeedDateLayout = "2006-01-02"

// DateRange is an inclusive range of calendar days in UTC.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// FeedWindow returns the range from today (UTC) to today plus days.
func FeedWindow(days int) DateRange {
	now := clock.Now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return DateRange{Start: start, End: start.AddDate(0, 0, days)}
}

// StartDate formats the first day of the range.
func (r DateRange) StartDate() string { return r.Start.Format(FeedDateLayout) }

// EndDate formats the last day of the range.
func (r DateRange) EndDate() string { return r.End.Format(FeedDateLayout) }
