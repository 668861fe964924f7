package report

import (
	"fmt"
	"time"
)

// Week is the reporting week the deliverables cover: the most recently
// completed Sunday-to-Saturday range before the given day.
type Week struct {
	Start time.Time
	End   time.Time
}

// LastCompletedWeek computes the previous full week relative to now. Weeks
// start on Sunday, so for any day of the current week this yields the
// Sunday..Saturday range immediately before it.
func LastCompletedWeek(now time.Time) Week {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfWeek := today.AddDate(0, 0, -int(today.Weekday()))
	start := startOfWeek.AddDate(0, 0, -7)
	return Week{Start: start, End: start.AddDate(0, 0, 6)}
}

// StartLabel formats the week start as DD.MM, the form used in every
// deliverable and archive name.
func (w Week) StartLabel() string { return w.Start.Format("02.01") }

// EndLabel formats the week end as DD.MM.
func (w Week) EndLabel() string { return w.End.Format("02.01") }

// RangeLabel is "DD.MM - DD.MM" for the whole week.
func (w Week) RangeLabel() string {
	return fmt.Sprintf("%s - %s", w.StartLabel(), w.EndLabel())
}
