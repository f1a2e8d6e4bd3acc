// Package workflow holds the upload ingestion and gross margin
// calculation pipelines.
package workflow

import (
	"fmt"
	"time"
)

// Clock supplies "now" so period derivation is testable.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall-clock used outside tests.
var SystemClock Clock = systemClock{}

// CurrentPeriod is the calendar month uploads land in.
func CurrentPeriod(clock Clock) (month int, year int) {
	now := clock.Now()
	return int(now.Month()), now.Year()
}

// PreviousPeriod is the month the interim calculations report on: the
// calendar month before the current one.
func PreviousPeriod(clock Clock) (month int, year int) {
	// AddDate overflows at month ends (May 31 minus one month lands in
	// May again), so step back from the first of the current month.
	now := clock.Now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prev := first.AddDate(0, 0, -1)
	return int(prev.Month()), prev.Year()
}

// MonthYear formats a period as the "MM/YYYY" key stored on the interim
// tables.
func MonthYear(month int, year int) string {
	return fmt.Sprintf("%02d/%04d", month, year)
}

// PreviousMonthYear is the "MM/YYYY" key for the previous calendar month.
func PreviousMonthYear(clock Clock) string {
	month, year := PreviousPeriod(clock)
	return MonthYear(month, year)
}
