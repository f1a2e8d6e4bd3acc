package workflow

import (
	"testing"
	"time"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func TestPreviousPeriod(t *testing.T) {
	cases := []struct {
		now       time.Time
		wantMonth int
		wantYear  int
	}{
		{time.Date(2025, time.April, 15, 10, 0, 0, 0, time.UTC), 3, 2025},
		{time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), 12, 2024},
		{time.Date(2025, time.March, 31, 23, 59, 0, 0, time.UTC), 2, 2025},
		{time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC), 11, 2025},
	}
	for _, c := range cases {
		month, year := PreviousPeriod(fixedClock{c.now})
		if month != c.wantMonth || year != c.wantYear {
			t.Errorf("%v: got %d/%d, want %d/%d", c.now, month, year, c.wantMonth, c.wantYear)
		}
	}
}

func TestMonthYear(t *testing.T) {
	if got := MonthYear(3, 2025); got != "03/2025" {
		t.Errorf("got %q", got)
	}
	if got := MonthYear(12, 2024); got != "12/2024" {
		t.Errorf("got %q", got)
	}
}

func TestPreviousMonthYear(t *testing.T) {
	clock := fixedClock{time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC)}
	if got := PreviousMonthYear(clock); got != "12/2024" {
		t.Errorf("got %q", got)
	}
}
