package reports

import (
	"testing"
	"time"
)

func TestFinancialYearOf(t *testing.T) {
	cases := []struct {
		monthYear string
		want      string
	}{
		{"03/2025", "2024-25"},
		{"04/2025", "2025-26"},
		{"12/2024", "2024-25"},
		{"01/2025", "2024-25"},
		{"04/1999", ""}, // below the year floor
		{"13/2025", ""},
		{"2025-04", ""},
	}
	for _, c := range cases {
		got, err := FinancialYearOf(c.monthYear)
		if c.want == "" {
			if err == nil {
				t.Errorf("%q: expected error", c.monthYear)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error: %v", c.monthYear, err)
			continue
		}
		if got != c.want {
			t.Errorf("%q: got %q, want %q", c.monthYear, got, c.want)
		}
	}
}

func TestCurrentFinancialYear(t *testing.T) {
	if got := CurrentFinancialYear(time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)); got != "2024-25" {
		t.Errorf("got %q", got)
	}
	if got := CurrentFinancialYear(time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)); got != "2025-26" {
		t.Errorf("got %q", got)
	}
}

func TestMonthYearsInPastYearIsComplete(t *testing.T) {
	now := time.Date(2025, time.August, 15, 0, 0, 0, 0, time.UTC)
	months, err := MonthYearsIn("2023-24", now)
	if err != nil {
		t.Fatal(err)
	}
	if len(months) != 12 {
		t.Fatalf("expected 12 months, got %d", len(months))
	}
	if months[0] != "04/2023" || months[11] != "03/2024" {
		t.Errorf("unexpected window: %v", months)
	}
}

func TestMonthYearsInCurrentYearIsCapped(t *testing.T) {
	now := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)
	months, err := MonthYearsIn("2025-26", now)
	if err != nil {
		t.Fatal(err)
	}
	if len(months) != 3 {
		t.Fatalf("expected Apr-Jun, got %v", months)
	}
	if months[2] != "06/2025" {
		t.Errorf("unexpected last month %q", months[2])
	}
}

func TestMonthYearsInCapCrossesJanuary(t *testing.T) {
	now := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	months, err := MonthYearsIn("2025-26", now)
	if err != nil {
		t.Fatal(err)
	}
	if len(months) != 11 {
		t.Fatalf("expected Apr 2025-Feb 2026, got %v", months)
	}
	if months[10] != "02/2026" {
		t.Errorf("unexpected last month %q", months[10])
	}
}
