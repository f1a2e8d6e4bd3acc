package sheets

import (
	"testing"
	"time"
)

func TestParseSheetDateSerial(t *testing.T) {
	// 45748 is 2025-04-01 in the 1900 date system.
	got, err := ParseSheetDate("45748")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseSheetDateSlash(t *testing.T) {
	cases := []struct {
		cell string
		want time.Time
	}{
		{"4/1/2025", time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)},
		{"12/31/24", time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)},
		{" 6/15/2023 ", time.Date(2023, time.June, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		got, err := ParseSheetDate(c.cell)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", c.cell, err)
			continue
		}
		if !got.Equal(c.want) {
			t.Errorf("%q: got %v, want %v", c.cell, got, c.want)
		}
	}
}

func TestParseSheetDateInvalid(t *testing.T) {
	for _, cell := range []string{"", "not a date", "13/1/2025", "4-1-2025", "4/1"} {
		if _, err := ParseSheetDate(cell); err == nil {
			t.Errorf("%q: expected error", cell)
		}
	}
}
