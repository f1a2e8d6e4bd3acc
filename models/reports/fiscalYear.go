// Package reports holds the read-side queries behind the dashboards.
package reports

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// The financial year runs April 1 through March 31 and is labeled
// "YYYY-YY" after its starting year, so March 2025 belongs to "2024-25"
// and April 2025 opens "2025-26".

// FinancialYearOf maps a "MM/YYYY" period key to its financial year label.
func FinancialYearOf(monthYear string) (string, error) {
	month, year, err := SplitMonthYear(monthYear)
	if err != nil {
		return "", err
	}
	return financialYearLabel(month, year), nil
}

func financialYearLabel(month, year int) string {
	startYear := year
	if month < 4 {
		startYear = year - 1
	}
	return fmt.Sprintf("%d-%02d", startYear, (startYear+1)%100)
}

// CurrentFinancialYear is the label of the financial year containing now.
func CurrentFinancialYear(now time.Time) string {
	return financialYearLabel(int(now.Month()), now.Year())
}

// SplitMonthYear parses a "MM/YYYY" period key.
func SplitMonthYear(monthYear string) (month int, year int, err error) {
	parts := strings.Split(monthYear, "/")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid period %q", monthYear)
	}
	month, err = strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("invalid period %q", monthYear)
	}
	year, err = strconv.Atoi(parts[1])
	if err != nil || year < 2000 {
		return 0, 0, fmt.Errorf("invalid period %q", monthYear)
	}
	return month, year, nil
}

// FinancialYearStart returns April 1 of the label's starting year.
func FinancialYearStart(label string) (time.Time, error) {
	parts := strings.SplitN(label, "-", 2)
	startYear, err := strconv.Atoi(parts[0])
	if err != nil || startYear < 2000 {
		return time.Time{}, fmt.Errorf("invalid financial year %q", label)
	}
	return time.Date(startYear, time.April, 1, 0, 0, 0, 0, time.UTC), nil
}

// MonthYearsIn lists the "MM/YYYY" period keys of a financial year in
// calendar order. For the financial year containing now, the list stops
// at the current calendar month; past years always return all twelve.
func MonthYearsIn(label string, now time.Time) ([]string, error) {
	start, err := FinancialYearStart(label)
	if err != nil {
		return nil, err
	}

	capped := label == CurrentFinancialYear(now)
	var out []string
	for i := 0; i < 12; i++ {
		m := start.AddDate(0, i, 0)
		if capped && m.After(time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)) {
			break
		}
		out = append(out, fmt.Sprintf("%02d/%04d", int(m.Month()), m.Year()))
	}
	return out, nil
}
