package sheets

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// excelEpochOffset is the number of days between the Excel serial date
// epoch (1899-12-30) and the Unix epoch (1970-01-01).
const excelEpochOffset = 25569

// ParseSheetDate accepts either an Excel serial date number or a
// M/D/YY(YY) slash date. Two-digit years are read as 20YY.
func ParseSheetDate(cell string) (time.Time, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return time.Time{}, fmt.Errorf("empty date cell")
	}

	if serial, err := strconv.ParseFloat(cell, 64); err == nil {
		days := int64(serial) - excelEpochOffset
		return time.Unix(days*24*60*60, 0).UTC(), nil
	}

	parts := strings.Split(cell, "/")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("unrecognized date %q", cell)
	}
	month, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q", cell)
	}
	day, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q", cell)
	}
	yearStr := strings.TrimSpace(parts[2])
	if len(yearStr) == 2 {
		yearStr = "20" + yearStr
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q", cell)
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("unrecognized date %q", cell)
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}
