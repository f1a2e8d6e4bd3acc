// Package sheets parses uploaded Excel workbooks into header-keyed rows
// and maps them onto typed model rows.
package sheets

import (
	"errors"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row is one data row of a workbook, keyed by the header cell text.
// Header names are trimmed; cell values are kept as raw strings.
type Row map[string]string

var ErrNoSheets = errors.New("No sheets found in the Excel file")

// ReadWorkbook opens an xlsx stream and returns the data rows of the
// first sheet. The first row is treated as the header. Cells beyond the
// header width are ignored; short rows leave the missing keys empty.
func ReadWorkbook(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheetList := f.GetSheetList()
	if len(sheetList) == 0 {
		return nil, ErrNoSheets
	}

	raw, err := f.GetRows(sheetList[0])
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, ErrNoSheets
	}

	header := make([]string, len(raw[0]))
	for i, cell := range raw[0] {
		header[i] = strings.TrimSpace(cell)
	}

	rows := make([]Row, 0, len(raw)-1)
	for _, cells := range raw[1:] {
		row := make(Row, len(header))
		empty := true
		for i, name := range header {
			if name == "" {
				continue
			}
			value := ""
			if i < len(cells) {
				value = strings.TrimSpace(cells[i])
			}
			if value != "" {
				empty = false
			}
			row[name] = value
		}
		if empty {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
