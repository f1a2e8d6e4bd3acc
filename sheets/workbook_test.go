package sheets

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, cells [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range cells {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf
}

func TestReadWorkbook(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"Employee Code", "Employee Name", "CTC"},
		{"E001", "Asha Rao", "1200000"},
		{"E002", "Vikram Shah", "900000"},
	})

	rows, err := ReadWorkbook(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0]["Employee Code"] != "E001" || rows[1]["Employee Name"] != "Vikram Shah" {
		t.Errorf("rows not keyed by header: %v", rows)
	}
}

func TestReadWorkbookSkipsBlankRows(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"Employee Code", "CTC"},
		{"E001", "1200000"},
		{"", ""},
		{"E002", "900000"},
	})

	rows, err := ReadWorkbook(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected blank row skipped, got %d rows", len(rows))
	}
}

func TestReadWorkbookEmpty(t *testing.T) {
	buf := buildWorkbook(t, nil)

	_, err := ReadWorkbook(buf)
	if err == nil {
		t.Fatal("expected error for workbook with no rows")
	}
}
