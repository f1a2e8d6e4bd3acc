package sheets

import (
	"testing"
)

func TestMapSalaryRowsSkipsIncomplete(t *testing.T) {
	rows := []Row{
		{
			"Employee Code":   "E001",
			"Employee Name":   "Asha Rao",
			"Date Of Joining": "4/1/2021",
			"CTC":             "1,200,000",
			"Additional cost": "5000",
		},
		{
			// missing joining date
			"Employee Code": "E002",
			"Employee Name": "Vikram Shah",
			"CTC":           "900000",
		},
	}

	out, errs := MapSalaryRows(rows)
	if len(out) != 1 {
		t.Fatalf("expected 1 mapped row, got %d", len(out))
	}
	if len(errs) != 1 {
		t.Fatalf("expected 1 skipped row, got %d", len(errs))
	}
	if out[0].EmployeeCode != "E001" {
		t.Errorf("unexpected employee code %q", out[0].EmployeeCode)
	}
	if out[0].CTC.String() != "1200000" {
		t.Errorf("thousands separators not stripped: %s", out[0].CTC)
	}
}

func TestMapRevenueRowsStripsCommas(t *testing.T) {
	rows := []Row{
		{
			"Project Id":   "P100",
			"Project Name": "Atlas",
			"Revenue":      "2,50,000.75",
		},
		{
			"Project Id": "P200",
			// missing project name
			"Revenue": "100",
		},
	}

	out, errs := MapRevenueRows(rows)
	if len(out) != 1 || len(errs) != 1 {
		t.Fatalf("expected 1 row and 1 error, got %d/%d", len(out), len(errs))
	}
	if out[0].Revenue.String() != "250000.75" {
		t.Errorf("got revenue %s", out[0].Revenue)
	}
}

func TestMapStaffingRowsColumnOrderIndependent(t *testing.T) {
	// Row maps come from the header, so ordering differences in the
	// workbook never matter; only the header spellings do.
	rows := []Row{
		{
			"Technical Involvement": "0.5",
			"Employee ID":           "E001",
			"Project ID":            "P100",
			"Project Name":          "Atlas",
			"DU":                    "DU1",
			"Employe Name":          "Asha Rao",
		},
	}

	out, errs := MapStaffingRows(rows)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 row, got %d", len(out))
	}
	if out[0].TechnicalInvolvement.String() != "0.5" {
		t.Errorf("got involvement %s", out[0].TechnicalInvolvement)
	}
	if out[0].EmployeeName != "Asha Rao" {
		t.Errorf("got name %q", out[0].EmployeeName)
	}
}

func TestMapFinanceRowsValidatesPeriod(t *testing.T) {
	rows := []Row{
		{
			"Month":         "4",
			"Year":          "2025",
			"Employee ID":   "E001",
			"Revenue":       "10,000",
			"Computer rent": "200",
			"Other cost":    "300",
			"Sum of Delivery Unit wise Tech OH": "150",
		},
		{
			"Month":       "13",
			"Year":        "2025",
			"Employee ID": "E002",
		},
	}

	out, errs := MapFinanceRows(rows)
	if len(out) != 1 || len(errs) != 1 {
		t.Fatalf("expected 1 row and 1 error, got %d/%d", len(out), len(errs))
	}
	if out[0].Revenue.String() != "10000" {
		t.Errorf("got revenue %s", out[0].Revenue)
	}
	if out[0].Month != 4 || out[0].Year != 2025 {
		t.Errorf("got period %d/%d", out[0].Month, out[0].Year)
	}
}

func TestMapProjectSalaryRows(t *testing.T) {
	rows := []Row{
		{"Month": "3", "Year": "2025", "Employee Code": "E001", "Annual CTC": "1,800,000"},
		{"Month": "3", "Year": "2025", "Annual CTC": "1,000,000"},
	}

	out, errs := MapProjectSalaryRows(rows)
	if len(out) != 1 || len(errs) != 1 {
		t.Fatalf("expected 1 row and 1 error, got %d/%d", len(out), len(errs))
	}
	if out[0].AnnualCTC.String() != "1800000" {
		t.Errorf("got CTC %s", out[0].AnnualCTC)
	}
}
