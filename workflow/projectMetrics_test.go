package workflow

import (
	"testing"

	"github.com/mmdatafocus/gmcalc_backend/sheets"
)

func TestCombineProjectRowsStrictJoin(t *testing.T) {
	finance := []sheets.FinanceRow{
		{Month: 3, Year: 2025, EmployeeId: "E1", Revenue: d("10000")},
		{Month: 3, Year: 2025, EmployeeId: "E2", Revenue: d("8000")},
		{Month: 3, Year: 2025, EmployeeId: "E3", Revenue: d("5000")},
	}
	resources := []sheets.ResourceRow{
		{Month: 3, Year: 2025, EmployeeId: "E1", EmployeeName: "Asha Rao", TechnicalInvolvement: d("1")},
		{Month: 3, Year: 2025, EmployeeId: "E2", TechnicalInvolvement: d("0.5")},
		// E3 missing
	}
	salaries := []sheets.ProjectSalaryRow{
		{Month: 3, Year: 2025, EmployeeCode: "E1", AnnualCTC: d("1200000")},
		// E2 only present for a different month
		{Month: 2, Year: 2025, EmployeeCode: "E2", AnnualCTC: d("900000")},
	}

	out, dropped := CombineProjectRows(finance, resources, salaries)
	if len(out) != 1 {
		t.Fatalf("expected 1 combined row, got %d", len(out))
	}
	if dropped != 2 {
		t.Errorf("expected 2 dropped, got %d", dropped)
	}
	if out[0].EmployeeId != "E1" || out[0].EmployeeName != "Asha Rao" {
		t.Errorf("unexpected combined row: %+v", out[0])
	}
}

func TestComputeEmployeeMetrics(t *testing.T) {
	row := CombinedProjectRow{
		Revenue:              d("10000"),
		ComputerRent:         d("200"),
		OtherCost:            d("300"),
		DeliveryUnitTechOH:   d("500"),
		AnnualCTC:            d("1200000"),
		TechnicalInvolvement: d("0.5"),
	}
	cost, revenue, gm, pct := ComputeEmployeeMetrics(row)
	// (100000 + 200 + 300 + 500) * 0.5 = 50500
	if !cost.Equal(d("50500")) {
		t.Errorf("cost: got %s, want 50500", cost)
	}
	if !revenue.Equal(d("5000")) {
		t.Errorf("revenue: got %s, want 5000", revenue)
	}
	if !gm.Equal(d("-45500")) {
		t.Errorf("gm: got %s, want -45500", gm)
	}
	if !pct.Equal(d("-910")) {
		t.Errorf("pct: got %s, want -910", pct)
	}
}

func TestGrossMarginPercentageFromSums(t *testing.T) {
	// Percentage must come from the summed totals, not the average of
	// per-row percentages: rows at 50%% (1000/2000) and 75%% (1500/2000)
	// aggregate to 2500/4000 = 62.5%%, not 62.5 by accident of symmetric
	// weights breaking — verify with asymmetric weights too.
	if got := GrossMarginPercentage(d("2500"), d("4000")); !got.Equal(d("62.5")) {
		t.Errorf("got %s, want 62.5", got)
	}
	// 90%% of 100 and 10%% of 10000: sums 90+1000 over 10100 = 10.79%%
	if got := GrossMarginPercentage(d("1090"), d("10100")); !got.Equal(d("10.79")) {
		t.Errorf("got %s, want 10.79", got)
	}
}

func TestGrossMarginPercentageZeroRevenue(t *testing.T) {
	if got := GrossMarginPercentage(d("-500"), d("0")); !got.IsZero() {
		t.Errorf("expected 0 for zero revenue, got %s", got)
	}
}

func TestRollUpProjectPeriodsUsesSums(t *testing.T) {
	// Two employees on the same project and month. A earns 100 at a cost
	// of 50 (50% margin), B earns 300 at a cost of 100 (66.67% margin).
	// The rollup must report 250/400 = 62.5, derived from the summed
	// figures, never from averaging the per-employee percentages.
	rows := []CombinedProjectRow{
		{Month: 4, Year: 2025, EmployeeId: "A", Revenue: d("100"), AnnualCTC: d("600"), TechnicalInvolvement: d("1")},
		{Month: 4, Year: 2025, EmployeeId: "B", Revenue: d("300"), AnnualCTC: d("1200"), TechnicalInvolvement: d("1")},
	}

	periods := RollUpProjectPeriods(rows)
	if len(periods) != 1 {
		t.Fatalf("expected 1 period, got %d", len(periods))
	}
	p := periods[0]
	if !p.TotalRevenue.Equal(d("400")) || !p.TotalCost.Equal(d("150")) {
		t.Errorf("totals: revenue %s cost %s", p.TotalRevenue, p.TotalCost)
	}
	if !p.GrossMargin.Equal(d("250")) {
		t.Errorf("gross margin: got %s, want 250", p.GrossMargin)
	}
	if !p.PercentageGrossMargin.Equal(d("62.5")) {
		t.Errorf("percentage: got %s, want 62.5", p.PercentageGrossMargin)
	}

	_, _, _, pctA := ComputeEmployeeMetrics(rows[0])
	_, _, _, pctB := ComputeEmployeeMetrics(rows[1])
	average := pctA.Add(pctB).Div(d("2"))
	if p.PercentageGrossMargin.Equal(average) {
		t.Errorf("rollup percentage %s must differ from the per-employee average %s", p.PercentageGrossMargin, average)
	}
}

func TestRollUpProjectPeriodsOrdersChronologically(t *testing.T) {
	rows := []CombinedProjectRow{
		{Month: 1, Year: 2026, EmployeeId: "A", Revenue: d("100"), AnnualCTC: d("600"), TechnicalInvolvement: d("1")},
		{Month: 12, Year: 2025, EmployeeId: "A", Revenue: d("200"), AnnualCTC: d("600"), TechnicalInvolvement: d("1")},
	}
	periods := RollUpProjectPeriods(rows)
	if len(periods) != 2 {
		t.Fatalf("expected 2 periods, got %d", len(periods))
	}
	if periods[0].Month != 12 || periods[0].Year != 2025 || periods[1].Month != 1 || periods[1].Year != 2026 {
		t.Errorf("periods out of order: %+v", periods)
	}
}
