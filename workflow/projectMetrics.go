package workflow

import (
	"context"
	"errors"
	"sort"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mmdatafocus/gmcalc_backend/config"
	"github.com/mmdatafocus/gmcalc_backend/models"
	"github.com/mmdatafocus/gmcalc_backend/sheets"
	"github.com/mmdatafocus/gmcalc_backend/utils"
)

var oneHundred = decimal.NewFromInt(100)

// CombinedProjectRow is the strict three-way join of one employee's
// finance, resource allocation and salary rows for a month.
type CombinedProjectRow struct {
	Month                int
	Year                 int
	EmployeeId           string
	EmployeeName         string
	Revenue              decimal.Decimal
	ComputerRent         decimal.Decimal
	OtherCost            decimal.Decimal
	DeliveryUnitTechOH   decimal.Decimal
	AnnualCTC            decimal.Decimal
	TechnicalInvolvement decimal.Decimal
}

func periodKey(month, year int, employee string) string {
	return MonthYear(month, year) + "|" + employee
}

// CombineProjectRows inner-joins the three workbook row sets on
// (month, year, employee). Rows without a match in all three sets are
// dropped; the count of dropped finance rows is returned.
func CombineProjectRows(finance []sheets.FinanceRow, resources []sheets.ResourceRow, salaries []sheets.ProjectSalaryRow) ([]CombinedProjectRow, int) {
	resourceByKey := make(map[string]sheets.ResourceRow, len(resources))
	for _, r := range resources {
		resourceByKey[periodKey(r.Month, r.Year, r.EmployeeId)] = r
	}
	salaryByKey := make(map[string]sheets.ProjectSalaryRow, len(salaries))
	for _, s := range salaries {
		salaryByKey[periodKey(s.Month, s.Year, s.EmployeeCode)] = s
	}

	var out []CombinedProjectRow
	dropped := 0
	for _, f := range finance {
		key := periodKey(f.Month, f.Year, f.EmployeeId)
		resource, okR := resourceByKey[key]
		salary, okS := salaryByKey[key]
		if !okR || !okS {
			dropped++
			continue
		}
		out = append(out, CombinedProjectRow{
			Month:                f.Month,
			Year:                 f.Year,
			EmployeeId:           f.EmployeeId,
			EmployeeName:         resource.EmployeeName,
			Revenue:              f.Revenue,
			ComputerRent:         f.ComputerRent,
			OtherCost:            f.OtherCost,
			DeliveryUnitTechOH:   f.DeliveryUnitTechOH,
			AnnualCTC:            salary.AnnualCTC,
			TechnicalInvolvement: resource.TechnicalInvolvement,
		})
	}
	return out, dropped
}

// ComputeEmployeeMetrics turns one combined row into cost/margin figures:
//
//	totalDirectCost = (ctc/12 + computerRent + otherCost + techOH) * ti
//	revenue         = Revenue * ti
//	grossMargin     = revenue - totalDirectCost
//	gm%%            = grossMargin / revenue * 100   (0 when revenue = 0)
func ComputeEmployeeMetrics(row CombinedProjectRow) (totalDirectCost, revenue, grossMargin, percentage decimal.Decimal) {
	totalDirectCost = row.AnnualCTC.Div(twelve).
		Add(row.ComputerRent).
		Add(row.OtherCost).
		Add(row.DeliveryUnitTechOH).
		Mul(row.TechnicalInvolvement).
		Round(2)
	revenue = row.Revenue.Mul(row.TechnicalInvolvement).Round(2)
	grossMargin = revenue.Sub(totalDirectCost)
	percentage = GrossMarginPercentage(grossMargin, revenue)
	return
}

// GrossMarginPercentage is gm/revenue*100 with a zero-revenue guard.
func GrossMarginPercentage(grossMargin, revenue decimal.Decimal) decimal.Decimal {
	if revenue.IsZero() {
		return decimal.Zero
	}
	return grossMargin.Div(revenue).Mul(oneHundred).Round(2)
}

// ProjectPeriodTotals is one (month, year) rollup of a project's
// employee-level figures. The percentage is derived from the summed
// cost and revenue, never from averaging per-employee percentages.
type ProjectPeriodTotals struct {
	Month                 int
	Year                  int
	TotalCost             decimal.Decimal
	TotalRevenue          decimal.Decimal
	GrossMargin           decimal.Decimal
	PercentageGrossMargin decimal.Decimal
}

// RollUpProjectPeriods sums ComputeEmployeeMetrics over the combined rows
// per (month, year) and derives each period's margin from those sums.
// Periods are returned in chronological order.
func RollUpProjectPeriods(rows []CombinedProjectRow) []ProjectPeriodTotals {
	type period struct{ year, month int }
	totals := make(map[period]*ProjectPeriodTotals)
	var order []period
	for _, row := range rows {
		cost, revenue, _, _ := ComputeEmployeeMetrics(row)
		key := period{row.Year, row.Month}
		t := totals[key]
		if t == nil {
			t = &ProjectPeriodTotals{Month: row.Month, Year: row.Year}
			totals[key] = t
			order = append(order, key)
		}
		t.TotalCost = t.TotalCost.Add(cost)
		t.TotalRevenue = t.TotalRevenue.Add(revenue)
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].year != order[j].year {
			return order[i].year < order[j].year
		}
		return order[i].month < order[j].month
	})
	out := make([]ProjectPeriodTotals, 0, len(order))
	for _, key := range order {
		t := totals[key]
		t.GrossMargin = t.TotalRevenue.Sub(t.TotalCost)
		t.PercentageGrossMargin = GrossMarginPercentage(t.GrossMargin, t.TotalRevenue)
		out = append(out, *t)
	}
	return out
}

// RunProjectMetricsCalculation computes and persists per-employee and
// per-project metrics for one project from its three uploaded workbooks.
// The per-employee rows are upserted by (employee, project, month, year);
// the project rollup is recomputed from the summed totals rather than
// averaging the per-employee percentages. Everything runs in a single
// transaction.
func RunProjectMetricsCalculation(ctx context.Context, projectId int, finance []sheets.FinanceRow, resources []sheets.ResourceRow, salaries []sheets.ProjectSalaryRow) (*CalcResult, error) {
	ctx, span := tracer.Start(ctx, "RunProjectMetricsCalculation")
	defer span.End()

	combined, dropped := CombineProjectRows(finance, resources, salaries)

	result := &CalcResult{Dropped: dropped}
	err := config.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.Take(&project, projectId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrorRecordNotFound
			}
			return err
		}

		for _, row := range combined {
			cost, revenue, gm, pct := ComputeEmployeeMetrics(row)
			err := models.UpsertEmployeeProjectCalculation(tx, &models.EmployeeProjectCalculation{
				EmployeeId:            row.EmployeeId,
				EmployeeName:          row.EmployeeName,
				ProjectId:             project.ID,
				Month:                 row.Month,
				Year:                  row.Year,
				TotalDirectCost:       cost,
				GrossMargin:           gm,
				PercentageGrossMargin: pct,
				Revenue:               revenue,
				DeliveryUnit:          project.DeliveryUnit,
			})
			if err != nil {
				return err
			}
			result.Inserted++
		}

		for _, period := range RollUpProjectPeriods(combined) {
			err := models.UpsertProjectMetric(tx, &models.ProjectMetric{
				ProjectId:             project.ID,
				Month:                 period.Month,
				Year:                  period.Year,
				TotalCost:             period.TotalCost,
				TotalRevenue:          period.TotalRevenue,
				GrossMargin:           period.GrossMargin,
				PercentageGrossMargin: period.PercentageGrossMargin,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		config.LogError(config.GetLogger(), "workflow", "RunProjectMetricsCalculation", "", projectId, err)
		return nil, err
	}
	return result, nil
}
