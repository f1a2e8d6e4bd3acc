package workflow

import (
	"context"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"

	"github.com/mmdatafocus/gmcalc_backend/config"
	"github.com/mmdatafocus/gmcalc_backend/models"
)

var tracer = otel.Tracer("gmcalc/workflow")

var twelve = decimal.NewFromInt(12)

// CalcResult reports what a calculation run did. Dropped counts staffing
// rows skipped because no salary row matched the employee.
type CalcResult struct {
	Inserted int `json:"inserted"`
	Dropped  int `json:"dropped"`
}

// ComputeInterimSalary converts an employee's monthly cost to USD and
// prorates it by project involvement:
//
//	round(((ctc/12 + additionalCost) / rate) * involvement, 2)
func ComputeInterimSalary(ctc, additionalCost, rate, involvement decimal.Decimal) decimal.Decimal {
	monthly := ctc.Div(twelve).Add(additionalCost)
	return monthly.Div(rate).Mul(involvement).Round(2)
}

// RunInterimCostCalculation builds the per-(project, employee) cost rows
// for the previous calendar month from the current month's staffing and
// salary uploads. Staffing rows join salary rows on employee code; rows
// with no salary match are dropped and counted. The flat sum of the
// organization-wide additional costs is stamped on every row. Existing
// rows for the period are replaced.
func RunInterimCostCalculation(ctx context.Context, clock Clock) (*CalcResult, error) {
	ctx, span := tracer.Start(ctx, "RunInterimCostCalculation")
	defer span.End()

	curMonth, curYear := CurrentPeriod(clock)
	monthYear := PreviousMonthYear(clock)

	lock := acquireUploadLock(ctx, models.InterimCostCalculation{}.TableName(), monthYear)
	defer releaseUploadLock(ctx, lock)

	result := &CalcResult{}
	err := config.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		staffing, err := models.ListStaffingForPeriod(tx, curMonth, curYear)
		if err != nil {
			return err
		}
		salaries, err := models.SalaryLookupForPeriod(tx, curMonth, curYear)
		if err != nil {
			return err
		}
		rate, err := models.LatestUSExchangeRate(tx)
		if err != nil {
			return err
		}
		additionalCost, err := models.SumAdditionalCosts(tx)
		if err != nil {
			return err
		}

		rows := make([]*models.InterimCostCalculation, 0, len(staffing))
		seen := make(map[string]bool, len(staffing))
		for _, s := range staffing {
			key := s.ProjectCode + "|" + s.EmployeeId
			if seen[key] {
				continue
			}
			seen[key] = true

			salary, ok := salaries[s.EmployeeId]
			if !ok {
				result.Dropped++
				continue
			}
			rows = append(rows, &models.InterimCostCalculation{
				ProjectId:            s.ProjectCode,
				EmployeeId:           s.EmployeeId,
				TechnicalInvolvement: s.TechnicalInvolvement,
				Salary: ComputeInterimSalary(
					salary.CTC, salary.AdditionalCostEmployee, rate.Rate, s.TechnicalInvolvement),
				AdditionalCost: additionalCost,
				MonthYear:      monthYear,
			})
		}

		err = tx.Where("month_year = ?", monthYear).
			Delete(&models.InterimCostCalculation{}).Error
		if err != nil {
			return err
		}
		if len(rows) > 0 {
			if err := tx.Create(rows).Error; err != nil {
				return err
			}
		}
		result.Inserted = len(rows)
		return nil
	})
	if err != nil {
		config.LogError(config.GetLogger(), "workflow", "RunInterimCostCalculation", monthYear, nil, err)
		return nil, err
	}
	return result, nil
}
