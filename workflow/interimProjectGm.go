package workflow

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mmdatafocus/gmcalc_backend/config"
	"github.com/mmdatafocus/gmcalc_backend/models"
)

// RunInterimProjectGMCalculation rolls the period's interim cost rows up
// to project level and joins the current month's revenue upload onto
// them. Projects with cost but no revenue row are dropped and counted,
// mirroring the cost calculation's join behavior. Duplicate revenue rows
// for a project are summed as uploaded, not deduplicated. Existing rows
// for the period are replaced.
func RunInterimProjectGMCalculation(ctx context.Context, clock Clock) (*CalcResult, error) {
	ctx, span := tracer.Start(ctx, "RunInterimProjectGMCalculation")
	defer span.End()

	curMonth, curYear := CurrentPeriod(clock)
	monthYear := PreviousMonthYear(clock)

	lock := acquireUploadLock(ctx, models.InterimProjectGm{}.TableName(), monthYear)
	defer releaseUploadLock(ctx, lock)

	result := &CalcResult{}
	err := config.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		costRows, err := models.ListInterimCostForPeriod(tx, monthYear)
		if err != nil {
			return err
		}
		revenueRows, err := models.ListRevenueForPeriod(tx, curMonth, curYear)
		if err != nil {
			return err
		}

		costByProject := SumCostByProject(costRows)
		revenueByProject := make(map[string]decimal.Decimal, len(revenueRows))
		for _, r := range revenueRows {
			revenueByProject[r.ProjectId] = revenueByProject[r.ProjectId].Add(r.Revenue)
		}

		rows := make([]*models.InterimProjectGm, 0, len(costByProject))
		for _, projectId := range sortedKeys(costByProject) {
			revenue, ok := revenueByProject[projectId]
			if !ok {
				result.Dropped++
				continue
			}
			rows = append(rows, &models.InterimProjectGm{
				ProjectId: projectId,
				Revenue:   revenue,
				Cost:      costByProject[projectId],
				MonthYear: monthYear,
			})
		}

		err = tx.Where("month_year = ?", monthYear).
			Delete(&models.InterimProjectGm{}).Error
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
		config.LogError(config.GetLogger(), "workflow", "RunInterimProjectGMCalculation", monthYear, nil, err)
		return nil, err
	}
	return result, nil
}

// SumCostByProject totals salary + additional cost per project over a
// period's interim cost rows.
func SumCostByProject(rows []*models.InterimCostCalculation) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(rows))
	for _, r := range rows {
		out[r.ProjectId] = out[r.ProjectId].Add(r.Salary).Add(r.AdditionalCost)
	}
	return out
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
