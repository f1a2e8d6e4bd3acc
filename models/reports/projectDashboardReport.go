package reports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mmdatafocus/gmcalc_backend/config"
)

type ProjectChartPoint struct {
	Month                 int             `json:"month"`
	Year                  int             `json:"year"`
	TotalRevenue          decimal.Decimal `json:"total_revenue"`
	TotalDirectCost       decimal.Decimal `json:"total_direct_cost"`
	GrossMargin           decimal.Decimal `json:"gross_margin"`
	PercentageGrossMargin decimal.Decimal `json:"percentage_gross_margin"`
}

// GetProjectChartData aggregates a project's per-employee calculations
// into one chart point per month.
func GetProjectChartData(ctx context.Context, projectId int) ([]*ProjectChartPoint, error) {
	sql := `
SELECT
    epc.month,
    epc.year,
    SUM(epc.revenue) AS total_revenue,
    SUM(epc.total_direct_cost) AS total_direct_cost,
    SUM(epc.revenue - epc.total_direct_cost) AS gross_margin,
    CASE
        WHEN SUM(epc.revenue) > 0
            THEN ROUND(SUM(epc.revenue - epc.total_direct_cost) / SUM(epc.revenue) * 100, 2)
        ELSE 0
    END AS percentage_gross_margin
FROM
    employee_project_calculations AS epc
WHERE
    epc.project_id = @projectId
GROUP BY epc.month, epc.year
ORDER BY epc.year, epc.month`

	var records []*ProjectChartPoint
	db := config.GetDB()
	err := db.WithContext(ctx).Raw(sql, map[string]interface{}{
		"projectId": projectId,
	}).Scan(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
