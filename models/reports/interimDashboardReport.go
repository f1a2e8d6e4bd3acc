package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmdatafocus/gmcalc_backend/config"
	"github.com/mmdatafocus/gmcalc_backend/models"
	"github.com/mmdatafocus/gmcalc_backend/utils"
)

// DashboardFilter scopes every interim dashboard query. MonthYears is
// the set of "MM/YYYY" period keys to include (a single month or a
// financial year window). Role and EmployeeId restrict non-Admin viewers
// to their own projects.
type DashboardFilter struct {
	MonthYears   []string
	DeliveryUnit *string
	Role         string
	EmployeeId   int
}

func (f DashboardFilter) templateData() map[string]interface{} {
	return map[string]interface{}{
		"deliveryUnit": utils.DereferencePtr(f.DeliveryUnit),
		"scopeManager": f.Role == models.RoleDeliveryManager,
		"scopeHead":    f.Role == models.RoleDeliveryHead,
	}
}

func (f DashboardFilter) namedArgs() map[string]interface{} {
	return map[string]interface{}{
		"monthYears":   f.MonthYears,
		"deliveryUnit": utils.DereferencePtr(f.DeliveryUnit),
		"employeeId":   f.EmployeeId,
	}
}

const dashboardScopeClauses = `
    {{- if .deliveryUnit }} AND p.delivery_unit = @deliveryUnit {{- end }}
    {{- if .scopeManager }} AND p.delivery_manager_id = @employeeId {{- end }}
    {{- if .scopeHead }} AND p.delivery_head_id = @employeeId {{- end }}`

type OrganizationMetricsResponse struct {
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	GrossMargin  decimal.Decimal `json:"gross_margin"`
	GmPercentage decimal.Decimal `json:"gm_percentage"`
	ProjectCount int             `json:"project_count"`
}

// GetOrganizationMetrics totals revenue, cost and margin over every
// project visible to the viewer in the filter window.
func GetOrganizationMetrics(ctx context.Context, filter DashboardFilter) (*OrganizationMetricsResponse, error) {
	sqlT := `
SELECT
    COALESCE(SUM(ipg.revenue), 0) AS total_revenue,
    COALESCE(SUM(ipg.cost), 0) AS total_cost,
    COALESCE(SUM(ipg.revenue - ipg.cost), 0) AS gross_margin,
    CASE
        WHEN COALESCE(SUM(ipg.revenue), 0) > 0
            THEN ROUND(SUM(ipg.revenue - ipg.cost) / SUM(ipg.revenue) * 100, 2)
        ELSE 0
    END AS gm_percentage,
    COUNT(DISTINCT ipg.project_id) AS project_count
FROM
    interim_project_gm AS ipg
        JOIN
    projects AS p ON p.project_code = ipg.project_id
WHERE
    ipg.month_year IN @monthYears` + dashboardScopeClauses

	sql, err := utils.ExecTemplate(sqlT, filter.templateData())
	if err != nil {
		return nil, err
	}

	var record OrganizationMetricsResponse
	db := config.GetDB()
	if err := db.WithContext(ctx).Raw(sql, filter.namedArgs()).Scan(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

type ProjectTrendResponse struct {
	MonthYear    string          `json:"month_year"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	GrossMargin  decimal.Decimal `json:"gross_margin"`
	GmPercentage decimal.Decimal `json:"gm_percentage"`
}

// GetProjectTrends breaks the filter window down month by month.
func GetProjectTrends(ctx context.Context, filter DashboardFilter) ([]*ProjectTrendResponse, error) {
	sqlT := `
SELECT
    ipg.month_year,
    SUM(ipg.revenue) AS total_revenue,
    SUM(ipg.cost) AS total_cost,
    SUM(ipg.revenue - ipg.cost) AS gross_margin,
    CASE
        WHEN SUM(ipg.revenue) > 0
            THEN ROUND(SUM(ipg.revenue - ipg.cost) / SUM(ipg.revenue) * 100, 2)
        ELSE 0
    END AS gm_percentage
FROM
    interim_project_gm AS ipg
        JOIN
    projects AS p ON p.project_code = ipg.project_id
WHERE
    ipg.month_year IN @monthYears` + dashboardScopeClauses + `
GROUP BY ipg.month_year
ORDER BY SUBSTRING(ipg.month_year, 4, 4), SUBSTRING(ipg.month_year, 1, 2)`

	sql, err := utils.ExecTemplate(sqlT, filter.templateData())
	if err != nil {
		return nil, err
	}

	var records []*ProjectTrendResponse
	db := config.GetDB()
	if err := db.WithContext(ctx).Raw(sql, filter.namedArgs()).Scan(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

type ProjectDetailResponse struct {
	ProjectId    string          `json:"project_id"`
	ProjectName  string          `json:"project_name"`
	AccountName  string          `json:"account_name"`
	DeliveryUnit string          `json:"delivery_unit"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	GrossMargin  decimal.Decimal `json:"gross_margin"`
	GmPercentage decimal.Decimal `json:"gm_percentage"`
}

// GetProjectDetails is the per-project breakdown table behind the
// dashboard and its Excel export.
func GetProjectDetails(ctx context.Context, filter DashboardFilter) ([]*ProjectDetailResponse, error) {
	sqlT := `
SELECT
    ipg.project_id,
    p.project_name,
    p.account_name,
    p.delivery_unit,
    SUM(ipg.revenue) AS total_revenue,
    SUM(ipg.cost) AS total_cost,
    SUM(ipg.revenue - ipg.cost) AS gross_margin,
    CASE
        WHEN SUM(ipg.revenue) > 0
            THEN ROUND(SUM(ipg.revenue - ipg.cost) / SUM(ipg.revenue) * 100, 2)
        ELSE 0
    END AS gm_percentage
FROM
    interim_project_gm AS ipg
        JOIN
    projects AS p ON p.project_code = ipg.project_id
WHERE
    ipg.month_year IN @monthYears` + dashboardScopeClauses + `
GROUP BY ipg.project_id, p.project_name, p.account_name, p.delivery_unit
ORDER BY gross_margin DESC`

	sql, err := utils.ExecTemplate(sqlT, filter.templateData())
	if err != nil {
		return nil, err
	}

	var records []*ProjectDetailResponse
	db := config.GetDB()
	if err := db.WithContext(ctx).Raw(sql, filter.namedArgs()).Scan(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// GetAvailableMonths lists every period key with calculated GM data,
// newest first.
func GetAvailableMonths(ctx context.Context) ([]string, error) {
	var months []string
	db := config.GetDB()
	err := db.WithContext(ctx).Raw(`
SELECT DISTINCT month_year
FROM interim_project_gm
ORDER BY SUBSTRING(month_year, 4, 4) DESC, SUBSTRING(month_year, 1, 2) DESC`).
		Scan(&months).Error
	if err != nil {
		return nil, err
	}
	return months, nil
}

// GetAvailableFinancialYears derives the distinct financial year labels
// from the available months, newest first.
func GetAvailableFinancialYears(ctx context.Context) ([]string, error) {
	months, err := GetAvailableMonths(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var years []string
	for _, m := range months {
		label, err := FinancialYearOf(m)
		if err != nil {
			continue
		}
		if !seen[label] {
			seen[label] = true
			years = append(years, label)
		}
	}
	return years, nil
}

// ResolveFilterWindow turns the dashboard query inputs into the period
// key set: an explicit month wins, then a financial year window (YTD for
// the current year), else the previous calendar month.
func ResolveFilterWindow(monthYear string, financialYear string, now time.Time) ([]string, error) {
	if monthYear != "" {
		if _, _, err := SplitMonthYear(monthYear); err != nil {
			return nil, err
		}
		return []string{monthYear}, nil
	}
	if financialYear != "" {
		return MonthYearsIn(financialYear, now)
	}
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	prev := first.AddDate(0, 0, -1)
	return []string{prev.Format("01/2006")}, nil
}
