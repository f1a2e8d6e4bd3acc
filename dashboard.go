package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mmdatafocus/gmcalc_backend/models/reports"
	"github.com/mmdatafocus/gmcalc_backend/workflow"
)

// dashboardFilter builds the common query scope from the request:
// ?month_year=MM/YYYY or ?financial_year=YYYY-YY pick the window,
// ?delivery_unit=DU narrows it, and the viewer's role caps visibility.
func dashboardFilter(c *gin.Context, clock workflow.Clock) (reports.DashboardFilter, bool) {
	monthYear := c.Query("month_year")
	financialYear := c.Query("financial_year")

	window, err := reports.ResolveFilterWindow(monthYear, financialYear, clock.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid period", "details": err.Error()})
		return reports.DashboardFilter{}, false
	}

	filter := reports.DashboardFilter{MonthYears: window}
	if du := c.Query("delivery_unit"); du != "" {
		filter.DeliveryUnit = &du
	}
	filter.Role, filter.EmployeeId = viewerScope(c)
	return filter, true
}

func organizationMetricsHandler(clock workflow.Clock) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, ok := dashboardFilter(c, clock)
		if !ok {
			return
		}
		metrics, err := reports.GetOrganizationMetrics(c.Request.Context(), filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch organization metrics", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": metrics})
	}
}

func projectTrendsHandler(clock workflow.Clock) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, ok := dashboardFilter(c, clock)
		if !ok {
			return
		}
		trends, err := reports.GetProjectTrends(c.Request.Context(), filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch project trends", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": trends})
	}
}

func projectDetailsHandler(clock workflow.Clock) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, ok := dashboardFilter(c, clock)
		if !ok {
			return
		}
		details, err := reports.GetProjectDetails(c.Request.Context(), filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch project details", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": details})
	}
}

func availableMonthsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		months, err := reports.GetAvailableMonths(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch available months", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": months})
	}
}

func financialYearsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		years, err := reports.GetAvailableFinancialYears(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch financial years", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": years})
	}
}

func exportProjectDetailsHandler(clock workflow.Clock) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, ok := dashboardFilter(c, clock)
		if !ok {
			return
		}
		buf, err := reports.ExportProjectDetailsExcel(c.Request.Context(), filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export project details", "details": err.Error()})
			return
		}

		fileName := reports.ExportFileName(c.Query("month_year"), c.Query("financial_year"))
		c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
		c.Data(http.StatusOK,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			buf.Bytes())
	}
}
