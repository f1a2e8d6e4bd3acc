package sheets

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmdatafocus/gmcalc_backend/models"
)

// Column names are matched exactly against the header row, so uploads
// tolerate column reorder but not rename. The spellings below, including
// "Employe Name", are the spellings the workbooks actually carry.
const (
	colServiceType          = "Service Type"
	colAccountName          = "Account Name"
	colType                 = "Type"
	colDeliveryUnit         = "DU"
	colProjectID            = "Project ID"
	colProjectId            = "Project Id"
	colProjectName          = "Project Name"
	colEngagementType       = "Engagement Type"
	colStaffingModel        = "Staffing Model"
	colEmployeeID           = "Employee ID"
	colEmployeName          = "Employe Name"
	colDesignation          = "Designation"
	colResourceStatus       = "Resource Status"
	colTechInvolvement      = "Technical Involvement"
	colEmployeeCode         = "Employee Code"
	colEmployeeName         = "Employee Name"
	colDateOfJoining        = "Date Of Joining"
	colCurrentDesignation   = "Current Designation"
	colGrade                = "Grade"
	colCurrentDepartment    = "Current Department"
	colCTC                  = "CTC"
	colAdditionalCost       = "Additional cost"
	colRevenue              = "Revenue"
	colMonth                = "Month"
	colYear                 = "Year"
	colComputerRent         = "Computer rent"
	colOtherCost            = "Other cost"
	colDeliveryUnitTechOH   = "Sum of Delivery Unit wise Tech OH"
	colAnnualCTC            = "Annual CTC"
)

// parseAmount strips thousands separators before decimal parsing.
// Empty cells map to zero.
func parseAmount(cell string) (decimal.Decimal, error) {
	cell = strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	if cell == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(cell)
}

// FinanceRow is one row of the per-project finance workbook.
type FinanceRow struct {
	Month              int
	Year               int
	EmployeeId         string
	Revenue            decimal.Decimal
	ComputerRent       decimal.Decimal
	OtherCost          decimal.Decimal
	DeliveryUnitTechOH decimal.Decimal
}

// ResourceRow is one row of the per-project resource allocation workbook.
type ResourceRow struct {
	Month                int
	Year                 int
	EmployeeId           string
	EmployeeName         string
	ProjectName          string
	Designation          string
	ServiceType          string
	TechnicalInvolvement decimal.Decimal
}

// ProjectSalaryRow is one row of the per-project salary workbook.
type ProjectSalaryRow struct {
	Month        int
	Year         int
	EmployeeCode string
	AnnualCTC    decimal.Decimal
}

// MapStaffingRows maps monthly staffing workbook rows. Rows without an
// employee id or project id are skipped and reported.
func MapStaffingRows(rows []Row) ([]*models.DeliveryInvestmentReport, []string) {
	var out []*models.DeliveryInvestmentReport
	var errs []string
	for i, row := range rows {
		if row[colEmployeeID] == "" || row[colProjectID] == "" {
			errs = append(errs, fmt.Sprintf("row %d: missing employee or project id", i+2))
			continue
		}
		ti, err := parseAmount(row[colTechInvolvement])
		if err != nil {
			errs = append(errs, fmt.Sprintf("row %d: invalid technical involvement: %v", i+2, err))
			continue
		}
		out = append(out, &models.DeliveryInvestmentReport{
			ServiceType:          row[colServiceType],
			AccountName:          row[colAccountName],
			Type:                 row[colType],
			DeliveryUnit:         row[colDeliveryUnit],
			ProjectCode:          row[colProjectID],
			ProjectName:          row[colProjectName],
			EngagementType:       row[colEngagementType],
			StaffingModel:        row[colStaffingModel],
			EmployeeId:           row[colEmployeeID],
			EmployeeName:         row[colEmployeName],
			Designation:          row[colDesignation],
			ResourceStatus:       row[colResourceStatus],
			TechnicalInvolvement: ti,
		})
	}
	return out, errs
}

// MapSalaryRows maps monthly salary workbook rows. Employee code, name
// and joining date are required.
func MapSalaryRows(rows []Row) ([]*models.SalarySheet, []string) {
	var out []*models.SalarySheet
	var errs []string
	for i, row := range rows {
		if row[colEmployeeCode] == "" || row[colEmployeeName] == "" || row[colDateOfJoining] == "" {
			errs = append(errs, fmt.Sprintf("row %d: missing employee code, name or joining date", i+2))
			continue
		}
		doj, err := ParseSheetDate(row[colDateOfJoining])
		if err != nil {
			errs = append(errs, fmt.Sprintf("row %d: %v", i+2, err))
			continue
		}
		ctc, err := parseAmount(row[colCTC])
		if err != nil {
			errs = append(errs, fmt.Sprintf("row %d: invalid CTC: %v", i+2, err))
			continue
		}
		addl, err := parseAmount(row[colAdditionalCost])
		if err != nil {
			errs = append(errs, fmt.Sprintf("row %d: invalid additional cost: %v", i+2, err))
			continue
		}
		out = append(out, &models.SalarySheet{
			EmployeeCode:           row[colEmployeeCode],
			EmployeeName:           row[colEmployeeName],
			DateOfJoining:          doj,
			CurrentDesignation:     row[colCurrentDesignation],
			Grade:                  row[colGrade],
			CurrentDepartment:      row[colCurrentDepartment],
			CTC:                    ctc,
			AdditionalCostEmployee: addl,
		})
	}
	return out, errs
}

// MapRevenueRows maps monthly revenue workbook rows. Project id and name
// are required; revenue cells may carry thousands separators.
func MapRevenueRows(rows []Row) ([]*models.RevenueSheet, []string) {
	var out []*models.RevenueSheet
	var errs []string
	for i, row := range rows {
		if row[colProjectId] == "" || row[colProjectName] == "" {
			errs = append(errs, fmt.Sprintf("row %d: missing project id or name", i+2))
			continue
		}
		revenue, err := parseAmount(row[colRevenue])
		if err != nil {
			errs = append(errs, fmt.Sprintf("row %d: invalid revenue: %v", i+2, err))
			continue
		}
		out = append(out, &models.RevenueSheet{
			ServiceType:  row[colServiceType],
			DeliveryUnit: row[colDeliveryUnit],
			ProjectId:    row[colProjectId],
			ProjectName:  row[colProjectName],
			AccountName:  row[colAccountName],
			Revenue:      revenue,
		})
	}
	return out, errs
}

func parsePeriod(row Row, idx int) (int, int, error) {
	month, err := strconv.Atoi(strings.TrimSpace(row[colMonth]))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("row %d: invalid month %q", idx+2, row[colMonth])
	}
	year, err := strconv.Atoi(strings.TrimSpace(row[colYear]))
	if err != nil || year < 2000 {
		return 0, 0, fmt.Errorf("row %d: invalid year %q", idx+2, row[colYear])
	}
	return month, year, nil
}

// MapFinanceRows maps per-project finance workbook rows.
func MapFinanceRows(rows []Row) ([]FinanceRow, []string) {
	var out []FinanceRow
	var errs []string
	for i, row := range rows {
		if row[colEmployeeID] == "" {
			errs = append(errs, fmt.Sprintf("row %d: missing employee id", i+2))
			continue
		}
		month, year, err := parsePeriod(row, i)
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}
		revenue, err := parseAmount(row[colRevenue])
		if err != nil {
			errs = append(errs, fmt.Sprintf("row %d: invalid revenue: %v", i+2, err))
			continue
		}
		rent, err := parseAmount(row[colComputerRent])
		if err != nil {
			errs = append(errs, fmt.Sprintf("row %d: invalid computer rent: %v", i+2, err))
			continue
		}
		other, err := parseAmount(row[colOtherCost])
		if err != nil {
			errs = append(errs, fmt.Sprintf("row %d: invalid other cost: %v", i+2, err))
			continue
		}
		techOH, err := parseAmount(row[colDeliveryUnitTechOH])
		if err != nil {
			errs = append(errs, fmt.Sprintf("row %d: invalid tech OH: %v", i+2, err))
			continue
		}
		out = append(out, FinanceRow{
			Month:              month,
			Year:               year,
			EmployeeId:         row[colEmployeeID],
			Revenue:            revenue,
			ComputerRent:       rent,
			OtherCost:          other,
			DeliveryUnitTechOH: techOH,
		})
	}
	return out, errs
}

// MapResourceRows maps per-project resource allocation workbook rows.
func MapResourceRows(rows []Row) ([]ResourceRow, []string) {
	var out []ResourceRow
	var errs []string
	for i, row := range rows {
		if row[colEmployeeID] == "" {
			errs = append(errs, fmt.Sprintf("row %d: missing employee id", i+2))
			continue
		}
		month, year, err := parsePeriod(row, i)
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}
		ti, err := parseAmount(row[colTechInvolvement])
		if err != nil {
			errs = append(errs, fmt.Sprintf("row %d: invalid technical involvement: %v", i+2, err))
			continue
		}
		out = append(out, ResourceRow{
			Month:                month,
			Year:                 year,
			EmployeeId:           row[colEmployeeID],
			EmployeeName:         row[colEmployeName],
			ProjectName:          row[colProjectName],
			Designation:          row[colDesignation],
			ServiceType:          row[colServiceType],
			TechnicalInvolvement: ti,
		})
	}
	return out, errs
}

// MapProjectSalaryRows maps per-project salary workbook rows.
func MapProjectSalaryRows(rows []Row) ([]ProjectSalaryRow, []string) {
	var out []ProjectSalaryRow
	var errs []string
	for i, row := range rows {
		if row[colEmployeeCode] == "" {
			errs = append(errs, fmt.Sprintf("row %d: missing employee code", i+2))
			continue
		}
		month, year, err := parsePeriod(row, i)
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}
		ctc, err := parseAmount(row[colAnnualCTC])
		if err != nil {
			errs = append(errs, fmt.Sprintf("row %d: invalid annual CTC: %v", i+2, err))
			continue
		}
		out = append(out, ProjectSalaryRow{
			Month:        month,
			Year:         year,
			EmployeeCode: row[colEmployeeCode],
			AnnualCTC:    ctc,
		})
	}
	return out, errs
}
