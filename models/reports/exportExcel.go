package reports

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

var projectDetailHeaders = []string{
	"Project ID", "Project Name", "Account Name", "DU",
	"Revenue", "Cost", "Gross Margin", "GM %",
}

// ExportProjectDetailsExcel renders the project details table as an xlsx
// workbook ready to stream to the client.
func ExportProjectDetailsExcel(ctx context.Context, filter DashboardFilter) (*bytes.Buffer, error) {
	records, err := GetProjectDetails(ctx, filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for i, h := range projectDetailHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for rowIdx, r := range records {
		values := []interface{}{
			r.ProjectId,
			r.ProjectName,
			r.AccountName,
			r.DeliveryUnit,
			r.TotalRevenue.InexactFloat64(),
			r.TotalCost.InexactFloat64(),
			r.GrossMargin.InexactFloat64(),
			r.GmPercentage.InexactFloat64(),
		}
		for colIdx, v := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	return f.WriteToBuffer()
}

// ExportFileName builds the attachment name for a dashboard export.
func ExportFileName(monthYear string, financialYear string) string {
	switch {
	case monthYear != "":
		month, year, err := SplitMonthYear(monthYear)
		if err == nil {
			return fmt.Sprintf("project-details-%02d-%04d.xlsx", month, year)
		}
	case financialYear != "":
		return fmt.Sprintf("project-details-fy-%s.xlsx", financialYear)
	}
	return "project-details.xlsx"
}
