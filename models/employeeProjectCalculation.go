package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EmployeeProjectCalculation is one employee's computed cost/margin for a
// project month, produced by the per-project three-workbook upload.
// Unlike the monthly interim tables it is upserted by its natural key so
// row identity survives recomputation.
type EmployeeProjectCalculation struct {
	ID                    int             `gorm:"primary_key" json:"id"`
	EmployeeId            string          `gorm:"size:50;not null;uniqueIndex:uniq_emp_project_month,priority:1" json:"employee_id"`
	EmployeeName          string          `gorm:"size:150" json:"employee_name"`
	ProjectId             int             `gorm:"not null;uniqueIndex:uniq_emp_project_month,priority:2" json:"project_id"`
	Month                 int             `gorm:"not null;uniqueIndex:uniq_emp_project_month,priority:3" json:"month"`
	Year                  int             `gorm:"not null;uniqueIndex:uniq_emp_project_month,priority:4" json:"year"`
	TotalDirectCost       decimal.Decimal `gorm:"type:decimal(20,2)" json:"total_direct_cost"`
	GrossMargin           decimal.Decimal `gorm:"type:decimal(20,2)" json:"gross_margin"`
	PercentageGrossMargin decimal.Decimal `gorm:"type:decimal(20,2)" json:"percentage_gross_margin"`
	Revenue               decimal.Decimal `gorm:"type:decimal(20,2)" json:"revenue"`
	DeliveryUnit          string          `gorm:"size:50" json:"delivery_unit"`
	CreatedAt             time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (EmployeeProjectCalculation) TableName() string {
	return "employee_project_calculations"
}

// UpsertEmployeeProjectCalculation updates the row matching the natural
// key in place, or inserts a new one. The existing row's id is preserved.
func UpsertEmployeeProjectCalculation(tx *gorm.DB, row *EmployeeProjectCalculation) error {
	var existing EmployeeProjectCalculation
	err := tx.
		Where("employee_id = ? AND project_id = ? AND month = ? AND year = ?",
			row.EmployeeId, row.ProjectId, row.Month, row.Year).
		Take(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(row).Error
	}
	if err != nil {
		return err
	}

	return tx.Model(&existing).Updates(map[string]interface{}{
		"EmployeeName":          row.EmployeeName,
		"TotalDirectCost":       row.TotalDirectCost,
		"GrossMargin":           row.GrossMargin,
		"PercentageGrossMargin": row.PercentageGrossMargin,
		"Revenue":               row.Revenue,
		"DeliveryUnit":          row.DeliveryUnit,
	}).Error
}

// ListEmployeeProjectCalculations returns all per-employee rows for a
// project ordered by period.
func ListEmployeeProjectCalculations(tx *gorm.DB, projectId int) ([]*EmployeeProjectCalculation, error) {
	var rows []*EmployeeProjectCalculation
	err := tx.
		Where("project_id = ?", projectId).
		Order("year, month, employee_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
