package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SalarySheet is one employee's salary row for the period of created_at.
// CTC is annual; AdditionalCostEmployee is a per-employee monthly extra.
type SalarySheet struct {
	ID                     int             `gorm:"primary_key" json:"id"`
	EmployeeCode           string          `gorm:"size:50;index;not null" json:"employee_code"`
	EmployeeName           string          `gorm:"size:150;not null" json:"employee_name"`
	DateOfJoining          time.Time       `gorm:"type:date;not null" json:"date_of_joining"`
	CurrentDesignation     string          `gorm:"size:100" json:"current_designation"`
	Grade                  string          `gorm:"size:50" json:"grade"`
	CurrentDepartment      string          `gorm:"size:100" json:"current_department"`
	CTC                    decimal.Decimal `gorm:"type:decimal(20,2)" json:"ctc"`
	AdditionalCostEmployee decimal.Decimal `gorm:"type:decimal(20,2);default:0" json:"additional_cost_employee"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
}

func (SalarySheet) TableName() string {
	return "salary_sheet"
}

// SalaryLookupForPeriod keys the period's salary rows by employee code.
// When a code appears twice the later row wins.
func SalaryLookupForPeriod(tx *gorm.DB, month int, year int) (map[string]*SalarySheet, error) {
	var rows []*SalarySheet
	err := tx.
		Where("MONTH(created_at) = ? AND YEAR(created_at) = ?", month, year).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	lookup := make(map[string]*SalarySheet, len(rows))
	for _, row := range rows {
		lookup[row.EmployeeCode] = row
	}
	return lookup, nil
}
