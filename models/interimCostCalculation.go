package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InterimCostCalculation is one computed cost row per (project, employee)
// per period. Salary is the converted, involvement-prorated monthly cost;
// AdditionalCost is the flat organization-wide sum applied to every row.
type InterimCostCalculation struct {
	ID                   int             `gorm:"primary_key" json:"id"`
	ProjectId            string          `gorm:"size:50;index;not null" json:"project_id"`
	EmployeeId           string          `gorm:"size:50;index;not null" json:"employee_id"`
	TechnicalInvolvement decimal.Decimal `gorm:"type:decimal(3,2)" json:"technical_involvement"`
	Salary               decimal.Decimal `gorm:"type:decimal(20,2)" json:"salary"`
	AdditionalCost       decimal.Decimal `gorm:"type:decimal(20,2)" json:"additional_cost"`
	MonthYear            string          `gorm:"size:7;index;not null" json:"month_year"`
}

func (InterimCostCalculation) TableName() string {
	return "interim_cost_calculation"
}

func ListInterimCostForPeriod(tx *gorm.DB, monthYear string) ([]*InterimCostCalculation, error) {
	var rows []*InterimCostCalculation
	if err := tx.Where("month_year = ?", monthYear).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
