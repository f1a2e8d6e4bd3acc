package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DeliveryInvestmentReport is one staffing row from the monthly
// "Delivery Investment Report" sheet: which employee worked on which
// project and what fraction of their time went to it. The row's period
// is the month/year of created_at.
type DeliveryInvestmentReport struct {
	ID                   int             `gorm:"primary_key" json:"id"`
	ServiceType          string          `gorm:"size:100" json:"service_type"`
	AccountName          string          `gorm:"size:200" json:"account_name"`
	Type                 string          `gorm:"size:100" json:"type"`
	DeliveryUnit         string          `gorm:"size:50" json:"delivery_unit"`
	ProjectCode          string          `gorm:"size:50;index" json:"project_code"`
	ProjectName          string          `gorm:"size:200" json:"project_name"`
	EngagementType       string          `gorm:"size:100" json:"engagement_type"`
	StaffingModel        string          `gorm:"size:100" json:"staffing_model"`
	EmployeeId           string          `gorm:"size:50;index" json:"employee_id"`
	EmployeeName         string          `gorm:"size:150" json:"employee_name"`
	Designation          string          `gorm:"size:100" json:"designation"`
	ResourceStatus       string          `gorm:"size:50" json:"resource_status"`
	TechnicalInvolvement decimal.Decimal `gorm:"type:decimal(3,2)" json:"technical_involvement"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

func (DeliveryInvestmentReport) TableName() string {
	return "delivery_investment_report"
}

// ListStaffingForPeriod returns every staffing row whose created_at falls
// in the given calendar month.
func ListStaffingForPeriod(tx *gorm.DB, month int, year int) ([]*DeliveryInvestmentReport, error) {
	var rows []*DeliveryInvestmentReport
	err := tx.
		Where("MONTH(created_at) = ? AND YEAR(created_at) = ?", month, year).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
