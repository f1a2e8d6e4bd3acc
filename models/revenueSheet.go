package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RevenueSheet is one project's revenue row for the period of created_at.
type RevenueSheet struct {
	ID           int             `gorm:"primary_key" json:"id"`
	ServiceType  string          `gorm:"size:100" json:"service_type"`
	DeliveryUnit string          `gorm:"size:50" json:"delivery_unit"`
	ProjectId    string          `gorm:"size:50;index;not null" json:"project_id"`
	ProjectName  string          `gorm:"size:200;not null" json:"project_name"`
	AccountName  string          `gorm:"size:200" json:"account_name"`
	Revenue      decimal.Decimal `gorm:"type:decimal(20,2)" json:"revenue"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (RevenueSheet) TableName() string {
	return "revenue"
}

// ListRevenueForPeriod returns every revenue row whose created_at falls in
// the given calendar month. Duplicate project ids are returned as-is; the
// aggregator does not deduplicate them.
func ListRevenueForPeriod(tx *gorm.DB, month int, year int) ([]*RevenueSheet, error) {
	var rows []*RevenueSheet
	err := tx.
		Where("MONTH(created_at) = ? AND YEAR(created_at) = ?", month, year).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
