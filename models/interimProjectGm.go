package models

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mmdatafocus/gmcalc_backend/config"
)

// InterimProjectGm is the project-level rollup of interim cost rows for a
// period. Gross margin is not stored; read-side queries derive it as
// revenue - cost.
type InterimProjectGm struct {
	ID        int             `gorm:"primary_key" json:"id"`
	ProjectId string          `gorm:"size:50;index;not null" json:"project_id"`
	Revenue   decimal.Decimal `gorm:"type:decimal(20,2)" json:"revenue"`
	Cost      decimal.Decimal `gorm:"type:decimal(20,2)" json:"cost"`
	MonthYear string          `gorm:"size:7;index;not null" json:"month_year"`
}

func (InterimProjectGm) TableName() string {
	return "interim_project_gm"
}

func GetAllInterimProjectGM(ctx context.Context) ([]*InterimProjectGm, error) {
	db := config.GetDB()
	var rows []*InterimProjectGm
	if err := db.WithContext(ctx).Order("id desc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
