package models

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mmdatafocus/gmcalc_backend/config"
	"github.com/mmdatafocus/gmcalc_backend/utils"
)

// AdditionalCost is a named flat cost entry. The sum of all entries is
// applied in full to every interim cost row for the period; it is never
// divided across employees or projects.
type AdditionalCost struct {
	ID        int             `gorm:"primary_key" json:"id"`
	CostName  string          `gorm:"size:150;not null" json:"cost_name"`
	Cost      decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"cost"`
	CreatedBy int             `json:"created_by"`
	UpdatedBy int             `json:"updated_by"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewAdditionalCost struct {
	CostName string          `json:"cost_name" binding:"required"`
	Cost     decimal.Decimal `json:"cost" binding:"required"`
}

func CreateAdditionalCost(ctx context.Context, input *NewAdditionalCost) (*AdditionalCost, error) {
	db := config.GetDB()

	userId, _ := utils.GetUserIdFromContext(ctx)
	cost := AdditionalCost{
		CostName:  input.CostName,
		Cost:      input.Cost,
		CreatedBy: userId,
	}
	if err := db.WithContext(ctx).Create(&cost).Error; err != nil {
		return nil, err
	}
	return &cost, nil
}

func UpdateAdditionalCost(ctx context.Context, id int, input *NewAdditionalCost) (*AdditionalCost, error) {
	db := config.GetDB()

	var cost AdditionalCost
	if err := db.WithContext(ctx).Take(&cost, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	userId, _ := utils.GetUserIdFromContext(ctx)
	err := db.WithContext(ctx).Model(&cost).Updates(map[string]interface{}{
		"CostName":  input.CostName,
		"Cost":      input.Cost,
		"UpdatedBy": userId,
	}).Error
	if err != nil {
		return nil, err
	}
	return &cost, nil
}

func GetAdditionalCosts(ctx context.Context) ([]*AdditionalCost, error) {
	db := config.GetDB()
	var costs []*AdditionalCost
	if err := db.WithContext(ctx).Order("id desc").Find(&costs).Error; err != nil {
		return nil, err
	}
	return costs, nil
}

// SumAdditionalCosts returns the flat sum of all entries, zero when the
// table is empty.
func SumAdditionalCosts(tx *gorm.DB) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := tx.Model(&AdditionalCost{}).
		Select("COALESCE(SUM(cost), 0)").
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}
