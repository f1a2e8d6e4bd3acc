package models

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mmdatafocus/gmcalc_backend/config"
	"github.com/mmdatafocus/gmcalc_backend/utils"
)

// USExchangeRate is the INR->USD conversion rate. Effectively a singleton:
// the latest row wins, updates are last-write-wins, and the value is read
// at calculation time rather than stored per calculation.
type USExchangeRate struct {
	ID        int             `gorm:"primary_key" json:"id"`
	Rate      decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"rate"`
	UpdatedBy int             `json:"updated_by"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func GetUSExchangeRate(ctx context.Context) (*USExchangeRate, error) {
	return latestUSExchangeRate(config.GetDB().WithContext(ctx))
}

// LatestUSExchangeRate reads the current rate inside a caller
// transaction, for use by the calculation pipelines.
func LatestUSExchangeRate(tx *gorm.DB) (*USExchangeRate, error) {
	return latestUSExchangeRate(tx)
}

func latestUSExchangeRate(tx *gorm.DB) (*USExchangeRate, error) {
	var rate USExchangeRate
	if err := tx.Order("updated_at desc").Take(&rate).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &rate, nil
}

func UpdateUSExchangeRate(ctx context.Context, rate decimal.Decimal) (*USExchangeRate, error) {
	if rate.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("A valid exchange rate is required.")
	}

	db := config.GetDB()
	userId, _ := utils.GetUserIdFromContext(ctx)

	var current USExchangeRate
	err := db.WithContext(ctx).Order("updated_at desc").Take(&current).Error
	if err != nil {
		current = USExchangeRate{Rate: rate, UpdatedBy: userId}
		if err := db.WithContext(ctx).Create(&current).Error; err != nil {
			return nil, err
		}
		return &current, nil
	}

	err = db.WithContext(ctx).Model(&current).Updates(map[string]interface{}{
		"Rate":      rate,
		"UpdatedBy": userId,
	}).Error
	if err != nil {
		return nil, err
	}
	return &current, nil
}
