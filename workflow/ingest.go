package workflow

import (
	"context"
	"time"

	"github.com/mmdatafocus/gmcalc_backend/models"
)

// The three monthly uploads all replace the current month's rows
// wholesale. Timestamps are stamped here rather than left to gorm so the
// earliest created_at of a re-uploaded period survives.

func IngestStaffingRows(ctx context.Context, clock Clock, rows []*models.DeliveryInvestmentReport) error {
	return ReplaceForPeriod(ctx, clock, models.DeliveryInvestmentReport{}.TableName(), rows,
		func(r *models.DeliveryInvestmentReport, createdAt, updatedAt time.Time) {
			r.CreatedAt = createdAt
			r.UpdatedAt = updatedAt
		})
}

func IngestSalaryRows(ctx context.Context, clock Clock, rows []*models.SalarySheet) error {
	return ReplaceForPeriod(ctx, clock, models.SalarySheet{}.TableName(), rows,
		func(r *models.SalarySheet, createdAt, updatedAt time.Time) {
			r.CreatedAt = createdAt
			r.UpdatedAt = updatedAt
		})
}

func IngestRevenueRows(ctx context.Context, clock Clock, rows []*models.RevenueSheet) error {
	return ReplaceForPeriod(ctx, clock, models.RevenueSheet{}.TableName(), rows,
		func(r *models.RevenueSheet, createdAt, updatedAt time.Time) {
			r.CreatedAt = createdAt
			r.UpdatedAt = updatedAt
		})
}
