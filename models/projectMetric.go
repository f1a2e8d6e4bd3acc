package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProjectMetric is the monthly project-level rollup of
// EmployeeProjectCalculation rows. PercentageGrossMargin is always
// recomputed from the summed totals, never averaged across employees.
type ProjectMetric struct {
	ID                    int             `gorm:"primary_key" json:"id"`
	ProjectId             int             `gorm:"not null;uniqueIndex:uniq_project_month,priority:1" json:"project_id"`
	Month                 int             `gorm:"not null;uniqueIndex:uniq_project_month,priority:2" json:"month"`
	Year                  int             `gorm:"not null;uniqueIndex:uniq_project_month,priority:3" json:"year"`
	TotalCost             decimal.Decimal `gorm:"type:decimal(20,2)" json:"total_cost"`
	TotalRevenue          decimal.Decimal `gorm:"type:decimal(20,2)" json:"total_revenue"`
	GrossMargin           decimal.Decimal `gorm:"type:decimal(20,2)" json:"gross_margin"`
	PercentageGrossMargin decimal.Decimal `gorm:"type:decimal(20,2)" json:"percentage_gross_margin"`
	CreatedAt             time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ProjectMetric) TableName() string {
	return "project_metrics"
}

// UpsertProjectMetric updates the row matching (project, month, year) in
// place, or inserts a new one.
func UpsertProjectMetric(tx *gorm.DB, row *ProjectMetric) error {
	var existing ProjectMetric
	err := tx.
		Where("project_id = ? AND month = ? AND year = ?", row.ProjectId, row.Month, row.Year).
		Take(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(row).Error
	}
	if err != nil {
		return err
	}

	return tx.Model(&existing).Updates(map[string]interface{}{
		"TotalCost":             row.TotalCost,
		"TotalRevenue":          row.TotalRevenue,
		"GrossMargin":           row.GrossMargin,
		"PercentageGrossMargin": row.PercentageGrossMargin,
	}).Error
}

// ListProjectMetrics returns a project's monthly rollups ordered by period.
func ListProjectMetrics(tx *gorm.DB, projectId int) ([]*ProjectMetric, error) {
	var rows []*ProjectMetric
	err := tx.
		Where("project_id = ?", projectId).
		Order("year, month").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
