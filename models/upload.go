package models

import (
	"context"
	"time"

	"github.com/mmdatafocus/gmcalc_backend/config"
)

// Upload records one per-project three-workbook upload batch (finance,
// resource allocation and project salary files handled together).
type Upload struct {
	ID               int       `gorm:"primary_key" json:"id"`
	ProjectId        int       `gorm:"not null;index" json:"project_id"`
	FinanceFile      string    `gorm:"size:255" json:"finance_file"`
	ResourceFile     string    `gorm:"size:255" json:"resource_file"`
	SalaryFile       string    `gorm:"size:255" json:"salary_file"`
	FinanceFilePath  string    `gorm:"size:512" json:"finance_file_path"`
	ResourceFilePath string    `gorm:"size:512" json:"resource_file_path"`
	SalaryFilePath   string    `gorm:"size:512" json:"salary_file_path"`
	UploadedBy       int       `gorm:"not null" json:"uploaded_by"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Upload) TableName() string {
	return "uploads"
}

func CreateUpload(ctx context.Context, upload *Upload) error {
	return config.GetDB().WithContext(ctx).Create(upload).Error
}

// UploadRow is the listing shape joined with project and user names.
type UploadRow struct {
	ID           int       `json:"id"`
	ProjectId    int       `json:"project_id"`
	ProjectName  string    `json:"project_name"`
	FinanceFile  string    `json:"finance_file"`
	ResourceFile string    `json:"resource_file"`
	SalaryFile   string    `json:"salary_file"`
	UploadedBy   string    `json:"uploaded_by"`
	CreatedAt    time.Time `json:"created_at"`
}

// ListUploads returns upload batches newest first, optionally scoped to a
// project when projectId > 0.
func ListUploads(ctx context.Context, projectId int) ([]*UploadRow, error) {
	q := config.GetDB().WithContext(ctx).
		Table("uploads AS up").
		Select("up.id, up.project_id, p.project_name, up.finance_file, up.resource_file, up.salary_file, u.name AS uploaded_by, up.created_at").
		Joins("JOIN projects AS p ON p.id = up.project_id").
		Joins("LEFT JOIN users AS u ON u.id = up.uploaded_by").
		Order("up.created_at desc")
	if projectId > 0 {
		q = q.Where("up.project_id = ?", projectId)
	}

	var rows []*UploadRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
