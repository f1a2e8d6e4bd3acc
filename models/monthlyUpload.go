package models

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mmdatafocus/gmcalc_backend/config"
	"github.com/mmdatafocus/gmcalc_backend/utils"
)

// MonthlySheet is the catalog of uploadable workbook kinds (Finance Input,
// RM Allocation, Project salary and so on). Rows are seeded once and
// referenced by MonthlyUploadedSheet.
type MonthlySheet struct {
	ID        int       `gorm:"primary_key" json:"id"`
	SheetName string    `gorm:"size:191;not null;unique" json:"sheet_name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (MonthlySheet) TableName() string {
	return "monthly_sheets"
}

// MonthlyUploadedSheet records one version of a monthly workbook upload.
// Exactly one row per sheet kind carries is_current = true.
type MonthlyUploadedSheet struct {
	ID         int       `gorm:"primary_key" json:"id"`
	SheetId    int       `gorm:"not null;index" json:"sheet_id"`
	Version    int       `gorm:"not null" json:"version"`
	FileName   string    `gorm:"size:255;not null" json:"file_name"`
	FilePath   string    `gorm:"size:512" json:"file_path"`
	UploadedBy int       `gorm:"not null" json:"uploaded_by"`
	IsCurrent  bool      `gorm:"not null;default:false" json:"is_current"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (MonthlyUploadedSheet) TableName() string {
	return "monthly_uploaded_sheets"
}

var monthlySheetNames = []string{
	"Finance Input",
	"RM Allocation",
	"Project salary",
	"Staffing",
	"Salary",
	"Revenue",
}

// SeedMonthlySheets inserts the sheet catalog if missing.
func SeedMonthlySheets(ctx context.Context) error {
	db := config.GetDB().WithContext(ctx)
	for _, name := range monthlySheetNames {
		var sheet MonthlySheet
		err := db.Where("sheet_name = ?", name).Take(&sheet).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&MonthlySheet{SheetName: name}).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// GetMonthlySheetByName resolves a catalog entry by its display name.
func GetMonthlySheetByName(ctx context.Context, name string) (*MonthlySheet, error) {
	var sheet MonthlySheet
	err := config.GetDB().WithContext(ctx).
		Where("sheet_name = ?", name).
		Take(&sheet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrorRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sheet, nil
}

// TrackMonthlyUpload appends a new version for the sheet kind, flipping
// is_current off the previous version inside one transaction.
func TrackMonthlyUpload(ctx context.Context, sheetId int, fileName string, filePath string, uploadedBy int) (*MonthlyUploadedSheet, error) {
	db := config.GetDB().WithContext(ctx)

	row := &MonthlyUploadedSheet{
		SheetId:    sheetId,
		FileName:   fileName,
		FilePath:   filePath,
		UploadedBy: uploadedBy,
		IsCurrent:  true,
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		var latest MonthlyUploadedSheet
		err := tx.
			Where("sheet_id = ?", sheetId).
			Order("version desc").
			Take(&latest).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			row.Version = 1
		case err != nil:
			return err
		default:
			row.Version = latest.Version + 1
			err = tx.Model(&MonthlyUploadedSheet{}).
				Where("sheet_id = ? AND is_current = ?", sheetId, true).
				Update("is_current", false).Error
			if err != nil {
				return err
			}
		}
		return tx.Create(row).Error
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

// GetMonthlyUploadedSheet fetches one upload version by id.
func GetMonthlyUploadedSheet(ctx context.Context, id int) (*MonthlyUploadedSheet, error) {
	var row MonthlyUploadedSheet
	err := config.GetDB().WithContext(ctx).Take(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrorRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// UploadedSheetRow is the listing shape joined with sheet and user names.
type UploadedSheetRow struct {
	ID         int       `json:"id"`
	SheetName  string    `json:"sheet_name"`
	Version    int       `json:"version"`
	FileName   string    `json:"file_name"`
	FilePath   string    `json:"file_path"`
	UploadedBy string    `json:"uploaded_by"`
	IsCurrent  bool      `json:"is_current"`
	CreatedAt  time.Time `json:"created_at"`
}

// ListUploadedSheets returns all monthly upload versions, newest first.
func ListUploadedSheets(ctx context.Context) ([]*UploadedSheetRow, error) {
	var rows []*UploadedSheetRow
	err := config.GetDB().WithContext(ctx).
		Table("monthly_uploaded_sheets AS mus").
		Select("mus.id, ms.sheet_name, mus.version, mus.file_name, mus.file_path, u.name AS uploaded_by, mus.is_current, mus.created_at").
		Joins("JOIN monthly_sheets AS ms ON ms.id = mus.sheet_id").
		Joins("LEFT JOIN users AS u ON u.id = mus.uploaded_by").
		Order("mus.created_at desc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
