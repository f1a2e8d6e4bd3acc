package models

import (
	"context"
	"errors"
	"time"

	"github.com/mmdatafocus/gmcalc_backend/config"
	"github.com/mmdatafocus/gmcalc_backend/utils"
)

type Project struct {
	ID                int        `gorm:"primary_key" json:"id"`
	ProjectCode       string     `gorm:"size:50;not null;uniqueIndex" json:"project_code"`
	ProjectName       string     `gorm:"size:200;not null" json:"project_name"`
	EngagementType    string     `gorm:"size:100" json:"engagement_type"`
	StaffingModel     string     `gorm:"size:100" json:"staffing_model"`
	ServiceType       string     `gorm:"size:100" json:"service_type"`
	DeliveryUnit      string     `gorm:"size:50;index" json:"delivery_unit"`
	AccountName       string     `gorm:"size:200" json:"account_name"`
	DeliveryManagerId *int       `gorm:"index" json:"delivery_manager_id"`
	DeliveryHeadId    *int       `gorm:"index" json:"delivery_head_id"`
	StartDate         *time.Time `json:"start_date"`
	EndDate           *time.Time `json:"end_date"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProject struct {
	ProjectCode       string     `json:"project_code" binding:"required"`
	ProjectName       string     `json:"project_name" binding:"required"`
	EngagementType    string     `json:"engagement_type"`
	StaffingModel     string     `json:"staffing_model"`
	ServiceType       string     `json:"service_type"`
	DeliveryUnit      string     `json:"delivery_unit"`
	AccountName       string     `json:"account_name"`
	DeliveryManagerId *int       `json:"delivery_manager_id"`
	DeliveryHeadId    *int       `json:"delivery_head_id"`
	StartDate         *time.Time `json:"start_date"`
	EndDate           *time.Time `json:"end_date"`
}

func (input *NewProject) validate(ctx context.Context) error {
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	if input.DeliveryManagerId != nil {
		if err := utils.ValidateResourceId[Employee](ctx, *input.DeliveryManagerId); err != nil {
			return errors.New("DeliveryManagerId not found")
		}
	}
	if input.DeliveryHeadId != nil {
		if err := utils.ValidateResourceId[Employee](ctx, *input.DeliveryHeadId); err != nil {
			return errors.New("DeliveryHeadId not found")
		}
	}
	return nil
}

func CreateProject(ctx context.Context, input *NewProject) (*Project, error) {
	db := config.GetDB()

	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	project := Project{
		ProjectCode:       input.ProjectCode,
		ProjectName:       input.ProjectName,
		EngagementType:    input.EngagementType,
		StaffingModel:     input.StaffingModel,
		ServiceType:       input.ServiceType,
		DeliveryUnit:      input.DeliveryUnit,
		AccountName:       input.AccountName,
		DeliveryManagerId: input.DeliveryManagerId,
		DeliveryHeadId:    input.DeliveryHeadId,
		StartDate:         input.StartDate,
		EndDate:           input.EndDate,
	}
	if err := db.WithContext(ctx).Create(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func UpdateProject(ctx context.Context, id int, input *NewProject) (*Project, error) {
	db := config.GetDB()

	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	var project Project
	if err := db.WithContext(ctx).Take(&project, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	err := db.WithContext(ctx).Model(&project).Updates(map[string]interface{}{
		"ProjectCode":       input.ProjectCode,
		"ProjectName":       input.ProjectName,
		"EngagementType":    input.EngagementType,
		"StaffingModel":     input.StaffingModel,
		"ServiceType":       input.ServiceType,
		"DeliveryUnit":      input.DeliveryUnit,
		"AccountName":       input.AccountName,
		"DeliveryManagerId": input.DeliveryManagerId,
		"DeliveryHeadId":    input.DeliveryHeadId,
		"StartDate":         input.StartDate,
		"EndDate":           input.EndDate,
	}).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func DeleteProject(ctx context.Context, id int) error {
	db := config.GetDB()

	var project Project
	if err := db.WithContext(ctx).Take(&project, id).Error; err != nil {
		return utils.ErrorRecordNotFound
	}
	return db.WithContext(ctx).Delete(&project).Error
}

func GetProject(ctx context.Context, id int) (*Project, error) {
	db := config.GetDB()
	var project Project
	if err := db.WithContext(ctx).Take(&project, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &project, nil
}

// GetProjectsForViewer scopes the listing by role: Admin sees everything,
// delivery managers/heads see only their own projects.
func GetProjectsForViewer(ctx context.Context, role string, employeeId int) ([]*Project, error) {
	db := config.GetDB()
	var projects []*Project

	dbCtx := db.WithContext(ctx)
	switch role {
	case RoleDeliveryManager:
		dbCtx = dbCtx.Where("delivery_manager_id = ?", employeeId)
	case RoleDeliveryHead:
		dbCtx = dbCtx.Where("delivery_head_id = ?", employeeId)
	}
	if err := dbCtx.Order("project_name").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}
