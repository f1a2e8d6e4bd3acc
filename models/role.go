package models

import (
	"context"
	"time"

	"github.com/mmdatafocus/gmcalc_backend/config"
	"github.com/mmdatafocus/gmcalc_backend/utils"
)

const (
	RoleAdmin           = "Admin"
	RoleDeliveryManager = "Delivery Manager"
	RoleDeliveryHead    = "Delivery Head"
)

type Role struct {
	ID        int       `gorm:"primary_key" json:"id"`
	RoleName  string    `gorm:"size:100;not null;unique" json:"role_name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func GetRole(ctx context.Context, id int) (*Role, error) {
	db := config.GetDB()
	var role Role
	if err := db.WithContext(ctx).Take(&role, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &role, nil
}

func GetRoles(ctx context.Context) ([]*Role, error) {
	db := config.GetDB()
	var roles []*Role
	if err := db.WithContext(ctx).Order("id").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// SeedRoles inserts the built-in roles when they are missing.
func SeedRoles(ctx context.Context) error {
	db := config.GetDB()
	for _, name := range []string{RoleAdmin, RoleDeliveryManager, RoleDeliveryHead} {
		var count int64
		if err := db.WithContext(ctx).Model(&Role{}).Where("role_name = ?", name).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if err := db.WithContext(ctx).Create(&Role{RoleName: name}).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
