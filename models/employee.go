package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mmdatafocus/gmcalc_backend/config"
	"github.com/mmdatafocus/gmcalc_backend/utils"
)

type Employee struct {
	ID            int       `gorm:"primary_key" json:"id"`
	EmployeeName  string    `gorm:"size:150;not null" json:"employee_name"`
	EmployeeEmail string    `gorm:"size:150;not null;unique" json:"employee_email"`
	Designation   string    `gorm:"size:100" json:"designation"`
	DeliveryUnit  string    `gorm:"size:50;index" json:"delivery_unit"`
	RoleId        int       `gorm:"index" json:"role_id"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewEmployee struct {
	EmployeeName  string `json:"employee_name" binding:"required"`
	EmployeeEmail string `json:"employee_email" binding:"required,email"`
	Designation   string `json:"designation"`
	DeliveryUnit  string `json:"delivery_unit"`
	RoleId        int    `json:"role_id" binding:"required"`
}

func CreateEmployee(ctx context.Context, input *NewEmployee) (*Employee, error) {
	db := config.GetDB()

	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}
	if err := utils.ValidateResourceId[Role](ctx, input.RoleId); err != nil {
		return nil, errors.New("RoleId not found")
	}

	employee := Employee{
		EmployeeName:  input.EmployeeName,
		EmployeeEmail: strings.ToLower(strings.TrimSpace(input.EmployeeEmail)),
		Designation:   input.Designation,
		DeliveryUnit:  input.DeliveryUnit,
		RoleId:        input.RoleId,
	}
	if err := db.WithContext(ctx).Create(&employee).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func UpdateEmployee(ctx context.Context, id int, input *NewEmployee) (*Employee, error) {
	db := config.GetDB()

	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}

	var employee Employee
	if err := db.WithContext(ctx).Take(&employee, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	err := db.WithContext(ctx).Model(&employee).Updates(map[string]interface{}{
		"EmployeeName":  input.EmployeeName,
		"EmployeeEmail": strings.ToLower(strings.TrimSpace(input.EmployeeEmail)),
		"Designation":   input.Designation,
		"DeliveryUnit":  input.DeliveryUnit,
		"RoleId":        input.RoleId,
	}).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func DeleteEmployee(ctx context.Context, id int) error {
	db := config.GetDB()

	var employee Employee
	if err := db.WithContext(ctx).Take(&employee, id).Error; err != nil {
		return utils.ErrorRecordNotFound
	}
	return db.WithContext(ctx).Delete(&employee).Error
}

func GetEmployees(ctx context.Context) ([]*Employee, error) {
	db := config.GetDB()
	var employees []*Employee
	if err := db.WithContext(ctx).Order("employee_name").Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

func GetEmployeeByEmail(ctx context.Context, email string) (*Employee, error) {
	db := config.GetDB()
	var employee Employee
	err := db.WithContext(ctx).
		Where("employee_email = ?", strings.ToLower(strings.TrimSpace(email))).
		Take(&employee).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &employee, nil
}
