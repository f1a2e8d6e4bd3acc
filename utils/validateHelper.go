package utils

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/mmdatafocus/gmcalc_backend/config"
)

var validate = validator.New()

// ValidateStruct runs validator.v10 tag validation on a payload struct.
func ValidateStruct(s any) error {
	return validate.Struct(s)
}

// ValidateResourceId checks that a row with the given id exists.
// Returns ErrorRecordNotFound when it does not.
func ValidateResourceId[T any](ctx context.Context, id interface{}) error {
	db := config.GetDB()
	var model T
	var count int64
	if err := db.WithContext(ctx).Model(&model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count <= 0 {
		return ErrorRecordNotFound
	}
	return nil
}
