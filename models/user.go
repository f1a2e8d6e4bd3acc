package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mmdatafocus/gmcalc_backend/config"
	"github.com/mmdatafocus/gmcalc_backend/utils"
)

type User struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:100;not null;unique" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	RoleId    int       `gorm:"not null;index" json:"role_id"`
	IsActive  *bool     `gorm:"not null;default:1" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	RoleId   int    `json:"role_id" binding:"required"`
}

/*
caches:
	User:$email
*/

func (user User) removeInstanceRedis() error {
	return config.DeleteRedisKey("User:" + user.Email)
}

func CreateUser(ctx context.Context, input *NewUser) (*User, error) {
	db := config.GetDB()

	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}
	if err := utils.ValidateResourceId[Role](ctx, input.RoleId); err != nil {
		return nil, errors.New("RoleId not found")
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := User{
		Name:     input.Name,
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Password: string(hashed),
		RoleId:   input.RoleId,
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail reads through the Redis cache first; falls back to the DB.
func GetUserByEmail(ctx context.Context, email string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user User
	exists, err := config.GetRedisObject("User:"+email, &user)
	if err == nil && exists {
		return &user, nil
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Where("email = ?", email).Take(&user).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	_ = config.SetRedisObject("User:"+email, user, 15*time.Minute)
	return &user, nil
}

// Authenticate verifies credentials and returns a signed JWT.
func Authenticate(ctx context.Context, email string, password string) (string, *User, error) {
	user, err := GetUserByEmail(ctx, email)
	if err != nil {
		return "", nil, errors.New("invalid email or password")
	}
	if user.IsActive != nil && !*user.IsActive {
		return "", nil, errors.New("user is inactive")
	}
	if err := utils.ComparePassword(user.Password, password); err != nil {
		return "", nil, errors.New("invalid email or password")
	}

	role, err := GetRole(ctx, user.RoleId)
	if err != nil {
		return "", nil, err
	}

	token, err := utils.JwtGenerate(user.ID, user.Email, role.RoleName)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func UpdateUserPassword(ctx context.Context, id int, password string) error {
	db := config.GetDB()

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	var user User
	if err := db.WithContext(ctx).Take(&user, id).Error; err != nil {
		return utils.ErrorRecordNotFound
	}
	if err := db.WithContext(ctx).Model(&user).Update("password", string(hashed)).Error; err != nil {
		return err
	}
	return user.removeInstanceRedis()
}
