package data

import (
	"errors"

	"gorm.io/gorm"

	"github.com/querysync/querysync/src/api/types"
)

func GetUserByEmail(db *gorm.DB, email string) (*types.User, error) {
	var u types.User
	err := db.Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func GetUserByUsername(db *gorm.DB, username string) (*types.User, error) {
	var u types.User
	err := db.Where("username = ?", username).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func GetUserByID(db *gorm.DB, id uint64) (*types.User, error) {
	var u types.User
	err := db.First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser registers a new account. Every self-registered user is an admin.
func CreateUser(db *gorm.DB, username, email, passwordHash string) (*types.User, error) {
	u := types.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         types.RoleAdmin,
	}
	if err := db.Create(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// AllAdminEmails lists every admin address for notification fan-out.
func AllAdminEmails(db *gorm.DB) ([]string, error) {
	var emails []string
	err := db.Model(&types.User{}).
		Where("role = ?", types.RoleAdmin).
		Pluck("email", &emails).Error
	if err != nil {
		return nil, err
	}
	return emails, nil
}
