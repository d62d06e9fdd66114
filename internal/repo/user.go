package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Skotchmaster/expense_tracker/internal/models"
	"github.com/Skotchmaster/expense_tracker/internal/transport"
)

var ErrUserNotFound = errors.New("user not found")

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Create(u).Error
}

func (r *GormRepo) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) EmailTaken(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) ListUsers(ctx context.Context) ([]transport.UserListItem, error) {
	var items []transport.UserListItem
	if err := r.DB.WithContext(ctx).Model(&models.User{}).
		Select("id, username").
		Order("id ASC").
		Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
