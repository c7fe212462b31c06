package store

import (
	"Market/models"
	"context"
	"errors"
	"gorm.io/gorm"
)

func (s *Store) FindUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "username = ?", username).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) exists(ctx context.Context, column, value string) (bool, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, column+" = ?", value).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil //沒重複，不代表錯誤
		}
		return false, err
	}
	return true, nil
}

func (s *Store) IsUsernameExists(ctx context.Context, username string) (bool, error) {
	return s.exists(ctx, "username", username)
}

func (s *Store) IsEmailExists(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx, "email", email)
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}
