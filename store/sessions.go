package store

import (
	"Market/models"
	"context"
	"time"
)

func (s *Store) CreateLoginToken(ctx context.Context, token *models.LoginToken) error {
	return s.db.WithContext(ctx).Create(token).Error
}

// 已登出或過期的 token 視為不存在
func (s *Store) IsLoginTokenExists(ctx context.Context, token string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.LoginToken{}).
		Where("token = ? AND expiration_time > ?", token, time.Now()).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) DeleteLoginToken(ctx context.Context, token string) (int64, error) {
	result := s.db.WithContext(ctx).Delete(&models.LoginToken{}, "token = ?", token)
	return result.RowsAffected, result.Error
}
