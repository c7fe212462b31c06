package store

import (
	"Market/models"
	"context"
	"gorm.io/gorm/clause"
)

func (s *Store) IsFavorite(ctx context.Context, userID, productID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// 已收藏則取消，未收藏則新增，回傳切換後的狀態
func (s *Store) ToggleFavorite(ctx context.Context, userID, productID uint) (bool, error) {
	db := s.db.WithContext(ctx)

	result := db.
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.Favorite{})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		return false, nil
	}

	//同時收藏時唯一索引已有資料，視為已收藏
	err := db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Favorite{
			UserID:    userID,
			ProductID: productID,
		}).
		Error
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) ListFavorites(ctx context.Context, userID uint) ([]models.Favorite, error) {
	favorites := []models.Favorite{}
	err := s.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&favorites).
		Error
	return favorites, err
}
