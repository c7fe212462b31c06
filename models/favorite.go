package models

import "time"

// 使用者與商品的收藏關係，同一組 (UserID, ProductID) 只會有一筆
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_product" json:"userId"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_user_product;index" json:"productId"`
	Product   *Product  `json:"product,omitempty"`
}
