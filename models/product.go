package models

import "time"

type Product struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Name        string     `gorm:"not null" json:"name"`
	Price       uint       `gorm:"not null" json:"price"`
	Description string     `gorm:"type:text" json:"description"`
	Image       string     `json:"image"`
	UserID      uint       `gorm:"not null;index" json:"userId"`
	User        *User      `json:"user,omitempty"`
	Favorites   []Favorite `json:"-"`
}

// 商品列表使用的摘要，包含收藏數
type ProductSummary struct {
	ID        uint      `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Name      string    `json:"name"`
	Price     uint      `json:"price"`
	Image     string    `json:"image"`
	Favorites int64     `json:"favorites"`
}
