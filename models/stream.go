package models

import "time"

type Stream struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Price       uint      `gorm:"not null" json:"price"`
	UserID      uint      `gorm:"not null;index" json:"userId"`
	User        *User     `json:"user,omitempty"`
	Messages    []Message `json:"-"`
}
