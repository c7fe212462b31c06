package models

import "time"

type User struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	Username    string       `gorm:"unique;not null;size:20" json:"username"`
	Email       string       `gorm:"unique;not null;size:255" json:"-"`
	Password    string       `gorm:"not null" json:"-"`
	Name        string       `json:"name"`
	Avatar      string       `json:"avatar"`
	Role        string       `json:"-"`
	Products    []Product    `json:"-"`
	Favorites   []Favorite   `json:"-"`
	LoginTokens []LoginToken `json:"-"`
}
