package models

import (
	"gorm.io/gorm"
	"time"
)

// 伺服器端 session，登出時刪除
type LoginToken struct {
	gorm.Model
	Token          string `gorm:"index;size:1024"`
	ExpirationTime time.Time
	UserID         uint
	Role           string
}
