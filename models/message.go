package models

import "time"

// 直播聊天室訊息
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	StreamID  uint      `gorm:"not null;index" json:"streamId"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	User      *User     `json:"user,omitempty"`
}
