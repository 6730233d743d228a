package live

import "gorm.io/gorm"

type LiveChatMessage struct {
	gorm.Model
	SessionID  uint   `json:"session_id" gorm:"index;not null"`
	UserID     uint   `json:"user_id" gorm:"index"`
	SenderName string `json:"sender_name"`
	Message    string `json:"message" gorm:"type:text"`
	IsPinned   bool   `json:"is_pinned" gorm:"default:false"`
	IsDeleted  bool   `gorm:"default:false"`
}
