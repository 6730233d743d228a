package models

import (
	"time"

	"gorm.io/gorm"
)

type VerificationSession struct {
	gorm.Model
	UserID    uint      `gorm:"not null" json:"user_id"`
	Email     string    `gorm:"size:100;index" json:"email,omitempty"`   // Email the code was sent to
	Mobile    string    `gorm:"size:15;index" json:"mobile,omitempty"`   // Mobile the code was sent to
	Code      string    `gorm:"size:6;not null" json:"code"`             // The OTP code
	Purpose   string    `gorm:"size:30;default:'SIGNUP'" json:"purpose"` // SIGNUP, LOGIN, PASSWORD_RESET
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`              // Expiry time for the code
	IsUsed    bool      `gorm:"default:false" json:"is_used"`
	IsDeleted bool      `gorm:"default:false"`
}
