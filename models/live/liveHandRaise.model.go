package live

import (
	"time"

	"gorm.io/gorm"
)

type LiveHandRaise struct {
	gorm.Model
	SessionID      uint       `json:"session_id" gorm:"index;not null"`
	UserID         uint       `json:"user_id" gorm:"index;not null"`
	RaisedAt       time.Time  `json:"raised_at"`
	IsAcknowledged bool       `json:"is_acknowledged" gorm:"default:false"`
	AcknowledgedAt *time.Time `json:"acknowledged_at"`
	IsLowered      bool       `json:"is_lowered" gorm:"default:false"`
	IsDeleted      bool       `gorm:"default:false"`
}
