package live

import (
	"time"

	"gorm.io/gorm"
)

// LiveAttendance records one join/leave span per user per session
type LiveAttendance struct {
	gorm.Model
	SessionID uint       `json:"session_id" gorm:"index;not null"`
	UserID    uint       `json:"user_id" gorm:"index;not null"`
	JoinedAt  time.Time  `json:"joined_at"`
	LeftAt    *time.Time `json:"left_at"`
	Duration  int        `json:"duration" gorm:"default:0"` // minutes
	IsDeleted bool       `gorm:"default:false"`
}
