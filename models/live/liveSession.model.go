package live

import (
	"time"

	"gorm.io/gorm"
)

// LiveSession is a scheduled video conference class. RoomID and RoomCode
// are issued by the conferencing provider when the session is created.
type LiveSession struct {
	gorm.Model
	CourseID    *uint      `json:"course_id" gorm:"index"` // nil means open to all users
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Instructor  string     `json:"instructor"`
	RoomID      string     `json:"room_id" gorm:"index"`
	RoomCode    string     `json:"room_code"`
	ScheduledAt time.Time  `json:"scheduled_at" gorm:"index"`
	Duration    int        `json:"duration" gorm:"default:60"`        // minutes
	Status      string     `json:"status" gorm:"default:'SCHEDULED'"` // SCHEDULED, LIVE, ENDED, CANCELLED
	StartedAt   *time.Time `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at"`
	IsDeleted   bool       `gorm:"default:false"`
}
