package models

import (
	"time"

	"gorm.io/gorm"
)

// AdminUser is a back office account. Website users live in User.
type AdminUser struct {
	gorm.Model
	Name      string    `gorm:"default:''"`
	Email     string    `gorm:"unique;not null"`
	Password  string    `gorm:"not null"`
	Role      string    `gorm:"default:'ADMIN'"` // ADMIN, SUPER_ADMIN
	LastLogin time.Time `gorm:"default:NULL"`
	IsBlocked bool      `gorm:"default:false"`
	IsDeleted bool      `gorm:"default:false"`
}
