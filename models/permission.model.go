package models

import (
	"gorm.io/gorm"
)

type AdminPermission struct {
	gorm.Model
	AdminUserID uint      `gorm:"not null;index"`
	AdminUser   AdminUser `gorm:"foreignKey:AdminUserID"` // Association with AdminUser
	Permission  string    `gorm:"type:varchar(255)"`      // e.g., "manage-courses"
	GrantedBy   uint      // Admin who granted it
	IsDeleted   bool      `gorm:"default:false"`
}
