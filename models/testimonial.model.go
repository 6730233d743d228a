package models

import "gorm.io/gorm"

type Testimonial struct {
	gorm.Model
	AuthorName  string `json:"author_name"`
	AuthorTitle string `json:"author_title"` // e.g., "UPSC 2024 Rank 12"
	AvatarURL   string `json:"avatar_url"`
	Quote       string `json:"quote" gorm:"type:text"`
	Rating      uint   `json:"rating" gorm:"default:5"` // 1 to 5
	IsApproved  bool   `json:"is_approved" gorm:"default:false"`
	OrderIndex  int    `json:"order_index" gorm:"default:0"`
	IsDeleted   bool   `gorm:"default:false"`
}
