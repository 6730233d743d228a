package models

import "gorm.io/gorm"

// Banner is a home page hero slide managed from the admin panel
type Banner struct {
	gorm.Model
	Title      string `json:"title"`
	Subtitle   string `json:"subtitle"`
	ImageURL   string `json:"image_url"`
	LinkURL    string `json:"link_url"`
	OrderIndex int    `json:"order_index" gorm:"default:0"`
	IsActive   bool   `json:"is_active" gorm:"default:true"`
	IsDeleted  bool   `gorm:"default:false"`
}
