package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Blog is an article on the public site
type Blog struct {
	gorm.Model
	Title         string         `json:"title"`
	Slug          string         `json:"slug" gorm:"unique;not null"`
	Author        string         `json:"author"`
	CoverImageURL string         `json:"cover_image_url"`
	Excerpt       string         `json:"excerpt"`
	Content       string         `json:"content" gorm:"type:text"`
	Tags          pq.StringArray `json:"tags" gorm:"type:text[]"`
	Status        string         `json:"status" gorm:"default:'DRAFT'"` // DRAFT, PUBLISHED
	PublishedAt   *time.Time     `json:"published_at"`
	ViewCount     uint           `json:"view_count" gorm:"default:0"`
	IsDeleted     bool           `gorm:"default:false"`
}

// BlogComment is a reader comment, visible only after moderation
type BlogComment struct {
	gorm.Model
	BlogID     uint   `json:"blog_id" gorm:"index;not null"`
	AuthorName string `json:"author_name"`
	Email      string `json:"email"`
	Body       string `json:"body" gorm:"type:text"`
	IsApproved bool   `json:"is_approved" gorm:"default:false"`
	IsDeleted  bool   `gorm:"default:false"`
}
