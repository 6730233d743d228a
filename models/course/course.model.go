package course

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Course represents a learning course
type Course struct {
	gorm.Model
	Title         string         `json:"title"`
	Slug          string         `json:"slug" gorm:"unique;not null"`
	Description   string         `json:"description" gorm:"type:text"`
	Category      string         `json:"category" gorm:"index"`
	Instructor    string         `json:"instructor"`
	Price         float64        `json:"price" gorm:"default:0"`
	DiscountPrice float64        `json:"discount_price" gorm:"default:0"`
	Duration      int64          `json:"duration" gorm:"default:0"`       // duration in hours
	Level         string         `json:"level" gorm:"default:'BEGINNER'"` // BEGINNER, INTERMEDIATE, ADVANCED
	ThumbnailURL  string         `json:"thumbnail_url"`
	Syllabus      datatypes.JSON `json:"syllabus"`                      // ordered module outline
	Status        string         `json:"status" gorm:"default:'DRAFT'"` // DRAFT, ACTIVE, INACTIVE
	Rating        uint           `json:"rating" gorm:"default:0"`
	IsFeatured    bool           `json:"is_featured" gorm:"default:false"`
	IsPublished   bool           `json:"is_published" gorm:"default:false"`
	IsDeleted     bool           `gorm:"default:false"`
}
