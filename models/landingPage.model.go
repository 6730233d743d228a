package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LandingPage is a standalone campaign page (webinar, cohort launch)
type LandingPage struct {
	gorm.Model
	Slug               string         `json:"slug" gorm:"unique;not null"`
	Title              string         `json:"title"`
	Headline           string         `json:"headline"`
	Subheadline        string         `json:"subheadline"`
	HeroImageURL       string         `json:"hero_image_url"`
	Sections           datatypes.JSON `json:"sections"` // ordered content blocks rendered by the page
	EventDate          *time.Time     `json:"event_date"`
	Capacity           int            `json:"capacity" gorm:"default:0"` // 0 means unlimited
	IsRegistrationOpen bool           `json:"is_registration_open" gorm:"default:true"`
	IsPublished        bool           `json:"is_published" gorm:"default:false"`
	IsDeleted          bool           `gorm:"default:false"`
}

type LandingPageRegistration struct {
	gorm.Model
	LandingPageID uint   `json:"landing_page_id" gorm:"index;not null"`
	Name          string `json:"name"`
	Email         string `json:"email" gorm:"index"`
	Mobile        string `json:"mobile"`
	Note          string `json:"note"`
	ReferenceCode string `json:"reference_code" gorm:"index"`
	IsSynced      bool   `json:"is_synced" gorm:"default:false"` // mirrored to the spreadsheet
	IsDeleted     bool   `gorm:"default:false"`
}
