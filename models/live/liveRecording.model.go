package live

import "gorm.io/gorm"

type LiveRecording struct {
	gorm.Model
	SessionID   uint   `json:"session_id" gorm:"index;not null"`
	AssetID     string `json:"asset_id" gorm:"index"` // provider asset id
	Title       string `json:"title"`
	Duration    int    `json:"duration" gorm:"default:0"` // seconds
	PlaybackURL string `json:"playback_url"`
	IsAvailable bool   `json:"is_available" gorm:"default:true"`
	IsDeleted   bool   `gorm:"default:false"`
}
