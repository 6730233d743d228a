package course

import (
	"gorm.io/gorm"
)

// Enrollment tracks a user's enrollment in a course. PaymentStatus is
// bookkeeping only, the gateway itself lives outside this service.
type Enrollment struct {
	gorm.Model
	UserID        uint    `json:"user_id" gorm:"index;not null"`
	CourseID      uint    `json:"course_id" gorm:"index;not null"`
	Course        Course  `json:"course" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
	Status        string  `json:"status" gorm:"default:'ACTIVE'"`          // ACTIVE, INACTIVE
	PaymentStatus string  `json:"payment_status" gorm:"default:'PENDING'"` // PAID, PENDING
	PaymentRef    string  `json:"payment_ref"`
	Amount        float64 `json:"amount" gorm:"default:0"`
	ReferenceCode string  `json:"reference_code" gorm:"index"`
	IsDeleted     bool    `gorm:"default:false"`
}
