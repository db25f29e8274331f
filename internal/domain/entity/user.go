package entity

import (
	"time"

	"github.com/google/uuid"
)

// User represents the centralized authentication table
type User struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Role          string     `gorm:"type:varchar(20);not null;index" json:"role"`
	Email         string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password      string     `gorm:"type:text;not null" json:"-"`
	FullName      string     `gorm:"type:varchar(255);not null" json:"full_name"`
	IsActive      bool       `gorm:"not null;default:true;index" json:"is_active"`
	Plan          string     `gorm:"type:varchar(20);not null;default:'free'" json:"plan"`
	PlanUpdatedAt *time.Time `json:"plan_updated_at,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	DoctorProfile *DoctorProfile `gorm:"foreignKey:UserID" json:"doctor_profile,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// Subscription plans a user can hold
const (
	PlanFree     = "free"
	PlanStandard = "standard"
	PlanPremium  = "premium"
)
