package entity

import "github.com/google/uuid"

// DoctorProfile represents doctor-specific profile data.
// A doctor can be booked only once an admin has set Verified.
type DoctorProfile struct {
	UserID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Specialty       string    `gorm:"type:varchar(100);not null;index" json:"specialty"`
	City            string    `gorm:"type:varchar(100);index" json:"city,omitempty"`
	Latitude        *float64  `json:"latitude,omitempty"`
	Longitude       *float64  `json:"longitude,omitempty"`
	ExperienceYears int       `gorm:"not null;default:0" json:"experience_years"`
	Biography       string    `gorm:"type:text" json:"biography,omitempty"`
	Verified        bool      `gorm:"not null;default:false;index" json:"verified"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (DoctorProfile) TableName() string {
	return "doctor_profiles"
}

// IsBookable checks if patients may book appointments with this doctor
func (d *DoctorProfile) IsBookable() bool {
	return d.Verified && d.User.IsActive
}

// HasLocation reports whether both coordinates are set
func (d *DoctorProfile) HasLocation() bool {
	return d.Latitude != nil && d.Longitude != nil
}
