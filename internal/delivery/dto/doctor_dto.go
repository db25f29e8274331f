package dto

import (
	"github.com/google/uuid"
)

// Response DTOs

type DoctorProfileResponse struct {
	Specialty       string   `json:"specialty"`
	City            string   `json:"city,omitempty"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	ExperienceYears int      `json:"experience_years"`
	Biography       string   `json:"biography,omitempty"`
	Verified        bool     `json:"verified"`
}

type DoctorResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email,omitempty"`
	Specialty       string    `json:"specialty"`
	City            string    `json:"city,omitempty"`
	Latitude        *float64  `json:"latitude,omitempty"`
	Longitude       *float64  `json:"longitude,omitempty"`
	ExperienceYears int       `json:"experience_years"`
	Biography       string    `json:"biography,omitempty"`
	Verified        bool      `json:"verified"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}

type AvailabilityResponse struct {
	DoctorID uuid.UUID `json:"doctor_id"`
	Date     string    `json:"date"`
	Slots    []string  `json:"slots"`
}

type TimeSlotListResponse struct {
	Slots []string `json:"slots"`
}
