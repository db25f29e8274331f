package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"omitempty"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type UserResponse struct {
	ID            uuid.UUID              `json:"id"`
	Email         string                 `json:"email"`
	FullName      string                 `json:"full_name"`
	Role          string                 `json:"role"`
	Plan          string                 `json:"plan"`
	PlanUpdatedAt *time.Time             `json:"plan_updated_at,omitempty"`
	DoctorProfile *DoctorProfileResponse `json:"doctor_profile,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// Role-specific Registration Request DTOs

type RegisterPatientRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required,min=2"`
}

// RegisterDoctorRequest creates an unverified doctor account.
// Latitude and longitude must be given together.
type RegisterDoctorRequest struct {
	Email           string   `json:"email" validate:"required,email"`
	Password        string   `json:"password" validate:"required,min=6"`
	FullName        string   `json:"full_name" validate:"required,min=2"`
	Specialty       string   `json:"specialty" validate:"required,max=100"`
	City            string   `json:"city" validate:"omitempty,max=100"`
	Latitude        *float64 `json:"latitude" validate:"required_with=Longitude,omitempty,gte=-90,lte=90"`
	Longitude       *float64 `json:"longitude" validate:"required_with=Latitude,omitempty,gte=-180,lte=180"`
	ExperienceYears int      `json:"experience_years" validate:"gte=0,lte=80"`
	Biography       string   `json:"biography" validate:"omitempty"`
}
