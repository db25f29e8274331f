package converter

import (
	"mediconnect/internal/delivery/dto"
	"mediconnect/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO
// Includes DoctorProfile if it is loaded
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	response := &dto.UserResponse{
		ID:            user.ID,
		Email:         user.Email,
		FullName:      user.FullName,
		Role:          user.Role,
		Plan:          user.Plan,
		PlanUpdatedAt: user.PlanUpdatedAt,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}

	if p := user.DoctorProfile; p != nil {
		response.DoctorProfile = &dto.DoctorProfileResponse{
			Specialty:       p.Specialty,
			City:            p.City,
			Latitude:        p.Latitude,
			Longitude:       p.Longitude,
			ExperienceYears: p.ExperienceYears,
			Biography:       p.Biography,
			Verified:        p.Verified,
		}
	}

	return response
}
