package converter

import (
	"mediconnect/internal/delivery/dto"
	"mediconnect/internal/domain/entity"
)

// DoctorToResponse converts a DoctorProfile (with User preloaded) to DoctorResponse DTO
func DoctorToResponse(profile *entity.DoctorProfile) *dto.DoctorResponse {
	if profile == nil {
		return nil
	}

	return &dto.DoctorResponse{
		ID:              profile.UserID,
		Name:            profile.User.FullName,
		Email:           profile.User.Email,
		Specialty:       profile.Specialty,
		City:            profile.City,
		Latitude:        profile.Latitude,
		Longitude:       profile.Longitude,
		ExperienceYears: profile.ExperienceYears,
		Biography:       profile.Biography,
		Verified:        profile.Verified,
	}
}

func DoctorsToResponses(profiles []entity.DoctorProfile) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(profiles))
	for i := range profiles {
		responses[i] = *DoctorToResponse(&profiles[i])
	}
	return responses
}
