package repository

import (
	"context"
	"errors"

	"mediconnect/internal/domain/entity"
	domainRepo "mediconnect/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type doctorProfileRepository struct {
	db *gorm.DB
}

func NewDoctorProfileRepository(db *gorm.DB) domainRepo.DoctorProfileRepository {
	return &doctorProfileRepository{db: db}
}

func (r *doctorProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.DoctorProfile, error) {
	var profile entity.DoctorProfile
	err := r.db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// FindAll returns doctors whose user account is active, ordered by name.
// Supports optional filters: specialty, city and verification state.
func (r *doctorProfileRepository) FindAll(ctx context.Context, filter *entity.DoctorFilter) ([]entity.DoctorProfile, error) {
	var profiles []entity.DoctorProfile
	query := r.db.WithContext(ctx).
		Joins("JOIN users ON users.id = doctor_profiles.user_id").
		Where("users.is_active = ?", true)

	if filter != nil {
		if filter.Specialty != "" {
			query = query.Where("doctor_profiles.specialty ILIKE ?", "%"+filter.Specialty+"%")
		}
		if filter.City != "" {
			query = query.Where("doctor_profiles.city ILIKE ?", "%"+filter.City+"%")
		}
		if filter.Verified != nil {
			query = query.Where("doctor_profiles.verified = ?", *filter.Verified)
		}
	}

	err := query.
		Preload("User").
		Order("users.full_name ASC").
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *doctorProfileRepository) SetVerified(ctx context.Context, userID uuid.UUID, verified bool) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.DoctorProfile{}).
		Where("user_id = ?", userID).
		Update("verified", verified)
	return result.RowsAffected, result.Error
}
