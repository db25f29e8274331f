package repository

import (
	"context"

	"mediconnect/internal/domain/entity"

	"github.com/google/uuid"
)

type DoctorProfileRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.DoctorProfile, error)
	FindAll(ctx context.Context, filter *entity.DoctorFilter) ([]entity.DoctorProfile, error)
	SetVerified(ctx context.Context, userID uuid.UUID, verified bool) (int64, error)
}
