package repository

import (
	"context"

	"mediconnect/internal/domain/entity"

	"github.com/google/uuid"
)

type MedicalRecordRepository interface {
	Create(ctx context.Context, record *entity.MedicalRecord) error
	FindByPatientID(ctx context.Context, patientID uuid.UUID) ([]entity.MedicalRecord, error)
}
