package repository

import (
	"context"
	"time"

	"mediconnect/internal/domain/entity"

	"github.com/google/uuid"
)

type AppointmentRepository interface {
	// Create returns ErrDuplicateSlot when another active appointment holds the slot
	Create(ctx context.Context, appointment *entity.Appointment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	FindActiveBySlot(ctx context.Context, doctorID uuid.UUID, date time.Time, timeLabel string) (*entity.Appointment, error)
	FindUpcomingByPatient(ctx context.Context, patientID uuid.UUID, from time.Time) ([]entity.Appointment, error)
	FindUpcomingByDoctor(ctx context.Context, doctorID uuid.UUID, from time.Time) ([]entity.Appointment, error)
	FindActiveByDoctorAndDate(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]entity.Appointment, error)
	// UpdateStatusFrom moves the appointment to next only while it is still in
	// from. Returns affected rows: 0 means the row is missing or already moved.
	UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, next entity.AppointmentStatus) (int64, error)
	// ExistsForDoctorAndPatient reports whether the pair share any appointment, in any status
	ExistsForDoctorAndPatient(ctx context.Context, doctorID, patientID uuid.UUID) (bool, error)
}
