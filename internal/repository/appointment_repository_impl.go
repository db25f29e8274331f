package repository

import (
	"context"
	"errors"
	"time"

	"mediconnect/internal/domain/entity"
	domainRepo "mediconnect/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) domainRepo.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	err := r.db.WithContext(ctx).Create(appointment).Error
	if isDuplicateKeyError(err, constraintAppointmentSlot) {
		return domainRepo.ErrDuplicateSlot
	}
	return err
}

func (r *appointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindActiveBySlot(ctx context.Context, doctorID uuid.UUID, date time.Time, timeLabel string) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND date = ? AND time = ? AND status != ?",
			doctorID, date.Format(entity.DateLayout), timeLabel, entity.AppointmentStatusCancelled).
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindUpcomingByPatient(ctx context.Context, patientID uuid.UUID, from time.Time) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := r.db.WithContext(ctx).
		Where("patient_id = ? AND date >= ?", patientID, from.Format(entity.DateLayout)).
		Order("date ASC, slot_minutes ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindUpcomingByDoctor(ctx context.Context, doctorID uuid.UUID, from time.Time) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND date >= ?", doctorID, from.Format(entity.DateLayout)).
		Order("date ASC, slot_minutes ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindActiveByDoctorAndDate(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND date = ? AND status != ?",
			doctorID, date.Format(entity.DateLayout), entity.AppointmentStatusCancelled).
		Order("slot_minutes ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// UpdateStatusFrom atomically moves the status ONLY if it is still `from`.
// Returns affected rows: 1 = success, 0 = missing or already transitioned.
func (r *appointmentRepository) UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, next entity.AppointmentStatus) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", next)
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) ExistsForDoctorAndPatient(ctx context.Context, doctorID, patientID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("doctor_id = ? AND patient_id = ?", doctorID, patientID).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
