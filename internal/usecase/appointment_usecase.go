package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"mediconnect/internal/converter"
	"mediconnect/internal/delivery/dto"
	"mediconnect/internal/domain/entity"
	"mediconnect/internal/domain/gateway"
	"mediconnect/internal/domain/repository"
	"mediconnect/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrSlotConflict            = errors.New("time slot is already booked")
	ErrPersistence             = errors.New("failed to persist appointment")
	ErrPastDate                = errors.New("appointment date is in the past")
	ErrWeekendDate             = errors.New("appointments are not available on weekends")
	ErrInvalidDate             = errors.New("invalid date format, use YYYY-MM-DD")
	ErrInvalidTimeSlot         = errors.New("invalid time slot")
	ErrReasonTooShort          = errors.New("reason must be at least 5 characters")
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrAppointmentNotOwned     = errors.New("appointment does not belong to you")
	ErrInvalidStatusTransition = errors.New("appointment status cannot be changed")
	ErrStatusNotPermitted      = errors.New("you are not allowed to set this status")
)

const (
	minReasonLength = 5
	// publishTimeout bounds how long a slow broker can hold a response
	publishTimeout = 3 * time.Second
)

type AppointmentUsecase interface {
	Book(ctx context.Context, patientID uuid.UUID, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]dto.AppointmentResponse, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]dto.AppointmentResponse, error)
	UpdateStatus(ctx context.Context, actor entity.Session, id uuid.UUID, status entity.AppointmentStatus) (*dto.AppointmentResponse, error)
}

type appointmentUsecase struct {
	log               *logrus.Logger
	appointmentRepo   repository.AppointmentRepository
	doctorProfileRepo repository.DoctorProfileRepository
	locker            gateway.SlotLocker
	events            gateway.EventPublisher
	auditService      service.AuditService
	clock             Clock
	lockTTL           time.Duration
}

func NewAppointmentUsecase(
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	locker gateway.SlotLocker,
	events gateway.EventPublisher,
	auditService service.AuditService,
	clock Clock,
	lockTTL time.Duration,
) AppointmentUsecase {
	return &appointmentUsecase{
		log:               log,
		appointmentRepo:   appointmentRepo,
		doctorProfileRepo: doctorProfileRepo,
		locker:            locker,
		events:            events,
		auditService:      auditService,
		clock:             clock,
		lockTTL:           lockTTL,
	}
}

// Book creates a scheduled appointment. The first request for a
// (doctor, date, time) wins; later ones get ErrSlotConflict until the
// holder is cancelled.
func (u *appointmentUsecase) Book(ctx context.Context, patientID uuid.UUID, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error) {
	reason := strings.TrimSpace(req.Reason)
	if utf8.RuneCountInString(reason) < minReasonLength {
		return nil, ErrReasonTooShort
	}

	slot, ok := entity.LookupTimeSlot(req.Time)
	if !ok {
		return nil, ErrInvalidTimeSlot
	}

	date, err := entity.ParseDate(req.Date, u.clock.Location())
	if err != nil {
		return nil, ErrInvalidDate
	}
	if date.Before(u.clock.Today()) {
		return nil, ErrPastDate
	}
	if entity.IsWeekend(date) {
		return nil, ErrWeekendDate
	}

	doctor, err := u.doctorProfileRepo.FindByUserID(ctx, req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if doctor == nil || !doctor.User.IsActive {
		return nil, ErrDoctorNotFound
	}
	if !doctor.Verified {
		return nil, ErrDoctorNotVerified
	}

	dateLabel := date.Format(entity.DateLayout)
	lockKey := service.SlotLockKey(req.DoctorID, dateLabel, slot.Label)

	token, acquired, err := u.locker.Acquire(ctx, lockKey, u.lockTTL)
	switch {
	case err != nil:
		// The unique index still guards the slot without the lock
		u.log.Warnf("Failed to acquire slot lock, continuing without it: %+v", err)
	case !acquired:
		return nil, ErrSlotConflict
	default:
		defer func() {
			if err := u.locker.Release(context.WithoutCancel(ctx), lockKey, token); err != nil {
				u.log.Warnf("Failed to release slot lock: %+v", err)
			}
		}()
	}

	existing, err := u.appointmentRepo.FindActiveBySlot(ctx, req.DoctorID, date, slot.Label)
	if err != nil {
		u.log.Warnf("Failed to check slot: %+v", err)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if existing != nil {
		return nil, ErrSlotConflict
	}

	appointment := &entity.Appointment{
		PatientID:   patientID,
		DoctorID:    req.DoctorID,
		DoctorName:  doctor.User.FullName,
		Date:        date,
		Time:        slot.Label,
		SlotMinutes: slot.Minutes,
		Reason:      reason,
		Status:      entity.AppointmentStatusScheduled,
	}

	if err := u.appointmentRepo.Create(ctx, appointment); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlot) {
			return nil, ErrSlotConflict
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	u.publish(ctx, gateway.EventAppointmentBooked, appointment)
	_ = u.auditService.LogCreate(ctx, &patientID, entity.AuditActionAppointmentCreate, "appointment", appointment.ID.String(), converter.AppointmentToResponse(appointment))

	return converter.AppointmentToResponse(appointment), nil
}

// ListByPatient returns appointments from today on, earliest first
func (u *appointmentUsecase) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]dto.AppointmentResponse, error) {
	appointments, err := u.appointmentRepo.FindUpcomingByPatient(ctx, patientID, u.clock.Today())
	if err != nil {
		u.log.Warnf("Failed to find patient appointments: %+v", err)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return converter.AppointmentsToResponses(appointments), nil
}

// ListByDoctor returns appointments from today on, earliest first
func (u *appointmentUsecase) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]dto.AppointmentResponse, error) {
	appointments, err := u.appointmentRepo.FindUpcomingByDoctor(ctx, doctorID, u.clock.Today())
	if err != nil {
		u.log.Warnf("Failed to find doctor appointments: %+v", err)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return converter.AppointmentsToResponses(appointments), nil
}

// UpdateStatus moves a scheduled appointment to completed or cancelled.
// Patients may only cancel their own, doctors may close their own.
func (u *appointmentUsecase) UpdateStatus(ctx context.Context, actor entity.Session, id uuid.UUID, status entity.AppointmentStatus) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	if err := authorizeStatusChange(actor, appointment, status); err != nil {
		return nil, err
	}

	if !appointment.CanTransitionTo(status) {
		return nil, ErrInvalidStatusTransition
	}

	affected, err := u.appointmentRepo.UpdateStatusFrom(ctx, id, entity.AppointmentStatusScheduled, status)
	if err != nil {
		u.log.Warnf("Failed to update appointment status: %+v", err)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	// Another request moved it first
	if affected == 0 {
		return nil, ErrInvalidStatusTransition
	}

	previous := appointment.Status
	appointment.Status = status
	appointment.UpdatedAt = u.clock.Now()

	u.publish(ctx, gateway.EventAppointmentStatusChanged, appointment)
	_ = u.auditService.LogUpdate(ctx, &actor.UserID, entity.AuditActionAppointmentStatus, "appointment", id.String(),
		map[string]interface{}{"status": previous},
		map[string]interface{}{"status": status},
	)

	return converter.AppointmentToResponse(appointment), nil
}

func authorizeStatusChange(actor entity.Session, appointment *entity.Appointment, status entity.AppointmentStatus) error {
	switch actor.Role {
	case entity.RoleAdmin:
		return nil
	case entity.RoleDoctor:
		if appointment.DoctorID != actor.UserID {
			return ErrAppointmentNotOwned
		}
		return nil
	case entity.RolePatient:
		if appointment.PatientID != actor.UserID {
			return ErrAppointmentNotOwned
		}
		if status != entity.AppointmentStatusCancelled {
			return ErrStatusNotPermitted
		}
		return nil
	}
	return ErrStatusNotPermitted
}

func (u *appointmentUsecase) publish(ctx context.Context, eventType string, a *entity.Appointment) {
	event := gateway.AppointmentEvent{
		Type:          eventType,
		AppointmentID: a.ID,
		PatientID:     a.PatientID,
		DoctorID:      a.DoctorID,
		Date:          a.Date.Format(entity.DateLayout),
		Time:          a.Time,
		Status:        string(a.Status),
		OccurredAt:    u.clock.Now(),
	}
	// Detached from the request: the appointment is already committed
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := u.events.PublishAppointmentEvent(ctx, event); err != nil {
		u.log.Warnf("Failed to publish %s event: %+v", eventType, err)
	}
}
