package usecase

import (
	"context"

	"mediconnect/internal/delivery/dto"
	"mediconnect/internal/domain/entity"
	"mediconnect/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type AvailabilityUsecase interface {
	TimeSlots() []string
	GetAvailability(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AvailabilityResponse, error)
}

type availabilityUsecase struct {
	log               *logrus.Logger
	doctorProfileRepo repository.DoctorProfileRepository
	appointmentRepo   repository.AppointmentRepository
	clock             Clock
}

func NewAvailabilityUsecase(
	log *logrus.Logger,
	doctorProfileRepo repository.DoctorProfileRepository,
	appointmentRepo repository.AppointmentRepository,
	clock Clock,
) AvailabilityUsecase {
	return &availabilityUsecase{
		log:               log,
		doctorProfileRepo: doctorProfileRepo,
		appointmentRepo:   appointmentRepo,
		clock:             clock,
	}
}

func (u *availabilityUsecase) TimeSlots() []string {
	slots := entity.TimeSlots()
	labels := make([]string, len(slots))
	for i, s := range slots {
		labels[i] = s.Label
	}
	return labels
}

// GetAvailability lists the labels of date still free for the doctor.
// Weekends and past dates have no free slots.
func (u *availabilityUsecase) GetAvailability(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AvailabilityResponse, error) {
	day, err := entity.ParseDate(date, u.clock.Location())
	if err != nil {
		return nil, ErrInvalidDate
	}

	profile, err := u.doctorProfileRepo.FindByUserID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if profile == nil || !profile.IsBookable() {
		return nil, ErrDoctorNotFound
	}

	result := &dto.AvailabilityResponse{
		DoctorID: doctorID,
		Date:     day.Format(entity.DateLayout),
		Slots:    []string{},
	}

	if entity.IsWeekend(day) || day.Before(u.clock.Today()) {
		return result, nil
	}

	booked, err := u.appointmentRepo.FindActiveByDoctorAndDate(ctx, doctorID, day)
	if err != nil {
		u.log.Warnf("Failed to find booked slots: %+v", err)
		return nil, err
	}

	taken := make(map[string]struct{}, len(booked))
	for _, a := range booked {
		taken[a.Time] = struct{}{}
	}

	for _, slot := range entity.TimeSlots() {
		if _, ok := taken[slot.Label]; ok {
			continue
		}
		result.Slots = append(result.Slots, slot.Label)
	}

	return result, nil
}
