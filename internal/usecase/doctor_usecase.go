package usecase

import (
	"context"
	"errors"
	"strings"

	"mediconnect/internal/converter"
	"mediconnect/internal/delivery/dto"
	"mediconnect/internal/domain/entity"
	"mediconnect/internal/domain/repository"
	"mediconnect/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrDoctorNotFound    = errors.New("doctor not found")
	ErrDoctorNotVerified = errors.New("doctor is not verified")
)

type DoctorUsecase interface {
	ListDoctors(ctx context.Context, specialty, city string) (*dto.DoctorListResponse, error)
	GetDoctor(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error)
	ListPendingDoctors(ctx context.Context) (*dto.DoctorListResponse, error)
	VerifyDoctor(ctx context.Context, actor entity.Session, id uuid.UUID) (*dto.DoctorResponse, error)
}

type doctorUsecase struct {
	log               *logrus.Logger
	doctorProfileRepo repository.DoctorProfileRepository
	auditService      service.AuditService
}

func NewDoctorUsecase(
	log *logrus.Logger,
	doctorProfileRepo repository.DoctorProfileRepository,
	auditService service.AuditService,
) DoctorUsecase {
	return &doctorUsecase{
		log:               log,
		doctorProfileRepo: doctorProfileRepo,
		auditService:      auditService,
	}
}

// ListDoctors returns the public directory: verified doctors only
func (u *doctorUsecase) ListDoctors(ctx context.Context, specialty, city string) (*dto.DoctorListResponse, error) {
	verified := true
	return u.list(ctx, &entity.DoctorFilter{
		Specialty: strings.TrimSpace(specialty),
		City:      strings.TrimSpace(city),
		Verified:  &verified,
	})
}

func (u *doctorUsecase) ListPendingDoctors(ctx context.Context) (*dto.DoctorListResponse, error) {
	verified := false
	return u.list(ctx, &entity.DoctorFilter{Verified: &verified})
}

func (u *doctorUsecase) list(ctx context.Context, filter *entity.DoctorFilter) (*dto.DoctorListResponse, error) {
	profiles, err := u.doctorProfileRepo.FindAll(ctx, filter)
	if err != nil {
		u.log.Warnf("Failed to find doctors: %+v", err)
		return nil, err
	}

	return &dto.DoctorListResponse{
		Doctors: converter.DoctorsToResponses(profiles),
		Total:   len(profiles),
	}, nil
}

func (u *doctorUsecase) GetDoctor(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error) {
	profile, err := u.doctorProfileRepo.FindByUserID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	// Unverified doctors are invisible outside the admin queue
	if profile == nil || !profile.IsBookable() {
		return nil, ErrDoctorNotFound
	}

	return converter.DoctorToResponse(profile), nil
}

// VerifyDoctor marks the doctor as reviewed. Verifying twice is a no-op.
func (u *doctorUsecase) VerifyDoctor(ctx context.Context, actor entity.Session, id uuid.UUID) (*dto.DoctorResponse, error) {
	profile, err := u.doctorProfileRepo.FindByUserID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrDoctorNotFound
	}
	if profile.Verified {
		return converter.DoctorToResponse(profile), nil
	}

	affected, err := u.doctorProfileRepo.SetVerified(ctx, id, true)
	if err != nil {
		u.log.Warnf("Failed to verify doctor: %+v", err)
		return nil, err
	}
	if affected == 0 {
		return nil, ErrDoctorNotFound
	}

	_ = u.auditService.LogUpdate(ctx, &actor.UserID, entity.AuditActionDoctorVerify, "doctor_profile", id.String(),
		map[string]interface{}{"verified": false},
		map[string]interface{}{"verified": true},
	)

	profile.Verified = true
	return converter.DoctorToResponse(profile), nil
}
