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
	ErrPatientNotFound    = errors.New("patient not found")
	ErrPatientNotAssigned = errors.New("patient has no appointment with this doctor")
)

type MedicalRecordUsecase interface {
	CreateRecord(ctx context.Context, actor entity.Session, req *dto.CreateMedicalRecordRequest) (*dto.MedicalRecordResponse, error)
	ListPatientRecords(ctx context.Context, patientID uuid.UUID) (*dto.MedicalRecordListResponse, error)
	ListRecordsForDoctor(ctx context.Context, actor entity.Session, patientID uuid.UUID) (*dto.MedicalRecordListResponse, error)
}

type medicalRecordUsecase struct {
	log               *logrus.Logger
	recordRepo        repository.MedicalRecordRepository
	appointmentRepo   repository.AppointmentRepository
	userRepo          repository.UserRepository
	doctorProfileRepo repository.DoctorProfileRepository
	auditService      service.AuditService
	clock             Clock
}

func NewMedicalRecordUsecase(
	log *logrus.Logger,
	recordRepo repository.MedicalRecordRepository,
	appointmentRepo repository.AppointmentRepository,
	userRepo repository.UserRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	auditService service.AuditService,
	clock Clock,
) MedicalRecordUsecase {
	return &medicalRecordUsecase{
		log:               log,
		recordRepo:        recordRepo,
		appointmentRepo:   appointmentRepo,
		userRepo:          userRepo,
		doctorProfileRepo: doctorProfileRepo,
		auditService:      auditService,
		clock:             clock,
	}
}

// CreateRecord is restricted to verified doctors writing for a patient account
func (u *medicalRecordUsecase) CreateRecord(ctx context.Context, actor entity.Session, req *dto.CreateMedicalRecordRequest) (*dto.MedicalRecordResponse, error) {
	doctor, err := u.verifiedDoctor(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	date, err := entity.ParseDate(req.Date, u.clock.Location())
	if err != nil {
		return nil, ErrInvalidDate
	}

	patient, err := u.userRepo.FindByID(ctx, req.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil || patient.Role != entity.RolePatient {
		return nil, ErrPatientNotFound
	}

	record := &entity.MedicalRecord{
		PatientID:  patient.ID,
		DoctorID:   doctor.UserID,
		DoctorName: doctor.User.FullName,
		Date:       date,
		Diagnosis:  strings.TrimSpace(req.Diagnosis),
		Treatment:  strings.TrimSpace(req.Treatment),
	}

	if err := u.recordRepo.Create(ctx, record); err != nil {
		u.log.Warnf("Failed to create medical record: %+v", err)
		return nil, err
	}

	_ = u.auditService.LogCreate(ctx, &actor.UserID, entity.AuditActionRecordCreate, "medical_record", record.ID.String(), map[string]interface{}{
		"patient_id": record.PatientID,
		"date":       req.Date,
	})

	return converter.MedicalRecordToResponse(record), nil
}

func (u *medicalRecordUsecase) ListPatientRecords(ctx context.Context, patientID uuid.UUID) (*dto.MedicalRecordListResponse, error) {
	records, err := u.recordRepo.FindByPatientID(ctx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find medical records: %+v", err)
		return nil, err
	}

	return &dto.MedicalRecordListResponse{
		Records: converter.MedicalRecordsToResponses(records),
		Total:   len(records),
	}, nil
}

// ListRecordsForDoctor is limited to patients who booked with the doctor
func (u *medicalRecordUsecase) ListRecordsForDoctor(ctx context.Context, actor entity.Session, patientID uuid.UUID) (*dto.MedicalRecordListResponse, error) {
	if _, err := u.verifiedDoctor(ctx, actor.UserID); err != nil {
		return nil, err
	}

	assigned, err := u.appointmentRepo.ExistsForDoctorAndPatient(ctx, actor.UserID, patientID)
	if err != nil {
		u.log.Warnf("Failed to check doctor-patient relation: %+v", err)
		return nil, err
	}
	if !assigned {
		return nil, ErrPatientNotAssigned
	}

	return u.ListPatientRecords(ctx, patientID)
}

func (u *medicalRecordUsecase) verifiedDoctor(ctx context.Context, doctorID uuid.UUID) (*entity.DoctorProfile, error) {
	doctor, err := u.doctorProfileRepo.FindByUserID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	if !doctor.Verified {
		return nil, ErrDoctorNotVerified
	}
	return doctor, nil
}
