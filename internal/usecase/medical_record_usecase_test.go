package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"mediconnect/internal/delivery/dto"
	"mediconnect/internal/domain/entity"

	"github.com/google/uuid"
)

type recordFixture struct {
	uc        MedicalRecordUsecase
	records   *mockRecordRepo
	bookings  *mockAppointmentRepo
	doctors   *mockDoctorRepo
	audit     *mockAuditService
	doctor    entity.Session
	patientID uuid.UUID
}

func (f *recordFixture) book(status entity.AppointmentStatus) {
	_ = f.bookings.Create(context.Background(), &entity.Appointment{
		PatientID: f.patientID,
		DoctorID:  f.doctor.UserID,
		Date:      time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC),
		Time:      "09:00 AM",
		Status:    status,
	})
}

func newRecordFixture() *recordFixture {
	f := &recordFixture{
		records:  newMockRecordRepo(),
		bookings: newMockAppointmentRepo(),
		doctors:  newMockDoctorRepo(),
		audit:    &mockAuditService{},
	}
	users := newMockUserRepo()
	patient := &entity.User{Email: "pat@example.com", FullName: "Pat", Role: entity.RolePatient, IsActive: true}
	_ = users.Create(context.Background(), patient)
	f.patientID = patient.ID

	f.doctor = entity.Session{UserID: f.doctors.add("Dr. House", true), Role: entity.RoleDoctor}
	f.uc = NewMedicalRecordUsecase(newTestLogger(), f.records, f.bookings, users, f.doctors, f.audit, fixedClock("2025-06-01"))
	return f
}

func (f *recordFixture) request() *dto.CreateMedicalRecordRequest {
	return &dto.CreateMedicalRecordRequest{
		PatientID: f.patientID,
		Date:      "2025-05-20",
		Diagnosis: "Tension headache",
		Treatment: "Rest and hydration",
	}
}

func TestCreateRecord(t *testing.T) {
	f := newRecordFixture()

	resp, err := f.uc.CreateRecord(context.Background(), f.doctor, f.request())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.DoctorName != "Dr. House" || resp.PatientID != f.patientID {
		t.Errorf("unexpected record: %+v", resp)
	}
	if !f.audit.has(entity.AuditActionRecordCreate) {
		t.Error("expected medical_record.create audit entry")
	}

	list, err := f.uc.ListPatientRecords(context.Background(), f.patientID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list.Total != 1 || list.Records[0].Diagnosis != "Tension headache" {
		t.Errorf("unexpected list: %+v", list)
	}
}

func TestCreateRecord_Rejections(t *testing.T) {
	f := newRecordFixture()
	pending := entity.Session{UserID: f.doctors.add("Dr. Pending", false), Role: entity.RoleDoctor}

	if _, err := f.uc.CreateRecord(context.Background(), pending, f.request()); !errors.Is(err, ErrDoctorNotVerified) {
		t.Errorf("expected ErrDoctorNotVerified, got %v", err)
	}

	req := f.request()
	req.PatientID = f.doctor.UserID
	if _, err := f.uc.CreateRecord(context.Background(), f.doctor, req); !errors.Is(err, ErrPatientNotFound) {
		t.Errorf("expected ErrPatientNotFound, got %v", err)
	}

	req = f.request()
	req.Date = "20/05/2025"
	if _, err := f.uc.CreateRecord(context.Background(), f.doctor, req); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}

	if len(f.records.records) != 0 {
		t.Errorf("expected no records, got %d", len(f.records.records))
	}
}

func TestListRecordsForDoctor(t *testing.T) {
	f := newRecordFixture()
	if _, err := f.uc.CreateRecord(context.Background(), f.doctor, f.request()); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	f.book(entity.AppointmentStatusCancelled)

	list, err := f.uc.ListRecordsForDoctor(context.Background(), f.doctor, f.patientID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list.Total != 1 {
		t.Errorf("expected 1 record, got %d", list.Total)
	}

	stranger := entity.Session{UserID: uuid.New(), Role: entity.RoleDoctor}
	if _, err := f.uc.ListRecordsForDoctor(context.Background(), stranger, f.patientID); !errors.Is(err, ErrDoctorNotFound) {
		t.Errorf("expected ErrDoctorNotFound, got %v", err)
	}
}

func TestListRecordsForDoctor_PatientNotAssigned(t *testing.T) {
	f := newRecordFixture()
	if _, err := f.uc.CreateRecord(context.Background(), f.doctor, f.request()); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	other := entity.Session{UserID: f.doctors.add("Dr. Wilson", true), Role: entity.RoleDoctor}
	f.book(entity.AppointmentStatusScheduled)

	if _, err := f.uc.ListRecordsForDoctor(context.Background(), other, f.patientID); !errors.Is(err, ErrPatientNotAssigned) {
		t.Errorf("expected ErrPatientNotAssigned, got %v", err)
	}
	if _, err := f.uc.ListRecordsForDoctor(context.Background(), f.doctor, f.patientID); err != nil {
		t.Errorf("assigned doctor should read records, got %v", err)
	}
}

func TestListRecordsForDoctor_LookupError(t *testing.T) {
	f := newRecordFixture()
	f.bookings.findErr = errStore

	if _, err := f.uc.ListRecordsForDoctor(context.Background(), f.doctor, f.patientID); !errors.Is(err, errStore) {
		t.Errorf("expected store error, got %v", err)
	}
}

func TestListPatientRecords_Empty(t *testing.T) {
	f := newRecordFixture()

	list, err := f.uc.ListPatientRecords(context.Background(), f.patientID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list.Total != 0 || list.Records == nil {
		t.Errorf("expected empty non-nil records, got %#v", list.Records)
	}
}
