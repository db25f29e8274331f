package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateMedicalRecordRequest struct {
	PatientID uuid.UUID `json:"patient_id" validate:"required"`
	Date      string    `json:"date" validate:"required,datetime=2006-01-02"`
	Diagnosis string    `json:"diagnosis" validate:"required,min=3"`
	Treatment string    `json:"treatment" validate:"omitempty"`
}

type MedicalRecordResponse struct {
	ID         uuid.UUID `json:"id"`
	PatientID  uuid.UUID `json:"patient_id"`
	DoctorID   uuid.UUID `json:"doctor_id"`
	DoctorName string    `json:"doctor_name"`
	Date       string    `json:"date"`
	Diagnosis  string    `json:"diagnosis"`
	Treatment  string    `json:"treatment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type MedicalRecordListResponse struct {
	Records []MedicalRecordResponse `json:"records"`
	Total   int                     `json:"total"`
}
