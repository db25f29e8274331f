package entity

import (
	"time"

	"github.com/google/uuid"
)

// MedicalRecord is a diagnosis/treatment note written by a doctor for a patient
type MedicalRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID  uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID   uuid.UUID `gorm:"type:uuid;not null;index" json:"doctor_id"`
	DoctorName string    `gorm:"type:varchar(255);not null" json:"doctor_name"`
	Date       time.Time `gorm:"type:date;not null" json:"date"`
	Diagnosis  string    `gorm:"type:text;not null" json:"diagnosis"`
	Treatment  string    `gorm:"type:text" json:"treatment"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (MedicalRecord) TableName() string {
	return "medical_records"
}
