package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// BookAppointmentRequest is the booking form. Date is YYYY-MM-DD and Time one
// of the standard slot labels such as "10:00 AM".
type BookAppointmentRequest struct {
	DoctorID uuid.UUID `json:"doctor_id" validate:"required"`
	Date     string    `json:"date" validate:"required,datetime=2006-01-02"`
	Time     string    `json:"time" validate:"required"`
	Reason   string    `json:"reason" validate:"required,min=5,max=1000"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=completed cancelled"`
}

// Response DTOs

type AppointmentResponse struct {
	ID         uuid.UUID `json:"id"`
	PatientID  uuid.UUID `json:"patient_id"`
	DoctorID   uuid.UUID `json:"doctor_id"`
	DoctorName string    `json:"doctor_name"`
	Date       string    `json:"date"`
	Time       string    `json:"time"`
	Reason     string    `json:"reason"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
