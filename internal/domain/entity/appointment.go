package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// Appointment represents a patient booking of one doctor slot.
// At most one non-cancelled appointment may hold a (doctor, date, time) triple.
type Appointment struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID   uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	DoctorName  string            `gorm:"type:varchar(255);not null" json:"doctor_name"`
	Date        time.Time         `gorm:"type:date;not null;index" json:"date"`
	Time        string            `gorm:"type:varchar(8);not null" json:"time"`
	SlotMinutes int               `gorm:"not null" json:"-"`
	Reason      string            `gorm:"type:text;not null" json:"reason"`
	Status      AppointmentStatus `gorm:"type:varchar(20);not null;default:'scheduled';index" json:"status"`
	CreatedAt   time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsScheduled checks if appointment is still open
func (a *Appointment) IsScheduled() bool {
	return a.Status == AppointmentStatusScheduled
}

// CanTransitionTo reports whether the lifecycle allows moving to next.
// Only scheduled -> completed and scheduled -> cancelled are permitted.
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	if !a.IsScheduled() {
		return false
	}
	return next == AppointmentStatusCompleted || next == AppointmentStatusCancelled
}

// ParseAppointmentStatus validates a status string
func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	switch AppointmentStatus(s) {
	case AppointmentStatusScheduled, AppointmentStatusCompleted, AppointmentStatusCancelled:
		return AppointmentStatus(s), true
	}
	return "", false
}
