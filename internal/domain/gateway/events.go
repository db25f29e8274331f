package gateway

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Appointment event types
const (
	EventAppointmentBooked        = "appointment.booked"
	EventAppointmentStatusChanged = "appointment.status_changed"
)

// AppointmentEvent is pushed to subscribers (dashboards) so they can refresh
// without polling
type AppointmentEvent struct {
	Type          string    `json:"type"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	PatientID     uuid.UUID `json:"patient_id"`
	DoctorID      uuid.UUID `json:"doctor_id"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// EventPublisher delivers appointment events
type EventPublisher interface {
	PublishAppointmentEvent(ctx context.Context, event AppointmentEvent) error
}
