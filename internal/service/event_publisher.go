package service

import (
	"context"

	"mediconnect/internal/domain/gateway"

	"github.com/sirupsen/logrus"
)

// LogEventPublisher is used when no broker is configured. Events are only logged.
type LogEventPublisher struct {
	log *logrus.Logger
}

func NewLogEventPublisher(log *logrus.Logger) *LogEventPublisher {
	return &LogEventPublisher{log: log}
}

var _ gateway.EventPublisher = (*LogEventPublisher)(nil)

func (p *LogEventPublisher) PublishAppointmentEvent(_ context.Context, event gateway.AppointmentEvent) error {
	p.log.WithFields(logrus.Fields{
		"type":           event.Type,
		"appointment_id": event.AppointmentID,
		"doctor_id":      event.DoctorID,
		"status":         event.Status,
	}).Debug("Appointment event")
	return nil
}
