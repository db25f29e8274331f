package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mediconnect/config"
	"mediconnect/internal/domain/gateway"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// KafkaPublisher writes appointment events keyed by doctor id so that every
// event of one doctor lands on the same partition in order.
type KafkaPublisher struct {
	writer *kafka.Writer
	log    *logrus.Logger
}

func NewKafkaPublisher(cfg config.KafkaConfig, log *logrus.Logger) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS is not configured")
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.AppointmentTopic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           50 * time.Millisecond,
		WriteTimeout:           2 * time.Second,
		MaxAttempts:            3,
		AllowAutoTopicCreation: true,
	}

	log.WithField("topic", cfg.AppointmentTopic).Info("Kafka producer created")
	return &KafkaPublisher{writer: writer, log: log}, nil
}

var _ gateway.EventPublisher = (*KafkaPublisher)(nil)

func (p *KafkaPublisher) PublishAppointmentEvent(ctx context.Context, event gateway.AppointmentEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal appointment event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.DoctorID.String()),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("publish appointment event: %w", err)
	}

	p.log.WithFields(logrus.Fields{
		"topic":          p.writer.Topic,
		"type":           event.Type,
		"appointment_id": event.AppointmentID,
	}).Debug("Appointment event published")
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
