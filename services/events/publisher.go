package events

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"tourly/models"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

// Publisher emits domain events for downstream consumers (notifications,
// analytics). Publishing is best-effort: failures are logged, never
// propagated into the request path.
type Publisher interface {
	BookingStatusChanged(booking *models.Booking)
	PaymentSettled(payment *models.Payment)
}

// BookingEvent is the wire shape of a booking lifecycle event.
type BookingEvent struct {
	Type       string    `json:"type"`
	BookingID  string    `json:"bookingId"`
	TouristID  string    `json:"touristId,omitempty"`
	GuideID    string    `json:"guideId,omitempty"`
	Status     string    `json:"status,omitempty"`
	PaymentID  string    `json:"paymentId,omitempty"`
	Amount     float64   `json:"amount,omitempty"`
	Currency   string    `json:"currency,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// KafkaPublisher publishes events to a Kafka topic.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *zap.Logger
}

// NewKafkaPublisher builds a publisher over the given brokers.
func NewKafkaPublisher(brokers, topic string, logger *zap.Logger) (*KafkaPublisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(strings.Split(brokers, ","), config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Info("Kafka producer initialized", zap.String("topic", topic))
	return &KafkaPublisher{producer: producer, topic: topic, logger: logger}, nil
}

func (p *KafkaPublisher) BookingStatusChanged(booking *models.Booking) {
	p.publish(BookingEvent{
		Type:       "booking.status_changed",
		BookingID:  booking.ID,
		TouristID:  booking.TouristID,
		GuideID:    booking.GuideID,
		Status:     string(booking.Status),
		OccurredAt: time.Now(),
	}, booking.ID)
}

func (p *KafkaPublisher) PaymentSettled(payment *models.Payment) {
	p.publish(BookingEvent{
		Type:       "payment.settled",
		BookingID:  payment.BookingID,
		PaymentID:  payment.ID,
		Status:     string(payment.Status),
		Amount:     payment.Amount,
		Currency:   payment.Currency,
		OccurredAt: time.Now(),
	}, payment.BookingID)
}

func (p *KafkaPublisher) publish(event BookingEvent, key string) {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("failed to marshal event", zap.Error(err))
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.StringEncoder(eventJSON),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.logger.Error("failed to publish event",
			zap.String("type", event.Type),
			zap.Error(err),
		)
		return
	}

	p.logger.Info("Event published",
		zap.String("type", event.Type),
		zap.String("topic", p.topic),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
	)
}

// Close shuts down the underlying producer.
func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// NopPublisher drops all events. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) BookingStatusChanged(*models.Booking) {}
func (NopPublisher) PaymentSettled(*models.Payment)       {}
