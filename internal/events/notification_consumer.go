package events

import (
	"context"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/driveline/service-rental/internal/platform/kafka"
)

// Mailer delivers a rendered notification to a customer. Implementations
// decide the transport; delivery failures are the implementation's problem
// to report.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer writes notifications to the service log instead of sending
// them. Used until a real mail transport is wired in.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, to, subject, body string) error {
	m.logger.Info("notification",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return nil
}

// NotificationConsumer reads booking lifecycle events and turns the ones a
// customer cares about into mail.
type NotificationConsumer struct {
	consumer *kafka.Consumer
	mailer   Mailer
	logger   *zap.Logger
}

// NewNotificationConsumer creates a NotificationConsumer over the booking
// events topic.
func NewNotificationConsumer(brokers []string, groupID string, mailer Mailer, logger *zap.Logger) *NotificationConsumer {
	return &NotificationConsumer{
		consumer: kafka.NewConsumer(brokers, groupID, TopicBookingEvents, logger),
		mailer:   mailer,
		logger:   logger,
	}
}

// Start blocks consuming events until the context is cancelled.
func (n *NotificationConsumer) Start(ctx context.Context) error {
	return n.consumer.Consume(ctx, n.handle)
}

// Close closes the underlying Kafka reader.
func (n *NotificationConsumer) Close() error {
	return n.consumer.Close()
}

// handle commits malformed messages after logging: retrying them would
// never succeed.
func (n *NotificationConsumer) handle(ctx context.Context, msg kafkago.Message) error {
	ce, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		n.logger.Warn("skipping malformed event", zap.Int64("offset", msg.Offset), zap.Error(err))
		return nil
	}

	var evt BookingEvent
	if err := ce.ParseData(&evt); err != nil {
		n.logger.Warn("skipping event with malformed payload",
			zap.String("type", ce.Type),
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
		return nil
	}

	var subject, body string
	switch ce.Type {
	case BookingConfirmed:
		subject = "Your booking is confirmed"
		body = fmt.Sprintf(
			"Hi %s, your booking of the %s %s from %s to %s is confirmed. Total charged: $%.2f.",
			evt.CustomerName, evt.CarMake, evt.CarModel, evt.StartDate, evt.EndDate,
			float64(evt.TotalPriceCents)/100,
		)
	case BookingCancelled:
		subject = "Your booking was cancelled"
		body = fmt.Sprintf(
			"Hi %s, your booking of the %s %s from %s to %s has been cancelled.",
			evt.CustomerName, evt.CarMake, evt.CarModel, evt.StartDate, evt.EndDate,
		)
	default:
		// Created and completed events are recorded but not mailed.
		return nil
	}

	if err := n.mailer.Send(ctx, evt.CustomerEmail, subject, body); err != nil {
		return fmt.Errorf("send notification for booking %s: %w", evt.BookingID, err)
	}
	return nil
}
