package events

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/driveline/service-rental/internal/platform/kafka"
)

// publisher is the subset of the Kafka producer the dispatcher needs.
type publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event kafka.CloudEvent) error
}

type queued struct {
	eventType string
	event     BookingEvent
}

// Dispatcher hands booking events to the notification channel. Dispatch
// never blocks and never returns an error: events are enqueued onto a
// bounded queue drained by a background worker, and are dropped with a log
// line when the queue is full. Losing a notification must never fail or
// delay the transition that produced it.
type Dispatcher struct {
	producer publisher
	logger   *zap.Logger
	queue    chan queued
	done     chan struct{}
	once     sync.Once
}

// NewDispatcher creates a Dispatcher with the given queue capacity and
// starts its worker.
func NewDispatcher(producer publisher, logger *zap.Logger, capacity int) *Dispatcher {
	d := &Dispatcher{
		producer: producer,
		logger:   logger,
		queue:    make(chan queued, capacity),
		done:     make(chan struct{}),
	}
	go d.run()
	return d
}

// Dispatch enqueues one event for publication. Best effort: on a full queue
// the event is dropped and logged.
func (d *Dispatcher) Dispatch(eventType string, evt BookingEvent) {
	select {
	case d.queue <- queued{eventType: eventType, event: evt}:
	default:
		d.logger.Warn("notification queue full, dropping event",
			zap.String("event_type", eventType),
			zap.String("booking_id", evt.BookingID.String()),
		)
	}
}

// Close stops accepting events, drains the queue and waits for the worker.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.queue)
		<-d.done
	})
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for q := range d.queue {
		d.publish(q.eventType, q.event)
	}
}

func (d *Dispatcher) publish(eventType string, evt BookingEvent) {
	ce, err := kafka.NewCloudEvent("service-rental", eventType, evt)
	if err != nil {
		d.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.producer.PublishEvent(ctx, TopicBookingEvents, evt.BookingID.String(), ce); err != nil {
		d.logger.Error("failed to publish booking event",
			zap.String("event_type", eventType),
			zap.String("booking_id", evt.BookingID.String()),
			zap.Error(err),
		)
	}
}
