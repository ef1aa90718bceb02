package events

import (
	"context"
	"strings"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/openpark/service-booking/internal/platform/kafka"
)

// BookingNotifier dispatches notifications for a newly created booking.
type BookingNotifier interface {
	NotifyBookingCreated(ctx context.Context, e BookingCreatedEvent)
}

// BookingEventConsumer listens to booking events and dispatches
// notifications. It runs inside the same binary but is decoupled through
// Kafka so notification failures cannot touch the booking transaction.
type BookingEventConsumer struct {
	consumer *kafka.Consumer
	notifier BookingNotifier
	logger   *zap.Logger
}

// NewBookingEventConsumer creates a consumer for booking events.
func NewBookingEventConsumer(brokers []string, groupID string, notifier BookingNotifier, logger *zap.Logger) *BookingEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, TopicBookingEvents, logger)
	return &BookingEventConsumer{
		consumer: consumer,
		notifier: notifier,
		logger:   logger,
	}
}

// Start begins consuming booking events. It blocks until the context is
// cancelled.
func (c *BookingEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// handleMessage routes incoming Kafka messages to the appropriate handler.
func (c *BookingEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from booking topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return err
	}

	c.logger.Info("received booking event",
		zap.String("type", cloudEvent.Type),
		zap.String("id", cloudEvent.ID),
	)

	switch {
	case strings.EqualFold(cloudEvent.Type, BookingCreated):
		var event BookingCreatedEvent
		if err := cloudEvent.ParseData(&event); err != nil {
			c.logger.Error("failed to parse BookingCreatedEvent data", zap.Error(err))
			return err
		}
		c.notifier.NotifyBookingCreated(ctx, event)
		return nil

	default:
		c.logger.Debug("ignoring unhandled booking event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

// Close closes the underlying Kafka consumer.
func (c *BookingEventConsumer) Close() error {
	return c.consumer.Close()
}
