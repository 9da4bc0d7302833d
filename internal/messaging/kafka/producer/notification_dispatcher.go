package producer

import (
	"context"
	"encoding/json"

	"go-hrms/internal/events"
	"go-hrms/internal/notification"
	"go-hrms/internal/shared/clock"
	"go-hrms/internal/shared/contextutil"

	"go.uber.org/zap"
)

type notificationDispatcher struct {
	writer MessageWriter
	clock  clock.Clock
	logger *zap.Logger
}

// NewNotificationDispatcher publishes each message to the leave notification topic, keyed by recipient
// so one recipient's notifications stay ordered.
func NewNotificationDispatcher(writer MessageWriter, clk clock.Clock, logger ...*zap.Logger) notification.Dispatcher {
	l := zap.L().Named("kafka.producer.notification")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("kafka.producer.notification")
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &notificationDispatcher{writer: writer, clock: clk, logger: l}
}

func (d *notificationDispatcher) Dispatch(ctx context.Context, msgs ...notification.Message) error {
	if len(msgs) == 0 {
		return nil
	}

	rid := contextutil.GetRequestID(ctx)
	now := d.clock.Now().UTC()

	batch := make([]envelope, 0, len(msgs))
	for _, m := range msgs {
		payload, err := json.Marshal(events.LeaveNotificationEvent{
			EventType:        events.LeaveNotificationEventType,
			RequestID:        rid,
			RecipientID:      m.RecipientID,
			NotificationType: m.Type,
			Title:            m.Title,
			Message:          m.Body,
			ReferenceID:      m.ReferenceID,
			OccurredAt:       now,
		})
		if err != nil {
			return err
		}
		batch = append(batch, envelope{
			Topic:     events.LeaveNotificationTopic,
			Key:       m.RecipientID,
			EventType: events.LeaveNotificationEventType,
			RequestID: rid,
			Payload:   payload,
		})
	}

	if err := publishEvents(ctx, d.writer, batch); err != nil {
		d.logger.Error("publish notifications failed",
			zap.String("request_id", rid),
			zap.Int("count", len(batch)),
			zap.Error(err),
		)
		return err
	}

	d.logger.Debug("publish notifications success", zap.String("request_id", rid), zap.Int("count", len(batch)))
	return nil
}
