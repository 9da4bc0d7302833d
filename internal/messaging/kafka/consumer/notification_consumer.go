package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"go-hrms/internal/events"
	"go-hrms/internal/notification"
	notificationerrors "go-hrms/internal/notification/errors"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumers need.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// ConsumeLeaveNotifications stores every notification event as a row until ctx is cancelled.
// Undecodable or unaddressable events are committed and skipped; storage failures are left uncommitted.
func ConsumeLeaveNotifications(
	ctx context.Context,
	reader MessageReader,
	notificationService notification.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_notification")
	log.Info("leave notification consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave notification consumer stopped")
				return
			}
			log.Error("fetch leave notification message failed", zap.Error(err))
			continue
		}

		var event events.LeaveNotificationEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave notification event failed",
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		err = notificationService.Create(ctx, notification.Message{
			RecipientID: event.RecipientID,
			Type:        event.NotificationType,
			Title:       event.Title,
			Body:        event.Message,
			ReferenceID: event.ReferenceID,
		})
		if err != nil {
			if errors.Is(err, notificationerrors.ErrInvalidRecipientID) {
				log.Warn("leave notification without valid recipient, skipping",
					zap.String("recipient_id", event.RecipientID),
					zap.String("request_id", event.RequestID),
				)
				_ = reader.CommitMessages(ctx, msg)
				continue
			}

			log.Error("store leave notification failed",
				zap.String("recipient_id", event.RecipientID),
				zap.String("request_id", event.RequestID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave notification message failed", zap.Error(err))
			continue
		}

		log.Debug("leave notification stored",
			zap.String("recipient_id", event.RecipientID),
			zap.String("type", event.NotificationType),
			zap.String("request_id", event.RequestID),
		)
	}
}
