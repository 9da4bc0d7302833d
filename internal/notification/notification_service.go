package notification

import (
	"context"

	notificationerrors "go-hrms/internal/notification/errors"
	"go-hrms/internal/shared/clock"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=notification_service.go -destination=mock/notification_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, msgs ...Message) error
	ListMine(ctx context.Context, recipientID string, filter ListFilter) ([]NotificationResponse, int64, error)
	MarkRead(ctx context.Context, recipientID, id string) error
}

type service struct {
	repo   Repository
	clock  clock.Clock
	logger *zap.Logger
}

func NewService(repo Repository, clk clock.Clock, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &service{repo: repo, clock: clk, logger: l}
}

func (s *service) Create(ctx context.Context, msgs ...Message) error {
	items := make([]Notification, 0, len(msgs))
	for _, m := range msgs {
		recipient, err := uuid.Parse(m.RecipientID)
		if err != nil {
			s.logger.Warn("create notification invalid recipient", zap.String("recipient_id", m.RecipientID))
			return notificationerrors.ErrInvalidRecipientID
		}

		n := Notification{
			ID:          uuid.New(),
			RecipientID: recipient,
			Type:        m.Type,
			Title:       m.Title,
			Message:     m.Body,
			CreatedAt:   s.clock.Now(),
		}
		if ref, err := uuid.Parse(m.ReferenceID); err == nil {
			n.ReferenceID = &ref
		}
		items = append(items, n)
	}

	if err := s.repo.CreateBatch(ctx, items); err != nil {
		s.logger.Error("create notification persist failed", zap.Int("count", len(items)), zap.Error(err))
		return err
	}

	s.logger.Debug("create notification success", zap.Int("count", len(items)))
	return nil
}

func (s *service) ListMine(ctx context.Context, recipientID string, filter ListFilter) ([]NotificationResponse, int64, error) {
	if _, err := uuid.Parse(recipientID); err != nil {
		return nil, 0, notificationerrors.ErrInvalidRecipientID
	}

	items, total, err := s.repo.ListByRecipient(ctx, recipientID, filter)
	if err != nil {
		s.logger.Error("list notifications failed", zap.String("recipient_id", recipientID), zap.Error(err))
		return nil, 0, err
	}
	return mapToListResponse(items), total, nil
}

// MarkRead reports not found for notifications addressed to someone else.
func (s *service) MarkRead(ctx context.Context, recipientID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return notificationerrors.ErrInvalidNotificationID
	}

	affected, err := s.repo.MarkRead(ctx, recipientID, id, s.clock.Now())
	if err != nil {
		s.logger.Error("mark notification read failed", zap.String("notification_id", id), zap.Error(err))
		return err
	}
	if affected == 0 {
		return notificationerrors.ErrNotificationNotFound
	}
	return nil
}
