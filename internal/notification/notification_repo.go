package notification

import (
	"context"
	"time"

	"go-hrms/internal/shared/scope"

	"gorm.io/gorm"
)

//go:generate mockgen -source=notification_repo.go -destination=mock/notification_repo_mock.go -package=mock
type Repository interface {
	CreateBatch(ctx context.Context, items []Notification) error
	ListByRecipient(ctx context.Context, recipientID string, filter ListFilter) ([]Notification, int64, error)
	MarkRead(ctx context.Context, recipientID, id string, at time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateBatch(ctx context.Context, items []Notification) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) ListByRecipient(ctx context.Context, recipientID string, filter ListFilter) ([]Notification, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("recipient_id = ?", recipientID)
	if filter.UnreadOnly {
		q = q.Where("is_read = ?", false)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []Notification
	err := q.Scopes(scope.Newest("created_at"), scope.Paginate(filter.Page, filter.Limit)).
		Find(&items).Error
	return items, total, err
}

// MarkRead keeps the first read timestamp when called again on an already read notification.
func (r *repository) MarkRead(ctx context.Context, recipientID, id string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": gorm.Expr("COALESCE(read_at, ?)", at),
		})
	return res.RowsAffected, res.Error
}
