package notification

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeLeaveApplied  = "leave_applied"
	TypeLeaveApproved = "leave_approved"
	TypeLeaveRejected = "leave_rejected"
)

type Notification struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RecipientID uuid.UUID  `gorm:"type:uuid;not null;index:idx_notifications_recipient_read"`
	Type        string     `gorm:"type:varchar(30);not null"`
	Title       string     `gorm:"type:varchar(255);not null"`
	Message     string     `gorm:"type:text;not null"`
	ReferenceID *uuid.UUID `gorm:"type:uuid"`
	IsRead      bool       `gorm:"not null;default:false;index:idx_notifications_recipient_read"`
	ReadAt      *time.Time
	CreatedAt   time.Time
}
