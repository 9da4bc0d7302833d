package events

import "time"

const LeaveNotificationTopic = "hr.leave.notification.v1"

const LeaveNotificationEventType = "leave_notification"

// LeaveNotificationEvent is one notification addressed to a single recipient.
type LeaveNotificationEvent struct {
	EventType        string    `json:"event_type"`
	RequestID        string    `json:"request_id,omitempty"`
	RecipientID      string    `json:"recipient_id"`
	NotificationType string    `json:"notification_type"`
	Title            string    `json:"title"`
	Message          string    `json:"message"`
	ReferenceID      string    `json:"reference_id,omitempty"`
	OccurredAt       time.Time `json:"occurred_at"`
}
