package notification

import "time"

// Message is a notification about to be delivered to one recipient.
type Message struct {
	RecipientID string
	Type        string
	Title       string
	Body        string
	ReferenceID string
}

type ListFilter struct {
	UnreadOnly bool
	Page       int
	Limit      int
}

type NotificationResponse struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Message     string  `json:"message"`
	ReferenceID *string `json:"reference_id,omitempty"`
	IsRead      bool    `json:"is_read"`
	ReadAt      *string `json:"read_at,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

func mapToResponse(n Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID.String(),
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
	if n.ReferenceID != nil {
		v := n.ReferenceID.String()
		resp.ReferenceID = &v
	}
	if n.ReadAt != nil {
		v := n.ReadAt.Format(time.RFC3339)
		resp.ReadAt = &v
	}
	return resp
}

func mapToListResponse(items []Notification) []NotificationResponse {
	resp := make([]NotificationResponse, len(items))
	for i, n := range items {
		resp[i] = mapToResponse(n)
	}
	return resp
}
