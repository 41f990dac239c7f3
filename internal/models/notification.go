package models

import (
	"time"
)

const (
	NotificationNewResponse      = "new_response"
	NotificationResponseAccepted = "response_accepted"
	NotificationNewReview        = "new_review"
)

type Notification struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
