package models

import "time"

// Notification kinds.
const (
	KindSuccess = "success"
	KindError   = "error"
	KindInfo    = "info"
)

// Notification is a user-visible notice for one session.
type Notification struct {
	ID          string     `json:"id"`
	SessionID   string     `json:"-"`
	Kind        string     `json:"kind"` // e.g., "success", "error"
	Message     string     `json:"message"`
	CreatedAt   time.Time  `json:"createdAt"`
	DeliveredAt *time.Time `json:"deliveredAt,omitempty"`
}
