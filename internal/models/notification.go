package models

type NotificationType string

const (
	NotificationTypeOrderConfirmation NotificationType = "order_confirmation"
)

// Notification is a message handed to the notification service.
type Notification struct {
	Type     NotificationType  `json:"type"`
	UserID   int64             `json:"user_id"`
	Email    string            `json:"email,omitempty"`
	Subject  string            `json:"subject"`
	Body     string            `json:"body"`
	Metadata map[string]string `json:"metadata,omitempty"`
}
