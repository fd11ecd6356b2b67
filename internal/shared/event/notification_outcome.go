package event

import "time"

const NotificationDeliveredDestination string = "notification_delivered"
const NotificationFailedDestination string = "notification_failed"

// NotificationOutcomeMessage is published once a message log entry reaches
// SENT or FAILED.
type NotificationOutcomeMessage struct {
	LogID         int64      `json:"log_id"`
	EventType     string     `json:"event_type"`
	ReferenceType string     `json:"reference_type"`
	ReferenceID   int64      `json:"reference_id"`
	Status        string     `json:"status"`
	RetryCount    int32      `json:"retry_count"`
	ErrorMessage  string     `json:"error_message,omitempty"`
	SentAt        *time.Time `json:"sent_at,omitempty"`
}
