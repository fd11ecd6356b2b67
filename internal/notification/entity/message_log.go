package entity

import (
	"fmt"
	"time"
)

// MessageLog is the audit record of one logical send. Rows are never deleted.
type MessageLog struct {
	ID             int64
	EventType      EventType
	CustomerPhone  string
	CustomerName   string
	MessageContent string
	Status         Status
	ReferenceType  ReferenceType
	ReferenceID    int64
	ErrorMessage   string
	RetryCount     int32
	CreatedAt      time.Time
	UpdatedAt      time.Time
	SentAt         *time.Time
}

type CreateMessageLog struct {
	ID             int64
	EventType      EventType
	CustomerPhone  string
	CustomerName   string
	MessageContent string
	Status         Status
	ReferenceType  ReferenceType
	ReferenceID    int64
	ErrorMessage   string
}

// UpdateMessageLogStatus moves an entry to To only while its current status
// is one of From. An empty ErrorMessage keeps the stored one.
type UpdateMessageLogStatus struct {
	ID             int64
	From           []Status
	To             Status
	ErrorMessage   string
	IncrementRetry bool
	SentAt         *time.Time
}

// FlagKey identifies one idempotency flag.
type FlagKey struct {
	ReferenceType ReferenceType
	ReferenceID   int64
	EventType     EventType
}

func (k FlagKey) String() string {
	return fmt.Sprintf("%s:%d:%s", k.ReferenceType, k.ReferenceID, k.EventType)
}

type MessageLogFilter struct {
	EventType EventType
	Status    Status
	// DateFrom and DateTo bound created_at; DateTo is exclusive.
	DateFrom *time.Time
	DateTo   *time.Time
	Search   string
	Limit    int32
	Offset   int32
}

type MessageLogSummary struct {
	Total     int64
	Sent      int64
	Failed    int64
	Pending   int64
	Retrying  int64
	Today     int64
	Last7Days int64
}
