package entity

import "time"

type DispatchResult string

const (
	DispatchAccepted DispatchResult = "ACCEPTED"
	DispatchSkipped  DispatchResult = "SKIPPED"
	DispatchRejected DispatchResult = "REJECTED"
)

// Rejection reasons reported to trigger callers.
const (
	ReasonInvalidPhone   = "invalid_phone"
	ReasonBlockedNumber  = "blocked_number"
	ReasonRenderFailed   = "render_failed"
	ReasonAlreadyTrigger = "already_triggered"
)

type DispatchOutcome struct {
	Result DispatchResult
	// LogID is zero when no audit entry was written.
	LogID  int64
	Reason string
}

type SendStatus int

const (
	SendSuccess SendStatus = iota
	SendTransient
	SendPermanent
)

func (s SendStatus) String() string {
	switch s {
	case SendSuccess:
		return "success"
	case SendTransient:
		return "transient"
	case SendPermanent:
		return "permanent"
	default:
		return "unknown"
	}
}

// SendResult is what a channel reports for one send. Detail is set for
// failures and ends up in the log entry's error message.
type SendResult struct {
	Status            SendStatus
	Detail            string
	ProviderMessageID string
}

// DeliveryJob is one queued send attempt. Attempt is 1-based within the
// current retry run that began at StartedAt. RetryCount is the entry's retry
// count when the job was queued; the job is stale once the entry moved past it.
type DeliveryJob struct {
	LogID      int64
	Attempt    int
	RetryCount int32
	StartedAt  time.Time
}
