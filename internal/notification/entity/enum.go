package entity

import "strings"

type EventType string

const (
	EventEnquiryCreated    EventType = "enquiry_created"
	EventServiceCreated    EventType = "service_created"
	EventEngineerAssigned  EventType = "engineer_assigned"
	EventServiceCompleted  EventType = "service_completed"
	EventDeliveryFailed    EventType = "delivery_failed"
	EventDeliveryReattempt EventType = "delivery_reattempt"
)

// EventTypes lists every supported event in display order.
func EventTypes() []EventType {
	return []EventType{
		EventEnquiryCreated,
		EventServiceCreated,
		EventEngineerAssigned,
		EventServiceCompleted,
		EventDeliveryFailed,
		EventDeliveryReattempt,
	}
}

func (e EventType) Valid() bool {
	switch e {
	case EventEnquiryCreated, EventServiceCreated, EventEngineerAssigned,
		EventServiceCompleted, EventDeliveryFailed, EventDeliveryReattempt:
		return true
	default:
		return false
	}
}

func (e EventType) Label() string {
	switch e {
	case EventEnquiryCreated:
		return "Enquiry Created"
	case EventServiceCreated:
		return "Service Created"
	case EventEngineerAssigned:
		return "Engineer Assigned"
	case EventServiceCompleted:
		return "Service Completed"
	case EventDeliveryFailed:
		return "Delivery Failed"
	case EventDeliveryReattempt:
		return "Delivery Re-attempt"
	default:
		return string(e)
	}
}

func (e EventType) String() string {
	return string(e)
}

type ReferenceType string

const (
	ReferenceEnquiry       ReferenceType = "enquiry"
	ReferenceComplaint     ReferenceType = "complaint"
	ReferenceStockMovement ReferenceType = "stock_movement"
)

func (r ReferenceType) Valid() bool {
	switch r {
	case ReferenceEnquiry, ReferenceComplaint, ReferenceStockMovement:
		return true
	default:
		return false
	}
}

func (r ReferenceType) String() string {
	return string(r)
}

// Status is the lifecycle state of a message log entry.
//
//	PENDING  -> SENT | FAILED | RETRYING
//	RETRYING -> SENT | FAILED | RETRYING
//	FAILED   -> RETRYING (operator or scheduler)
//	SENT is terminal.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusSent     Status = "SENT"
	StatusFailed   Status = "FAILED"
	StatusRetrying Status = "RETRYING"
)

// ParseStatus accepts any casing; ok is false for unknown values.
func ParseStatus(raw string) (Status, bool) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	switch s {
	case StatusPending, StatusSent, StatusFailed, StatusRetrying:
		return s, true
	default:
		return "", false
	}
}

func (s Status) String() string {
	return string(s)
}

// InFlight reports whether a delivery may still be running for the entry.
func (s Status) InFlight() bool {
	return s == StatusPending || s == StatusRetrying
}

func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending, StatusRetrying:
		return next == StatusSent || next == StatusFailed || next == StatusRetrying
	case StatusFailed:
		return next == StatusRetrying
	default:
		return false
	}
}
