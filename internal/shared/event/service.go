package event

import "time"

const (
	ServiceCreatedDestination          string = "service_created"
	ServiceCreatedConsumerNotification string = "service_created_notification"

	ServiceEngineerAssignedDestination          string = "service_engineer_assigned"
	ServiceEngineerAssignedConsumerNotification string = "service_engineer_assigned_notification"

	ServiceCompletedDestination          string = "service_completed"
	ServiceCompletedConsumerNotification string = "service_completed_notification"
)

// ServiceCreatedMessage is published when a service request (complaint) is
// registered. ScheduledDate is optional.
type ServiceCreatedMessage struct {
	ComplaintID   int64      `json:"complaint_id"`
	TicketID      string     `json:"ticket_id"`
	CustomerName  string     `json:"customer_name"`
	CustomerPhone string     `json:"customer_phone"`
	ServiceType   string     `json:"service_type"`
	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`
}

type ServiceEngineerAssignedMessage struct {
	ComplaintID   int64  `json:"complaint_id"`
	TicketID      string `json:"ticket_id"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	EngineerName  string `json:"engineer_name"`
}

type ServiceCompletedMessage struct {
	ComplaintID   int64      `json:"complaint_id"`
	TicketID      string     `json:"ticket_id"`
	CustomerName  string     `json:"customer_name"`
	CustomerPhone string     `json:"customer_phone"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}
