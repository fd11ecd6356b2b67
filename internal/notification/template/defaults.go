package template

import (
	"strings"

	"github.com/shandysiswandi/gonotif/internal/notification/entity"
)

// Variable names shared by templates and the event consumers that fill them.
const (
	VarCustomerName  = "customer_name"
	VarEnquiryID     = "enquiry_id"
	VarSubject       = "subject"
	VarTicketID      = "ticket_id"
	VarServiceType   = "service_type"
	VarScheduledDate = "scheduled_date"
	VarTrackingLink  = "tracking_link"
	VarEngineerName  = "engineer_name"
	VarCompletedDate = "completed_date"
	VarFeedbackLink  = "feedback_link"
	VarReferenceID   = "reference_id"
	VarItemName      = "item_name"
)

// Defaults returns the built-in templates signed with companyName.
func Defaults(companyName string) []Definition {
	sign := "\n\nRegards,\n" + companyName

	return []Definition{
		{
			Event:    entity.EventEnquiryCreated,
			Required: []string{VarCustomerName, VarEnquiryID, VarSubject},
			Body: `Hello {{.customer_name}},

Thank you for reaching out. Your enquiry has been received.

Enquiry ID: {{.enquiry_id}}
Subject: {{.subject}}

Our team will get in touch with you shortly.` + sign,
		},
		{
			Event:    entity.EventServiceCreated,
			Required: []string{VarCustomerName, VarTicketID, VarServiceType, VarScheduledDate, VarTrackingLink},
			Body: `Hello {{.customer_name}},

Your service request is registered.

Ticket ID: {{.ticket_id}}
Service: {{.service_type}}
Requested date: {{.scheduled_date}}

Track the progress of your request here:
{{.tracking_link}}` + sign,
		},
		{
			Event:    entity.EventEngineerAssigned,
			Required: []string{VarCustomerName, VarTicketID, VarEngineerName},
			Body: `Hello {{.customer_name}},

An engineer is now assigned to your service request.

Ticket ID: {{.ticket_id}}
Engineer: {{.engineer_name}}

The engineer will contact you if anything else is needed.` + sign,
		},
		{
			Event:    entity.EventServiceCompleted,
			Required: []string{VarCustomerName, VarTicketID, VarCompletedDate, VarFeedbackLink},
			Body: `Hello {{.customer_name}},

Your service request is complete.

Ticket ID: {{.ticket_id}}
Completed on: {{.completed_date}}

Please confirm the work and tell us how we did:
{{.feedback_link}}` + sign,
		},
		{
			Event:    entity.EventDeliveryFailed,
			Required: []string{VarCustomerName, VarReferenceID, VarItemName},
			Body: `Hello {{.customer_name}},

We were unable to reach you today for your delivery.

Reference: {{.reference_id}}
Item/Service: {{.item_name}}

We will try again on the next working day. Please make sure someone is available or contact us.` + sign,
		},
		{
			Event:    entity.EventDeliveryReattempt,
			Required: []string{VarCustomerName},
			Body: `Hello {{.customer_name}},

Thanks for letting us know. Your delivery/service will be attempted again on the next working day.` + sign,
		},
	}
}

// WithOverrides replaces the body of any definition whose event has a
// non-blank entry in bodies. Required variables stay as declared.
func WithOverrides(defs []Definition, bodies map[string]string) []Definition {
	out := make([]Definition, len(defs))
	for i, def := range defs {
		if body := strings.TrimSpace(bodies[def.Event.String()]); body != "" {
			def.Body = body
		}
		out[i] = def
	}
	return out
}
