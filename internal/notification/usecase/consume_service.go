package usecase

import (
	"context"
	"strconv"
	"time"

	"github.com/shandysiswandi/gonotif/internal/notification/entity"
	"github.com/shandysiswandi/gonotif/internal/notification/template"
)

type (
	ConsumeServiceCreatedInput struct {
		ComplaintID   int64
		TicketID      string
		CustomerName  string
		CustomerPhone string
		ServiceType   string
		ScheduledDate *time.Time
	}

	ConsumeEngineerAssignedInput struct {
		ComplaintID   int64
		TicketID      string
		CustomerName  string
		CustomerPhone string
		EngineerName  string
	}

	ConsumeServiceCompletedInput struct {
		ComplaintID   int64
		TicketID      string
		CustomerName  string
		CustomerPhone string
		CompletedAt   *time.Time
	}
)

func (s *Usecase) ConsumeServiceCreated(ctx context.Context, in ConsumeServiceCreatedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeServiceCreated")
	defer span.End()

	ticket := ticketOr(in.TicketID, "SRV", in.ComplaintID)
	scheduled := "To be scheduled"
	if in.ScheduledDate != nil {
		scheduled = s.displayDate(*in.ScheduledDate)
	}

	return s.consume(ctx, TriggerInput{
		EventType:     entity.EventServiceCreated.String(),
		ReferenceType: entity.ReferenceComplaint.String(),
		ReferenceID:   in.ComplaintID,
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		Payload: map[string]string{
			template.VarCustomerName:  orDefault(in.CustomerName, defaultCustomerName),
			template.VarTicketID:      ticket,
			template.VarServiceType:   orDefault(in.ServiceType, "Service Request"),
			template.VarScheduledDate: scheduled,
			template.VarTrackingLink:  s.frontendLink("track", ticket),
		},
	})
}

// ConsumeEngineerAssigned leaves engineer_name blank when absent so the
// render fails and the event is recorded as FAILED instead of sent half-filled.
func (s *Usecase) ConsumeEngineerAssigned(ctx context.Context, in ConsumeEngineerAssignedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeEngineerAssigned")
	defer span.End()

	return s.consume(ctx, TriggerInput{
		EventType:     entity.EventEngineerAssigned.String(),
		ReferenceType: entity.ReferenceComplaint.String(),
		ReferenceID:   in.ComplaintID,
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		Payload: map[string]string{
			template.VarCustomerName: orDefault(in.CustomerName, defaultCustomerName),
			template.VarTicketID:     ticketOr(in.TicketID, "SRV", in.ComplaintID),
			template.VarEngineerName: in.EngineerName,
		},
	})
}

func (s *Usecase) ConsumeServiceCompleted(ctx context.Context, in ConsumeServiceCompletedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeServiceCompleted")
	defer span.End()

	completed := s.clock.Now()
	if in.CompletedAt != nil {
		completed = *in.CompletedAt
	}

	return s.consume(ctx, TriggerInput{
		EventType:     entity.EventServiceCompleted.String(),
		ReferenceType: entity.ReferenceComplaint.String(),
		ReferenceID:   in.ComplaintID,
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		Payload: map[string]string{
			template.VarCustomerName:  orDefault(in.CustomerName, defaultCustomerName),
			template.VarTicketID:      ticketOr(in.TicketID, "SRV", in.ComplaintID),
			template.VarCompletedDate: s.displayDate(completed),
			template.VarFeedbackLink:  s.frontendLink("feedback", strconv.FormatInt(in.ComplaintID, 10)),
		},
	})
}
