package usecase

import (
	"context"

	"github.com/shandysiswandi/gonotif/internal/notification/entity"
	"github.com/shandysiswandi/gonotif/internal/notification/template"
)

type ConsumeEnquiryCreatedInput struct {
	EnquiryID     int64
	TicketID      string
	CustomerName  string
	CustomerPhone string
	Subject       string
}

func (s *Usecase) ConsumeEnquiryCreated(ctx context.Context, in ConsumeEnquiryCreatedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeEnquiryCreated")
	defer span.End()

	return s.consume(ctx, TriggerInput{
		EventType:     entity.EventEnquiryCreated.String(),
		ReferenceType: entity.ReferenceEnquiry.String(),
		ReferenceID:   in.EnquiryID,
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		Payload: map[string]string{
			template.VarCustomerName: orDefault(in.CustomerName, defaultCustomerName),
			template.VarEnquiryID:    ticketOr(in.TicketID, "ENQ", in.EnquiryID),
			template.VarSubject:      orDefault(in.Subject, "Product Enquiry"),
		},
	})
}
