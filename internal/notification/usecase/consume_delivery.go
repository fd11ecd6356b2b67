package usecase

import (
	"context"

	"github.com/shandysiswandi/gonotif/internal/notification/entity"
	"github.com/shandysiswandi/gonotif/internal/notification/template"
)

type (
	ConsumeDeliveryFailedInput struct {
		StockMovementID int64
		ReferenceNumber string
		CustomerName    string
		CustomerPhone   string
		ItemName        string
	}

	ConsumeDeliveryReattemptInput struct {
		StockMovementID int64
		CustomerName    string
		CustomerPhone   string
	}
)

func (s *Usecase) ConsumeDeliveryFailed(ctx context.Context, in ConsumeDeliveryFailedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeDeliveryFailed")
	defer span.End()

	return s.consume(ctx, TriggerInput{
		EventType:     entity.EventDeliveryFailed.String(),
		ReferenceType: entity.ReferenceStockMovement.String(),
		ReferenceID:   in.StockMovementID,
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		Payload: map[string]string{
			template.VarCustomerName: orDefault(in.CustomerName, defaultCustomerName),
			template.VarReferenceID:  ticketOr(in.ReferenceNumber, "DEL", in.StockMovementID),
			template.VarItemName:     orDefault(in.ItemName, "Item"),
		},
	})
}

func (s *Usecase) ConsumeDeliveryReattempt(ctx context.Context, in ConsumeDeliveryReattemptInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeDeliveryReattempt")
	defer span.End()

	return s.consume(ctx, TriggerInput{
		EventType:     entity.EventDeliveryReattempt.String(),
		ReferenceType: entity.ReferenceStockMovement.String(),
		ReferenceID:   in.StockMovementID,
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		Payload: map[string]string{
			template.VarCustomerName: orDefault(in.CustomerName, defaultCustomerName),
		},
	})
}
