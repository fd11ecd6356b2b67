package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/shandysiswandi/gonotif/internal/notification/usecase"
	"github.com/shandysiswandi/gonotif/internal/pkg/instrument"
	"github.com/shandysiswandi/gonotif/internal/pkg/messaging"
	"github.com/shandysiswandi/gonotif/internal/pkg/uid"
	"github.com/shandysiswandi/gonotif/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   ucConsumer
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, headers []messaging.Header) context.Context {
	if cID := messaging.HeaderValue(headers, keyOfCorrelationID); cID != "" {
		return instrument.SetCorrelationID(ctx, cID)
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

// handle decodes msg into T and passes it to fn. Bodies that are not valid
// JSON are acked and dropped since redelivery cannot fix them.
func handle[T any](ctx context.Context, h *MQHandler, name string, msg messaging.Message, fn func(context.Context, T) error) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, name)
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: "+name, "msg_id", msg.ID(), "topic", msg.Topic())

	var payload T
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of "+name, "msg_body", string(body), "error", err)
		return nil
	}

	if err := fn(ctx, payload); err != nil {
		slog.ErrorContext(ctx, "failed to consume "+name, "msg_id", msg.ID(), "error", err)
		return err
	}

	return nil
}

func (h *MQHandler) EnquiryCreatedNotification(ctx context.Context, msg messaging.Message) error {
	return handle(ctx, h, "EnquiryCreatedNotification", msg, func(ctx context.Context, p event.EnquiryCreatedMessage) error {
		return h.uc.ConsumeEnquiryCreated(ctx, usecase.ConsumeEnquiryCreatedInput{
			EnquiryID:     p.EnquiryID,
			TicketID:      p.TicketID,
			CustomerName:  p.CustomerName,
			CustomerPhone: p.CustomerPhone,
			Subject:       p.Subject,
		})
	})
}

func (h *MQHandler) ServiceCreatedNotification(ctx context.Context, msg messaging.Message) error {
	return handle(ctx, h, "ServiceCreatedNotification", msg, func(ctx context.Context, p event.ServiceCreatedMessage) error {
		return h.uc.ConsumeServiceCreated(ctx, usecase.ConsumeServiceCreatedInput{
			ComplaintID:   p.ComplaintID,
			TicketID:      p.TicketID,
			CustomerName:  p.CustomerName,
			CustomerPhone: p.CustomerPhone,
			ServiceType:   p.ServiceType,
			ScheduledDate: p.ScheduledDate,
		})
	})
}

func (h *MQHandler) ServiceEngineerAssignedNotification(ctx context.Context, msg messaging.Message) error {
	return handle(ctx, h, "ServiceEngineerAssignedNotification", msg, func(ctx context.Context, p event.ServiceEngineerAssignedMessage) error {
		return h.uc.ConsumeEngineerAssigned(ctx, usecase.ConsumeEngineerAssignedInput{
			ComplaintID:   p.ComplaintID,
			TicketID:      p.TicketID,
			CustomerName:  p.CustomerName,
			CustomerPhone: p.CustomerPhone,
			EngineerName:  p.EngineerName,
		})
	})
}

func (h *MQHandler) ServiceCompletedNotification(ctx context.Context, msg messaging.Message) error {
	return handle(ctx, h, "ServiceCompletedNotification", msg, func(ctx context.Context, p event.ServiceCompletedMessage) error {
		return h.uc.ConsumeServiceCompleted(ctx, usecase.ConsumeServiceCompletedInput{
			ComplaintID:   p.ComplaintID,
			TicketID:      p.TicketID,
			CustomerName:  p.CustomerName,
			CustomerPhone: p.CustomerPhone,
			CompletedAt:   p.CompletedAt,
		})
	})
}

func (h *MQHandler) DeliveryFailedNotification(ctx context.Context, msg messaging.Message) error {
	return handle(ctx, h, "DeliveryFailedNotification", msg, func(ctx context.Context, p event.DeliveryFailedMessage) error {
		return h.uc.ConsumeDeliveryFailed(ctx, usecase.ConsumeDeliveryFailedInput{
			StockMovementID: p.StockMovementID,
			ReferenceNumber: p.ReferenceNumber,
			CustomerName:    p.CustomerName,
			CustomerPhone:   p.CustomerPhone,
			ItemName:        p.ItemName,
		})
	})
}

func (h *MQHandler) DeliveryReattemptNotification(ctx context.Context, msg messaging.Message) error {
	return handle(ctx, h, "DeliveryReattemptNotification", msg, func(ctx context.Context, p event.DeliveryReattemptMessage) error {
		return h.uc.ConsumeDeliveryReattempt(ctx, usecase.ConsumeDeliveryReattemptInput{
			StockMovementID: p.StockMovementID,
			CustomerName:    p.CustomerName,
			CustomerPhone:   p.CustomerPhone,
		})
	})
}
