package mq

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/shandysiswandi/gonotif/internal/notification/entity"
	"github.com/shandysiswandi/gonotif/internal/pkg/instrument"
	"github.com/shandysiswandi/gonotif/internal/pkg/messaging"
	"github.com/shandysiswandi/gonotif/internal/shared/event"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Messaging
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Messaging, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

// PublishOutcome announces a terminal SENT or FAILED entry. Entries in any
// other status are ignored.
func (m *Messaging) PublishOutcome(ctx context.Context, ml entity.MessageLog) error {
	var destination string
	switch ml.Status {
	case entity.StatusSent:
		destination = event.NotificationDeliveredDestination
	case entity.StatusFailed:
		destination = event.NotificationFailedDestination
	default:
		return nil
	}

	ctx, span := m.ins.Tracer("notification.outbound.mq").Start(ctx, "PublishOutcome")
	defer span.End()
	span.SetAttributes(attribute.Int64("log_id", ml.ID), attribute.String("status", ml.Status.String()))

	body, err := json.Marshal(event.NotificationOutcomeMessage{
		LogID:         ml.ID,
		EventType:     ml.EventType.String(),
		ReferenceType: ml.ReferenceType.String(),
		ReferenceID:   ml.ReferenceID,
		Status:        ml.Status.String(),
		RetryCount:    ml.RetryCount,
		ErrorMessage:  ml.ErrorMessage,
		SentAt:        ml.SentAt,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if _, err := m.client.Publish(ctx, destination, messaging.OutgoingMessage{
		Body:    body,
		Key:     []byte(strconv.FormatInt(ml.ID, 10)),
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
