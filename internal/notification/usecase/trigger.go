package usecase

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"strings"

	"github.com/shandysiswandi/gonotif/internal/notification/entity"
	"github.com/shandysiswandi/gonotif/internal/notification/template"
	"github.com/shandysiswandi/gonotif/internal/pkg/goerror"
	"github.com/shandysiswandi/gonotif/internal/pkg/instrument"
	"github.com/shandysiswandi/gonotif/internal/pkg/phone"
	"go.opentelemetry.io/otel/attribute"
)

// TriggerInput is one business event to notify a customer about. Payload
// holds the template variables; CustomerName fills customer_name when the
// payload lacks it.
type TriggerInput struct {
	EventType     string            `validate:"required,notblank,max=64"`
	ReferenceType string            `validate:"required,oneof=enquiry complaint stock_movement"`
	ReferenceID   int64             `validate:"required,gt=0"`
	CustomerName  string            `validate:"max=255"`
	CustomerPhone string            `validate:"max=64"`
	Payload       map[string]string `validate:"max=32"`
}

// Trigger is the authorized entry point for synchronous callers.
func (s *Usecase) Trigger(ctx context.Context, in TriggerInput) (*entity.DispatchOutcome, error) {
	ctx, span := s.startSpan(ctx, "Trigger")
	defer span.End()

	if _, err := s.authenticatedAndAuthorized(ctx, permObjTriggers, permActTrigger); err != nil {
		return nil, err
	}

	return s.dispatch(ctx, in)
}

// dispatch validates the customer number, consumes the idempotency flag,
// writes the audit entry and queues the first delivery attempt.
func (s *Usecase) dispatch(ctx context.Context, in TriggerInput) (*entity.DispatchOutcome, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	event := entity.EventType(strings.TrimSpace(in.EventType))
	if !event.Valid() {
		return nil, goerror.NewInvalidInput(nil, "event_type", "event_type is not supported")
	}

	key := entity.FlagKey{
		ReferenceType: entity.ReferenceType(in.ReferenceType),
		ReferenceID:   in.ReferenceID,
		EventType:     event,
	}

	p, err := s.phone.Normalize(in.CustomerPhone)
	if err != nil {
		reason := entity.ReasonInvalidPhone
		if errors.Is(err, phone.ErrBlockedNumber) {
			reason = entity.ReasonBlockedNumber
		}
		slog.WarnContext(ctx, "notification rejected", "flag", key.String(), "reason", reason)
		return s.outcome(ctx, event, entity.DispatchOutcome{Result: entity.DispatchRejected, Reason: reason}), nil
	}

	name := strings.TrimSpace(in.CustomerName)
	vars := make(map[string]string, len(in.Payload)+1)
	maps.Copy(vars, in.Payload)
	if strings.TrimSpace(vars[template.VarCustomerName]) == "" && name != "" {
		vars[template.VarCustomerName] = name
	}

	body, renderErr := s.renderer.Render(event, vars)

	ml := entity.CreateMessageLog{
		ID:             s.uid.Generate(),
		EventType:      event,
		CustomerPhone:  p.String(),
		CustomerName:   name,
		MessageContent: body,
		Status:         entity.StatusPending,
		ReferenceType:  key.ReferenceType,
		ReferenceID:    key.ReferenceID,
	}
	if renderErr != nil {
		ml.Status = entity.StatusFailed
		ml.MessageContent = ""
		ml.ErrorMessage = renderErr.Error()
	}

	acquired, err := s.repoDB.CreateMessageLogWithFlag(ctx, key, ml)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create message log with flag", "flag", key.String(), "error", err)
		return nil, goerror.NewServer(err)
	}

	if !acquired {
		slog.InfoContext(ctx, "notification already triggered", "flag", key.String())
		return s.outcome(ctx, event, entity.DispatchOutcome{Result: entity.DispatchSkipped, Reason: entity.ReasonAlreadyTrigger}), nil
	}

	if renderErr != nil {
		slog.WarnContext(ctx, "notification template render failed", "flag", key.String(), "log_id", ml.ID, "error", renderErr)
		return s.outcome(ctx, event, entity.DispatchOutcome{Result: entity.DispatchRejected, LogID: ml.ID, Reason: entity.ReasonRenderFailed}), nil
	}

	s.enqueue(ctx, entity.DeliveryJob{LogID: ml.ID, Attempt: 1, StartedAt: s.clock.Now()})

	return s.outcome(ctx, event, entity.DispatchOutcome{Result: entity.DispatchAccepted, LogID: ml.ID}), nil
}

func (s *Usecase) outcome(ctx context.Context, event entity.EventType, out entity.DispatchOutcome) *entity.DispatchOutcome {
	s.metrics.trigger(ctx, event, out)
	return &out
}

// enqueue hands job to the worker pool. A full or closed pool leaves the
// entry to the stale recovery sweep.
func (s *Usecase) enqueue(ctx context.Context, job entity.DeliveryJob) bool {
	cID := instrument.GetCorrelationID(ctx)

	err := s.pool.Submit(func(pctx context.Context) error {
		return s.deliver(instrument.SetCorrelationID(pctx, cID), job)
	})
	if err != nil {
		slog.WarnContext(ctx, "delivery not queued, left for recovery", "log_id", job.LogID, "attempt", job.Attempt, "error", err)
		return false
	}

	return true
}

func logAttrs(ml *entity.MessageLog) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int64("log_id", ml.ID),
		attribute.String("event_type", ml.EventType.String()),
		attribute.String("status", ml.Status.String()),
		attribute.Int("retry_count", int(ml.RetryCount)),
	}
}
