package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shandysiswandi/gonotif/internal/notification/entity"
	"github.com/shandysiswandi/gonotif/internal/pkg/goerror"
	"github.com/shandysiswandi/gonotif/internal/pkg/idempotency"
	"github.com/shandysiswandi/gonotif/internal/pkg/instrument"
)

// lockMargin keeps the per-attempt lock alive past the send timeout so the
// status update after a slow send still happens under the lock.
const lockMargin = 30 * time.Second

// deliver runs one attempt of job. Entries that are no longer PENDING or
// RETRYING are skipped, as are jobs queued for an earlier retry count and
// attempts another instance already owns.
func (s *Usecase) deliver(ctx context.Context, job entity.DeliveryJob) error {
	ctx, span := s.startSpan(ctx, "Deliver")
	defer span.End()

	ml, err := s.repoDB.GetMessageLog(ctx, job.LogID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "message log not found for delivery", "log_id", job.LogID)
		return nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get message log", "log_id", job.LogID, "error", err)
		return err
	}
	span.SetAttributes(logAttrs(ml)...)

	if !ml.Status.InFlight() {
		slog.InfoContext(ctx, "delivery skipped, entry settled", "log_id", ml.ID, "status", ml.Status.String())
		return nil
	}

	if ml.RetryCount != job.RetryCount {
		slog.InfoContext(ctx, "delivery skipped, job outdated", "log_id", ml.ID, "retry_count", ml.RetryCount, "job_retry_count", job.RetryCount)
		return nil
	}

	key := fmt.Sprintf("delivery:%d:%d", job.LogID, job.RetryCount)
	err = s.guard.Exec(ctx, key, func(ctx context.Context) error {
		return s.attempt(ctx, ml, job)
	},
		idempotency.WithLockDuration(s.settings.SendTimeout+lockMargin),
		idempotency.WithStateTTL(s.settings.StaleAfter),
	)
	if idempotency.IsDuplicate(err) {
		slog.InfoContext(ctx, "delivery attempt already handled", "log_id", ml.ID, "retry_count", ml.RetryCount, "error", err)
		return nil
	}

	return err
}

func (s *Usecase) attempt(ctx context.Context, ml *entity.MessageLog, job entity.DeliveryJob) error {
	s.metrics.inflight.Add(ctx, 1)
	defer s.metrics.inflight.Add(ctx, -1)

	sendCtx, cancel := context.WithTimeout(ctx, s.settings.SendTimeout)
	res := s.sender.Send(sendCtx, ml.CustomerPhone, ml.MessageContent)
	cancel()
	s.metrics.send(ctx, ml.EventType, res)

	from := []entity.Status{ml.Status}

	switch res.Status {
	case entity.SendSuccess:
		now := s.clock.Now()
		return s.settle(ctx, ml, entity.UpdateMessageLogStatus{ID: ml.ID, From: from, To: entity.StatusSent, SentAt: &now})
	case entity.SendPermanent:
		slog.WarnContext(ctx, "delivery failed permanently", "log_id", ml.ID, "detail", res.Detail)
		return s.settle(ctx, ml, entity.UpdateMessageLogStatus{ID: ml.ID, From: from, To: entity.StatusFailed, ErrorMessage: res.Detail})
	}

	delay, ok := s.policy.next(job.Attempt, s.clock.Now().Sub(job.StartedAt))
	if !ok {
		slog.WarnContext(ctx, "delivery retries exhausted", "log_id", ml.ID, "attempt", job.Attempt, "detail", res.Detail)
		return s.settle(ctx, ml, entity.UpdateMessageLogStatus{
			ID: ml.ID, From: from, To: entity.StatusFailed, ErrorMessage: res.Detail, IncrementRetry: true,
		})
	}

	applied, err := s.updateStatus(ctx, entity.UpdateMessageLogStatus{
		ID: ml.ID, From: from, To: entity.StatusRetrying, ErrorMessage: res.Detail, IncrementRetry: true,
	})
	if err != nil || !applied {
		return err
	}

	slog.InfoContext(ctx, "delivery retry scheduled", "log_id", ml.ID, "attempt", job.Attempt, "delay", delay.String(), "detail", res.Detail)

	next := entity.DeliveryJob{LogID: ml.ID, Attempt: job.Attempt + 1, RetryCount: ml.RetryCount + 1, StartedAt: job.StartedAt}
	cID := instrument.GetCorrelationID(ctx)
	s.afterFunc(delay, func() {
		s.enqueue(instrument.SetCorrelationID(context.Background(), cID), next)
	})

	return nil
}

// settle moves the entry to SENT or FAILED and announces the outcome.
func (s *Usecase) settle(ctx context.Context, ml *entity.MessageLog, u entity.UpdateMessageLogStatus) error {
	applied, err := s.updateStatus(ctx, u)
	if err != nil || !applied {
		return err
	}

	out := *ml
	out.Status = u.To
	out.SentAt = u.SentAt
	if u.ErrorMessage != "" {
		out.ErrorMessage = u.ErrorMessage
	}
	if u.IncrementRetry {
		out.RetryCount++
	}

	if err := s.repoMQ.PublishOutcome(ctx, out); err != nil {
		slog.ErrorContext(ctx, "failed to repo publish notification outcome", "log_id", ml.ID, "status", u.To.String(), "error", err)
	}

	return nil
}

// updateStatus reports applied=false when the compare-and-set lost, which
// means another worker or an operator already moved the entry.
func (s *Usecase) updateStatus(ctx context.Context, u entity.UpdateMessageLogStatus) (bool, error) {
	err := s.repoDB.UpdateMessageLogStatus(ctx, u)
	if errors.Is(err, goerror.ErrConflict) {
		slog.WarnContext(ctx, "message log status changed concurrently", "log_id", u.ID, "to", u.To.String())
		return false, nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo update message log status", "log_id", u.ID, "to", u.To.String(), "error", err)
		return false, err
	}

	return true, nil
}
