package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/gonotif/internal/notification/entity"
	"github.com/shandysiswandi/gonotif/internal/pkg/goerror"
)

type RetryLogInput struct {
	ID int64 `validate:"required,gt=0"`
}

// RetryLog lets an operator resend a FAILED entry. The idempotency flag is
// not consulted; the entry goes back to RETRYING with one more retry counted.
func (s *Usecase) RetryLog(ctx context.Context, in RetryLogInput) (*entity.MessageLog, error) {
	ctx, span := s.startSpan(ctx, "RetryLog")
	defer span.End()

	clm, err := s.authenticatedAndAuthorized(ctx, permObjLogs, permActRetry)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	ml, err := s.repoDB.GetMessageLog(ctx, in.ID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("message log not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get message log", "log_id", in.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	switch ml.Status {
	case entity.StatusSent:
		return nil, goerror.NewBusiness("message already sent", goerror.CodeInvalidFormat)
	case entity.StatusPending, entity.StatusRetrying:
		return nil, goerror.NewBusiness("message delivery already in progress", goerror.CodeConflict)
	}

	if ml.MessageContent == "" {
		return nil, goerror.NewBusiness("message has no rendered content to resend", goerror.CodeInvalidInput)
	}

	err = s.repoDB.UpdateMessageLogStatus(ctx, entity.UpdateMessageLogStatus{
		ID:             ml.ID,
		From:           []entity.Status{entity.StatusFailed},
		To:             entity.StatusRetrying,
		IncrementRetry: true,
	})
	if errors.Is(err, goerror.ErrConflict) {
		return nil, goerror.NewBusiness("message log status changed, reload and try again", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo update message log status", "log_id", ml.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	slog.InfoContext(ctx, "operator retry requested", "log_id", ml.ID, "user_id", clm.UserID)

	ml.Status = entity.StatusRetrying
	ml.RetryCount++
	ml.UpdatedAt = s.clock.Now()

	s.enqueue(ctx, entity.DeliveryJob{LogID: ml.ID, Attempt: 1, RetryCount: ml.RetryCount, StartedAt: ml.UpdatedAt})

	return ml, nil
}
