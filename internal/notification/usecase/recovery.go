package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/gonotif/internal/notification/entity"
)

// RunRecovery sweeps for stale in-flight entries until ctx ends.
func (s *Usecase) RunRecovery(ctx context.Context) error {
	ticker := time.NewTicker(s.settings.RecoveryEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := s.RecoverStale(ctx); err != nil && ctx.Err() == nil {
				slog.ErrorContext(ctx, "stale delivery sweep failed", "error", err)
			}
		}
	}
}

// RecoverStale re-queues PENDING and RETRYING entries that have not moved for
// longer than the stale window. These are deliveries lost to a crash or a
// full queue. It returns how many were queued.
func (s *Usecase) RecoverStale(ctx context.Context) (int, error) {
	ctx, span := s.startSpan(ctx, "RecoverStale")
	defer span.End()

	now := s.clock.Now()
	logs, err := s.repoDB.ListStaleMessageLogs(ctx, now.Add(-s.settings.StaleAfter), s.settings.RecoveryBatch)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list stale message logs", "error", err)
		return 0, err
	}

	queued := 0
	for _, ml := range logs {
		job := entity.DeliveryJob{
			LogID:      ml.ID,
			Attempt:    min(int(ml.RetryCount)+1, s.settings.MaxAttempts),
			RetryCount: ml.RetryCount,
			StartedAt:  now,
		}
		if !s.enqueue(ctx, job) {
			break
		}
		queued++
	}

	if queued > 0 {
		slog.InfoContext(ctx, "stale deliveries re-queued", "count", queued, "found", len(logs))
	}

	return queued, nil
}
