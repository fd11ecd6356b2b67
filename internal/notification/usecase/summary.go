package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/gonotif/internal/notification/entity"
	"github.com/shandysiswandi/gonotif/internal/pkg/goerror"
)

// Summary counts entries per status plus those created today and in the
// last seven days.
func (s *Usecase) Summary(ctx context.Context) (*entity.MessageLogSummary, error) {
	ctx, span := s.startSpan(ctx, "Summary")
	defer span.End()

	if _, err := s.authenticatedAndAuthorized(ctx, permObjLogs, permActView); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	sum, err := s.repoDB.SummarizeMessageLogs(ctx, startOfDay(now, now.Location()), now.AddDate(0, 0, -7))
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo summarize message logs", "error", err)
		return nil, goerror.NewServer(err)
	}

	return sum, nil
}
