package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/samber/lo"
	"github.com/shandysiswandi/gonotif/internal/notification/entity"
	"github.com/shandysiswandi/gonotif/internal/pkg/goerror"
)

// UpdateMessageLogStatus applies u as a compare-and-set on the current status.
// It returns goerror.ErrConflict when the entry is no longer in any of u.From,
// which is how a concurrent worker or operator losing the race finds out.
func (s *DB) UpdateMessageLogStatus(ctx context.Context, u entity.UpdateMessageLogStatus) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateMessageLogStatus")
	defer func() { s.endSpan(span, err) }()

	var sentAt pgtype.Timestamptz
	if u.SentAt != nil {
		sentAt = pgtype.Timestamptz{Time: *u.SentAt, Valid: true}
	}

	rows, err := s.query.UpdateMessageLogStatus(ctx, UpdateMessageLogStatusParams{
		ID:             u.ID,
		FromStatuses:   lo.Map(u.From, func(st entity.Status, _ int) string { return st.String() }),
		Status:         u.To.String(),
		ErrorMessage:   u.ErrorMessage,
		IncrementRetry: u.IncrementRetry,
		SentAt:         sentAt,
	})
	if err != nil {
		return s.mapError(err)
	}

	if rows == 0 {
		return goerror.ErrConflict
	}

	return nil
}
