package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/gonotif/internal/notification/entity"
)

// CreateMessageLogWithFlag sets the idempotency flag for key and inserts ml in
// one transaction. The flag insert is a single INSERT .. ON CONFLICT DO
// NOTHING, so among concurrent callers exactly one gets acquired=true. When
// the flag already exists nothing is written.
func (s *DB) CreateMessageLogWithFlag(ctx context.Context, key entity.FlagKey, ml entity.CreateMessageLog) (acquired bool, err error) {
	ctx, span := s.startSpan(ctx, "CreateMessageLogWithFlag")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rollback", "error", rErr)
		}
	}()

	wtx := s.query.WithTx(tx)

	_, err = wtx.InsertNotificationFlag(ctx, InsertNotificationFlagParams{
		ReferenceType: key.ReferenceType.String(),
		ReferenceID:   key.ReferenceID,
		EventType:     key.EventType.String(),
		MessageLogID:  ml.ID,
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, s.mapError(err)
	}

	if _, err = wtx.CreateMessageLog(ctx, CreateMessageLogParams{
		ID:             ml.ID,
		EventType:      ml.EventType.String(),
		CustomerPhone:  ml.CustomerPhone,
		CustomerName:   ml.CustomerName,
		MessageContent: ml.MessageContent,
		Status:         ml.Status.String(),
		ReferenceType:  ml.ReferenceType.String(),
		ReferenceID:    ml.ReferenceID,
		ErrorMessage:   ml.ErrorMessage,
	}); err != nil {
		return false, s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return false, s.mapError(err)
	}

	return true, nil
}
