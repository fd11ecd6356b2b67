package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/gonotif/internal/notification/entity"
	"github.com/shandysiswandi/gonotif/internal/pkg/goerror"
	"github.com/shandysiswandi/gonotif/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type DB struct {
	conn  *pgxpool.Pool
	query *Queries
	ins   instrument.Instrumentation
}

func NewDB(conn *pgxpool.Pool, ins instrument.Instrumentation) *DB {
	return &DB{
		conn:  conn,
		query: NewQueries(conn),
		ins:   ins,
	}
}

// - 23505 unique violation → goerror.ErrConflict
// - P0001 raise_exception → goerror.ErrConflict (the audit guard trigger)
func (s *DB) mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return goerror.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == "23505" || pgErr.Code == "P0001") {
		return goerror.ErrConflict
	}

	return err
}

func (s *DB) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("notification.outbound.db").Start(ctx, name)
}

func (s *DB) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) && !errors.Is(err, goerror.ErrConflict) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *DB) Ping(ctx context.Context) (err error) {
	ctx, span := s.startSpan(ctx, "Ping")
	defer func() { s.endSpan(span, err) }()

	return s.conn.Ping(ctx)
}

func (r messageLogRow) toEntity() entity.MessageLog {
	ml := entity.MessageLog{
		ID:             r.ID,
		EventType:      entity.EventType(r.EventType),
		CustomerPhone:  r.CustomerPhone,
		CustomerName:   r.CustomerName,
		MessageContent: r.MessageContent,
		Status:         entity.Status(r.Status),
		ReferenceType:  entity.ReferenceType(r.ReferenceType),
		ReferenceID:    r.ReferenceID,
		ErrorMessage:   r.ErrorMessage.String,
		RetryCount:     r.RetryCount,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	if r.SentAt.Valid {
		sentAt := r.SentAt.Time
		ml.SentAt = &sentAt
	}
	return ml
}

func toEntities(rows []messageLogRow) []entity.MessageLog {
	out := make([]entity.MessageLog, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toEntity())
	}
	return out
}
