package db

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/samber/lo"
	"github.com/shandysiswandi/gonotif/internal/notification/entity"
)

func (s *DB) GetMessageLog(ctx context.Context, id int64) (_ *entity.MessageLog, err error) {
	ctx, span := s.startSpan(ctx, "GetMessageLog")
	defer func() { s.endSpan(span, err) }()

	row, err := s.query.GetMessageLog(ctx, id)
	if err != nil {
		return nil, s.mapError(err)
	}

	ml := row.toEntity()
	return &ml, nil
}

func (s *DB) ListMessageLogs(ctx context.Context, f entity.MessageLogFilter) (_ []entity.MessageLog, err error) {
	ctx, span := s.startSpan(ctx, "ListMessageLogs")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.query.ListMessageLogs(ctx, filterParams(f), f.Limit, f.Offset)
	if err != nil {
		return nil, s.mapError(err)
	}

	return toEntities(rows), nil
}

func (s *DB) CountMessageLogs(ctx context.Context, f entity.MessageLogFilter) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "CountMessageLogs")
	defer func() { s.endSpan(span, err) }()

	total, err := s.query.CountMessageLogs(ctx, filterParams(f))
	if err != nil {
		return 0, s.mapError(err)
	}

	return total, nil
}

func (s *DB) SummarizeMessageLogs(ctx context.Context, todayStart, weekStart time.Time) (_ *entity.MessageLogSummary, err error) {
	ctx, span := s.startSpan(ctx, "SummarizeMessageLogs")
	defer func() { s.endSpan(span, err) }()

	r, err := s.query.SummarizeMessageLogs(ctx, todayStart, weekStart)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &entity.MessageLogSummary{
		Total:     r.Total,
		Sent:      r.Sent,
		Failed:    r.Failed,
		Pending:   r.Pending,
		Retrying:  r.Retrying,
		Today:     r.Today,
		Last7Days: r.Last7Days,
	}, nil
}

func (s *DB) ListStaleMessageLogs(ctx context.Context, before time.Time, limit int32) (_ []entity.MessageLog, err error) {
	ctx, span := s.startSpan(ctx, "ListStaleMessageLogs")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.query.ListStaleMessageLogs(ctx, before, limit)
	if err != nil {
		return nil, s.mapError(err)
	}

	return toEntities(rows), nil
}

func (s *DB) ListMessageLogsByReference(ctx context.Context, refType entity.ReferenceType, refID int64) (_ []entity.MessageLog, err error) {
	ctx, span := s.startSpan(ctx, "ListMessageLogsByReference")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.query.ListMessageLogsByReference(ctx, refType.String(), refID)
	if err != nil {
		return nil, s.mapError(err)
	}

	return toEntities(rows), nil
}

func (s *DB) ListFlaggedEvents(ctx context.Context, refType entity.ReferenceType, refID int64) (_ []entity.EventType, err error) {
	ctx, span := s.startSpan(ctx, "ListFlaggedEvents")
	defer func() { s.endSpan(span, err) }()

	events, err := s.query.ListNotificationFlagsByReference(ctx, refType.String(), refID)
	if err != nil {
		return nil, s.mapError(err)
	}

	return lo.Map(events, func(e string, _ int) entity.EventType { return entity.EventType(e) }), nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func filterParams(f entity.MessageLogFilter) MessageLogFilterParams {
	p := MessageLogFilterParams{
		EventType: f.EventType.String(),
		Status:    f.Status.String(),
		Search:    likeEscaper.Replace(strings.TrimSpace(f.Search)),
	}
	if f.DateFrom != nil {
		p.DateFrom = pgtype.Timestamptz{Time: *f.DateFrom, Valid: true}
	}
	if f.DateTo != nil {
		p.DateTo = pgtype.Timestamptz{Time: *f.DateTo, Valid: true}
	}
	return p
}
