package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shandysiswandi/gonotif/internal/notification/entity"
	"github.com/shandysiswandi/gonotif/internal/pkg/goerror"
)

const (
	defaultPageSize int32 = 20
	maxPageSize     int32 = 100
)

type (
	// ListLogsInput filters the audit log. DateFrom and DateTo are calendar
	// dates and both ends are included; zero values leave the bound open.
	ListLogsInput struct {
		Page      int32  `validate:"gte=1"`
		PageSize  int32  `validate:"gte=1,lte=100"`
		Status    string `validate:"omitempty,oneof=PENDING SENT FAILED RETRYING"`
		EventType string `validate:"omitempty,max=64"`
		Search    string `validate:"max=100"`
		DateFrom  time.Time
		DateTo    time.Time
	}

	ListLogsOutput struct {
		Items    []entity.MessageLog
		Total    int64
		Page     int32
		PageSize int32
	}
)

func (s *Usecase) ListLogs(ctx context.Context, in ListLogsInput) (*ListLogsOutput, error) {
	ctx, span := s.startSpan(ctx, "ListLogs")
	defer span.End()

	if _, err := s.authenticatedAndAuthorized(ctx, permObjLogs, permActView); err != nil {
		return nil, err
	}

	if in.Page == 0 {
		in.Page = 1
	}
	if in.PageSize == 0 {
		in.PageSize = defaultPageSize
	}

	filter, err := s.logFilter(in)
	if err != nil {
		return nil, err
	}
	filter.Limit = in.PageSize
	filter.Offset = (in.Page - 1) * in.PageSize

	total, err := s.repoDB.CountMessageLogs(ctx, filter)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo count message logs", "error", err)
		return nil, goerror.NewServer(err)
	}

	items := []entity.MessageLog{}
	if total > int64(filter.Offset) {
		items, err = s.repoDB.ListMessageLogs(ctx, filter)
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo list message logs", "error", err)
			return nil, goerror.NewServer(err)
		}
	}

	return &ListLogsOutput{Items: items, Total: total, Page: in.Page, PageSize: in.PageSize}, nil
}

// logFilter validates in and converts it to a repository filter without
// paging.
func (s *Usecase) logFilter(in ListLogsInput) (entity.MessageLogFilter, error) {
	in.Status = strings.ToUpper(strings.TrimSpace(in.Status))
	in.EventType = strings.TrimSpace(in.EventType)
	in.Search = strings.TrimSpace(in.Search)

	if err := s.validator.Validate(in); err != nil {
		return entity.MessageLogFilter{}, goerror.NewInvalidInput(err)
	}

	filter := entity.MessageLogFilter{
		Status: entity.Status(in.Status),
		Search: in.Search,
	}

	if in.EventType != "" {
		filter.EventType = entity.EventType(in.EventType)
		if !filter.EventType.Valid() {
			return entity.MessageLogFilter{}, goerror.NewInvalidInput(nil, "event_type", "event_type is not supported")
		}
	}

	loc := s.clock.Now().Location()
	if !in.DateFrom.IsZero() {
		from := startOfDay(in.DateFrom, loc)
		filter.DateFrom = &from
	}
	if !in.DateTo.IsZero() {
		to := startOfDay(in.DateTo, loc).AddDate(0, 0, 1)
		filter.DateTo = &to
	}
	if filter.DateFrom != nil && filter.DateTo != nil && !filter.DateFrom.Before(*filter.DateTo) {
		return entity.MessageLogFilter{}, goerror.NewInvalidInput(nil, "date_to", "date_to must not be before date_from")
	}

	return filter, nil
}

// startOfDay keeps the calendar date of t and places it at midnight in loc.
func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
