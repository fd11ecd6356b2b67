package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/shandysiswandi/gonotif/internal/notification/entity"
	"github.com/shandysiswandi/gonotif/internal/pkg/goerror"
)

//nolint:gochecknoglobals // column order of the export file
var exportHeader = []string{
	"id", "event_type", "customer_phone", "customer_name", "status",
	"reference_type", "reference_id", "retry_count", "error_message",
	"created_at", "sent_at",
}

type (
	// ExportLogsInput uses the same filters as ListLogsInput.
	ExportLogsInput struct {
		Status    string
		EventType string
		Search    string
		DateFrom  time.Time
		DateTo    time.Time
	}

	ExportLogsOutput struct {
		URL       string
		ExpiresAt time.Time
		Rows      int
	}
)

// ExportLogs writes the filtered audit log as CSV to object storage and
// returns a temporary download link.
func (s *Usecase) ExportLogs(ctx context.Context, in ExportLogsInput) (*ExportLogsOutput, error) {
	ctx, span := s.startSpan(ctx, "ExportLogs")
	defer span.End()

	clm, err := s.authenticatedAndAuthorized(ctx, permObjLogs, permActExport)
	if err != nil {
		return nil, err
	}

	filter, err := s.logFilter(ListLogsInput{
		Page:      1,
		PageSize:  1,
		Status:    in.Status,
		EventType: in.EventType,
		Search:    in.Search,
		DateFrom:  in.DateFrom,
		DateTo:    in.DateTo,
	})
	if err != nil {
		return nil, err
	}

	total, err := s.repoDB.CountMessageLogs(ctx, filter)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo count message logs", "error", err)
		return nil, goerror.NewServer(err)
	}
	if total > int64(s.settings.ExportMaxRows) {
		return nil, goerror.NewBusiness(
			fmt.Sprintf("export is limited to %d rows, narrow the filters", s.settings.ExportMaxRows),
			goerror.CodeInvalidInput,
		)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, goerror.NewServer(err)
	}

	rows := 0
	filter.Limit = s.settings.ExportPageSize
	for filter.Offset = 0; int64(filter.Offset) < total; filter.Offset += filter.Limit {
		page, err := s.repoDB.ListMessageLogs(ctx, filter)
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo export message logs", "offset", filter.Offset, "error", err)
			return nil, goerror.NewServer(err)
		}
		for i := range page {
			if err := w.Write(exportRecord(&page[i])); err != nil {
				return nil, goerror.NewServer(err)
			}
		}
		rows += len(page)
		if len(page) == 0 {
			break
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()
	filename := fmt.Sprintf("%s/message-logs-%d.csv", now.Format("2006/01/02"), s.uid.Generate())

	url, expiry, err := s.repoExport.UploadExport(ctx, filename, buf.Bytes())
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo upload message log export", "filename", filename, "error", err)
		return nil, goerror.NewServer(err)
	}

	slog.InfoContext(ctx, "message logs exported", "user_id", clm.UserID, "rows", rows, "filename", filename)

	return &ExportLogsOutput{URL: url, ExpiresAt: now.Add(expiry), Rows: rows}, nil
}

func exportRecord(ml *entity.MessageLog) []string {
	sentAt := ""
	if ml.SentAt != nil {
		sentAt = ml.SentAt.Format(time.RFC3339)
	}

	return []string{
		strconv.FormatInt(ml.ID, 10),
		ml.EventType.String(),
		ml.CustomerPhone,
		ml.CustomerName,
		ml.Status.String(),
		ml.ReferenceType.String(),
		strconv.FormatInt(ml.ReferenceID, 10),
		strconv.Itoa(int(ml.RetryCount)),
		ml.ErrorMessage,
		ml.CreatedAt.Format(time.RFC3339),
		sentAt,
	}
}
