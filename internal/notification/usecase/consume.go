package usecase

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/shandysiswandi/gonotif/internal/pkg/goerror"
)

const (
	defaultCustomerName = "Customer"
	displayDateLayout   = "02/01/2006"
)

// consume dispatches an event coming from the broker. Malformed events are
// dropped; only infrastructure errors are returned so the broker redelivers.
func (s *Usecase) consume(ctx context.Context, in TriggerInput) error {
	out, err := s.dispatch(ctx, in)
	if goerror.IsCode(err, goerror.CodeInvalidInput) {
		slog.ErrorContext(ctx, "invalid notification event dropped",
			"event_type", in.EventType, "reference_type", in.ReferenceType, "reference_id", in.ReferenceID, "error", err)
		return nil
	}
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "notification event consumed",
		"event_type", in.EventType,
		"reference_id", in.ReferenceID,
		"result", string(out.Result),
		"reason", out.Reason,
		"log_id", out.LogID,
	)

	return nil
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}

func ticketOr(ticket, prefix string, id int64) string {
	return orDefault(ticket, prefix+"-"+strconv.FormatInt(id, 10))
}

func (s *Usecase) displayDate(t time.Time) string {
	return t.In(s.clock.Now().Location()).Format(displayDateLayout)
}

func (s *Usecase) frontendLink(parts ...string) string {
	return strings.TrimRight(s.settings.FrontendURL, "/") + "/" + strings.Join(parts, "/")
}
