package inbound

import (
	"time"

	"github.com/samber/lo"
	"github.com/shandysiswandi/gonotif/internal/notification/entity"
	"github.com/shandysiswandi/gonotif/internal/notification/usecase"
	"github.com/shandysiswandi/gonotif/internal/pkg/goerror"
	"github.com/shandysiswandi/gonotif/internal/pkg/router"
)

const dateLayout = "2006-01-02"

type HTTPEndpoint struct {
	uc uc
}

// Trigger dispatches a customer notification for a business event.
// @Summary Trigger notification
// @Description Validates the customer number, records the message and queues it for WhatsApp delivery. Each (reference, event) pair is sent at most once.
// @Tags Notification
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body TriggerRequest true "Event payload"
// @Success 202 {object} router.successResponse{data=TriggerResponse} "Queued"
// @Success 200 {object} router.successResponse{data=TriggerResponse} "Already handled"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 422 {object} router.successResponse{data=TriggerResponse} "Rejected or validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notification/triggers [post]
func (h *HTTPEndpoint) Trigger(r *router.Request) (any, error) {
	var req TriggerRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.Trigger(r.Context(), usecase.TriggerInput{
		EventType:     req.EventType,
		ReferenceType: req.ReferenceType,
		ReferenceID:   req.ReferenceID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Payload:       req.Payload.Strings(),
	})
	if err != nil {
		return nil, err
	}

	return TriggerResponse{Result: string(out.Result), LogID: out.LogID, Reason: out.Reason}, nil
}

// ListLogs returns the message audit log.
// @Summary List message logs
// @Description Returns message logs newest first, filtered and paginated.
// @Tags Notification
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number, default 1"
// @Param page_size query int false "Page size, default 20, max 100"
// @Param status query string false "PENDING, SENT, FAILED or RETRYING"
// @Param event_type query string false "Event type"
// @Param search query string false "Phone or customer name"
// @Param date_from query string false "First day, YYYY-MM-DD"
// @Param date_to query string false "Last day, YYYY-MM-DD"
// @Success 200 {object} router.successResponse{data=MessageLogsResponse} "Message logs"
// @Failure 400 {object} router.errorResponse "Invalid query parameters"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notification/logs [get]
func (h *HTTPEndpoint) ListLogs(r *router.Request) (any, error) {
	page, err := r.GetQueryInt32("page")
	if err != nil {
		return nil, err
	}
	pageSize, err := r.GetQueryInt32("page_size")
	if err != nil {
		return nil, err
	}
	dateFrom, err := r.GetQueryDate("date_from", dateLayout)
	if err != nil {
		return nil, err
	}
	dateTo, err := r.GetQueryDate("date_to", dateLayout)
	if err != nil {
		return nil, err
	}

	out, err := h.uc.ListLogs(r.Context(), usecase.ListLogsInput{
		Page:      page,
		PageSize:  pageSize,
		Status:    r.GetQuery("status"),
		EventType: r.GetQuery("event_type"),
		Search:    r.GetQuery("search"),
		DateFrom:  dateFrom,
		DateTo:    dateTo,
	})
	if err != nil {
		return nil, err
	}

	return MessageLogsResponse{
		Logs:     toMessageLogResponses(out.Items),
		total:    out.Total,
		page:     out.Page,
		pageSize: out.PageSize,
	}, nil
}

// GetLog returns one message log.
// @Summary Get message log
// @Tags Notification
// @Security BearerAuth
// @Produce json
// @Param id path int true "Message log ID"
// @Success 200 {object} router.successResponse{data=MessageLogResponse} "Message log"
// @Failure 400 {object} router.errorResponse "Invalid id"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 404 {object} router.errorResponse "Message log not found"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notification/logs/{id} [get]
func (h *HTTPEndpoint) GetLog(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	ml, err := h.uc.GetLog(r.Context(), usecase.GetLogInput{ID: id})
	if err != nil {
		return nil, err
	}

	return toMessageLogResponse(*ml), nil
}

// RetryLog resends a failed message.
// @Summary Retry message
// @Description Moves a FAILED message back to RETRYING and queues a new delivery run. Admin only.
// @Tags Notification
// @Security BearerAuth
// @Produce json
// @Param id path int true "Message log ID"
// @Success 202 {object} router.successResponse{data=MessageLogResponse} "Retry queued"
// @Failure 400 {object} router.errorResponse "Invalid id or message already sent"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 404 {object} router.errorResponse "Message log not found"
// @Failure 409 {object} router.errorResponse "Delivery already in progress"
// @Failure 422 {object} router.errorResponse "Message has no content"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notification/logs/{id}/retry [post]
func (h *HTTPEndpoint) RetryLog(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	ml, err := h.uc.RetryLog(r.Context(), usecase.RetryLogInput{ID: id})
	if err != nil {
		return nil, err
	}

	return RetryLogResponse{MessageLogResponse: toMessageLogResponse(*ml)}, nil
}

// Summary returns dashboard counters.
// @Summary Message log summary
// @Tags Notification
// @Security BearerAuth
// @Produce json
// @Success 200 {object} router.successResponse{data=SummaryResponse} "Counters"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notification/summary [get]
func (h *HTTPEndpoint) Summary(r *router.Request) (any, error) {
	sum, err := h.uc.Summary(r.Context())
	if err != nil {
		return nil, err
	}

	return SummaryResponse{
		Total:     sum.Total,
		Sent:      sum.Sent,
		Failed:    sum.Failed,
		Pending:   sum.Pending,
		Retrying:  sum.Retrying,
		Today:     sum.Today,
		Last7Days: sum.Last7Days,
	}, nil
}

// EventTypes lists the supported events for filter dropdowns.
// @Summary List event types
// @Tags Notification
// @Security BearerAuth
// @Produce json
// @Success 200 {object} router.successResponse{data=EventTypesResponse} "Event types"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Router /api/v1/notification/event-types [get]
func (h *HTTPEndpoint) EventTypes(r *router.Request) (any, error) {
	opts, err := h.uc.EventTypes(r.Context())
	if err != nil {
		return nil, err
	}

	return EventTypesResponse{
		EventTypes: lo.Map(opts, func(o usecase.EventTypeOption, _ int) EventTypeResponse {
			return EventTypeResponse{Value: o.Value, Label: o.Label}
		}),
	}, nil
}

// LogsByReference shows what a business record was notified about.
// @Summary Logs for a business record
// @Tags Notification
// @Security BearerAuth
// @Produce json
// @Param type path string true "enquiry, complaint or stock_movement"
// @Param id path int true "Record ID"
// @Success 200 {object} router.successResponse{data=ReferenceLogsResponse} "Logs and flagged events"
// @Failure 400 {object} router.errorResponse "Invalid id"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notification/references/{type}/{id}/logs [get]
func (h *HTTPEndpoint) LogsByReference(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	out, err := h.uc.LogsByReference(r.Context(), usecase.LogsByReferenceInput{
		ReferenceType: r.GetParam("type"),
		ReferenceID:   id,
	})
	if err != nil {
		return nil, err
	}

	return ReferenceLogsResponse{
		Logs:          toMessageLogResponses(out.Items),
		FlaggedEvents: lo.Map(out.FlaggedEvents, func(e entity.EventType, _ int) string { return e.String() }),
	}, nil
}

// ExportLogs writes the filtered log to CSV and returns a download link.
// @Summary Export message logs
// @Description Uploads the filtered message logs as CSV to object storage and returns a presigned URL. Admin only.
// @Tags Notification
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body ExportLogsRequest true "Filters"
// @Success 200 {object} router.successResponse{data=ExportLogsResponse} "Download link"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 422 {object} router.errorResponse "Validation error or too many rows"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notification/exports [post]
func (h *HTTPEndpoint) ExportLogs(r *router.Request) (any, error) {
	var req ExportLogsRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	dateFrom, err := parseDate("date_from", req.DateFrom)
	if err != nil {
		return nil, err
	}
	dateTo, err := parseDate("date_to", req.DateTo)
	if err != nil {
		return nil, err
	}

	out, err := h.uc.ExportLogs(r.Context(), usecase.ExportLogsInput{
		Status:    req.Status,
		EventType: req.EventType,
		Search:    req.Search,
		DateFrom:  dateFrom,
		DateTo:    dateTo,
	})
	if err != nil {
		return nil, err
	}

	return ExportLogsResponse{URL: out.URL, ExpiresAt: out.ExpiresAt, Rows: out.Rows}, nil
}

func parseDate(field, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}

	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, goerror.NewInvalidFormat("Invalid " + field)
	}

	return t, nil
}
