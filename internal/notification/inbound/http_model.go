package inbound

import (
	"net/http"
	"time"

	"github.com/shandysiswandi/gonotif/internal/notification/entity"
	"github.com/shandysiswandi/gonotif/internal/pkg/valueobject"
)

type TriggerRequest struct {
	EventType     string `json:"event_type"`
	ReferenceType string `json:"reference_type"`
	ReferenceID   int64  `json:"reference_id"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	// Payload values may be any JSON scalar; they are rendered as text.
	Payload valueobject.JSONMap `json:"payload"`
}

// TriggerResponse is 202 when a send was queued, 200 when the event was
// already handled and 422 when the customer cannot be messaged.
type TriggerResponse struct {
	Result string `json:"result" example:"ACCEPTED"`
	LogID  int64  `json:"log_id,omitempty"`
	Reason string `json:"reason,omitempty" example:"blocked_number"`
}

func (r TriggerResponse) StatusCode() int {
	switch entity.DispatchResult(r.Result) {
	case entity.DispatchAccepted:
		return http.StatusAccepted
	case entity.DispatchRejected:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusOK
	}
}

func (r TriggerResponse) Message() string {
	switch entity.DispatchResult(r.Result) {
	case entity.DispatchAccepted:
		return "notification queued"
	case entity.DispatchRejected:
		return "notification rejected"
	default:
		return "notification already sent for this event"
	}
}

type MessageLogResponse struct {
	ID             int64      `json:"id"`
	EventType      string     `json:"event_type"`
	EventLabel     string     `json:"event_label"`
	CustomerPhone  string     `json:"customer_phone"`
	CustomerName   string     `json:"customer_name"`
	MessageContent string     `json:"message_content"`
	Status         string     `json:"status"`
	ReferenceType  string     `json:"reference_type"`
	ReferenceID    int64      `json:"reference_id"`
	ErrorMessage   string     `json:"error_message,omitempty"`
	RetryCount     int32      `json:"retry_count"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	SentAt         *time.Time `json:"sent_at,omitempty"`
}

func toMessageLogResponse(ml entity.MessageLog) MessageLogResponse {
	return MessageLogResponse{
		ID:             ml.ID,
		EventType:      ml.EventType.String(),
		EventLabel:     ml.EventType.Label(),
		CustomerPhone:  ml.CustomerPhone,
		CustomerName:   ml.CustomerName,
		MessageContent: ml.MessageContent,
		Status:         ml.Status.String(),
		ReferenceType:  ml.ReferenceType.String(),
		ReferenceID:    ml.ReferenceID,
		ErrorMessage:   ml.ErrorMessage,
		RetryCount:     ml.RetryCount,
		CreatedAt:      ml.CreatedAt,
		UpdatedAt:      ml.UpdatedAt,
		SentAt:         ml.SentAt,
	}
}

func toMessageLogResponses(items []entity.MessageLog) []MessageLogResponse {
	resp := make([]MessageLogResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toMessageLogResponse(item))
	}
	return resp
}

type MessageLogsResponse struct {
	Logs []MessageLogResponse `json:"logs"`

	total    int64
	page     int32
	pageSize int32
}

func (r MessageLogsResponse) Meta() map[string]any {
	pages := (r.total + int64(r.pageSize) - 1) / int64(max(r.pageSize, 1))
	return map[string]any{
		"total":       r.total,
		"page":        r.page,
		"page_size":   r.pageSize,
		"total_pages": pages,
	}
}

type RetryLogResponse struct {
	MessageLogResponse
}

func (RetryLogResponse) StatusCode() int { return http.StatusAccepted }

func (RetryLogResponse) Message() string { return "retry queued" }

type SummaryResponse struct {
	Total     int64 `json:"total"`
	Sent      int64 `json:"sent"`
	Failed    int64 `json:"failed"`
	Pending   int64 `json:"pending"`
	Retrying  int64 `json:"retrying"`
	Today     int64 `json:"today"`
	Last7Days int64 `json:"last_7_days"`
}

type EventTypeResponse struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type EventTypesResponse struct {
	EventTypes []EventTypeResponse `json:"event_types"`
}

type ReferenceLogsResponse struct {
	Logs          []MessageLogResponse `json:"logs"`
	FlaggedEvents []string             `json:"flagged_events"`
}

type ExportLogsRequest struct {
	Status    string `json:"status"`
	EventType string `json:"event_type"`
	Search    string `json:"search"`
	DateFrom  string `json:"date_from" example:"2026-03-01"`
	DateTo    string `json:"date_to" example:"2026-03-31"`
}

type ExportLogsResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
	Rows      int       `json:"rows"`
}
