package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Queries holds the SQL of the notification tables. One method per statement.
type Queries struct {
	db DBTX
}

func NewQueries(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

const messageLogColumns = `id, event_type, customer_phone, customer_name, message_content, status,
	reference_type, reference_id, error_message, retry_count, created_at, updated_at, sent_at`

type messageLogRow struct {
	ID             int64              `db:"id"`
	EventType      string             `db:"event_type"`
	CustomerPhone  string             `db:"customer_phone"`
	CustomerName   string             `db:"customer_name"`
	MessageContent string             `db:"message_content"`
	Status         string             `db:"status"`
	ReferenceType  string             `db:"reference_type"`
	ReferenceID    int64              `db:"reference_id"`
	ErrorMessage   pgtype.Text        `db:"error_message"`
	RetryCount     int32              `db:"retry_count"`
	CreatedAt      time.Time          `db:"created_at"`
	UpdatedAt      time.Time          `db:"updated_at"`
	SentAt         pgtype.Timestamptz `db:"sent_at"`
}

func collectMessageLogs(rows pgx.Rows, err error) ([]messageLogRow, error) {
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[messageLogRow])
}

const insertNotificationFlag = `-- name: InsertNotificationFlag :one
INSERT INTO notification_flags (reference_type, reference_id, event_type, message_log_id)
VALUES ($1, $2, $3, $4)
ON CONFLICT DO NOTHING
RETURNING message_log_id`

type InsertNotificationFlagParams struct {
	ReferenceType string
	ReferenceID   int64
	EventType     string
	MessageLogID  int64
}

// InsertNotificationFlag returns pgx.ErrNoRows when the flag already exists.
func (q *Queries) InsertNotificationFlag(ctx context.Context, arg InsertNotificationFlagParams) (int64, error) {
	var id int64
	err := q.db.QueryRow(ctx, insertNotificationFlag,
		arg.ReferenceType, arg.ReferenceID, arg.EventType, arg.MessageLogID,
	).Scan(&id)
	return id, err
}

const listNotificationFlagsByReference = `-- name: ListNotificationFlagsByReference :many
SELECT event_type FROM notification_flags
WHERE reference_type = $1 AND reference_id = $2
ORDER BY created_at`

func (q *Queries) ListNotificationFlagsByReference(ctx context.Context, refType string, refID int64) ([]string, error) {
	rows, err := q.db.Query(ctx, listNotificationFlagsByReference, refType, refID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

const createMessageLog = `-- name: CreateMessageLog :one
INSERT INTO notification_message_logs (
	id, event_type, customer_phone, customer_name, message_content, status,
	reference_type, reference_id, error_message
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9::text, ''))
RETURNING created_at`

type CreateMessageLogParams struct {
	ID             int64
	EventType      string
	CustomerPhone  string
	CustomerName   string
	MessageContent string
	Status         string
	ReferenceType  string
	ReferenceID    int64
	ErrorMessage   string
}

func (q *Queries) CreateMessageLog(ctx context.Context, arg CreateMessageLogParams) (time.Time, error) {
	var createdAt time.Time
	err := q.db.QueryRow(ctx, createMessageLog,
		arg.ID, arg.EventType, arg.CustomerPhone, arg.CustomerName, arg.MessageContent,
		arg.Status, arg.ReferenceType, arg.ReferenceID, arg.ErrorMessage,
	).Scan(&createdAt)
	return createdAt, err
}

const getMessageLog = `-- name: GetMessageLog :one
SELECT ` + messageLogColumns + `
FROM notification_message_logs
WHERE id = $1`

func (q *Queries) GetMessageLog(ctx context.Context, id int64) (messageLogRow, error) {
	rows, err := q.db.Query(ctx, getMessageLog, id)
	if err != nil {
		return messageLogRow{}, err
	}
	return pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[messageLogRow])
}

const updateMessageLogStatus = `-- name: UpdateMessageLogStatus :execrows
UPDATE notification_message_logs
SET status        = $3,
    error_message = COALESCE(NULLIF($4::text, ''), error_message),
    retry_count   = retry_count + CASE WHEN $5::boolean THEN 1 ELSE 0 END,
    sent_at       = COALESCE($6::timestamptz, sent_at),
    updated_at    = now()
WHERE id = $1 AND status = ANY($2::text[])`

type UpdateMessageLogStatusParams struct {
	ID             int64
	FromStatuses   []string
	Status         string
	ErrorMessage   string
	IncrementRetry bool
	SentAt         pgtype.Timestamptz
}

func (q *Queries) UpdateMessageLogStatus(ctx context.Context, arg UpdateMessageLogStatusParams) (int64, error) {
	tag, err := q.db.Exec(ctx, updateMessageLogStatus,
		arg.ID, arg.FromStatuses, arg.Status, arg.ErrorMessage, arg.IncrementRetry, arg.SentAt,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Filter arguments: empty strings and NULL timestamps disable a condition.
const messageLogFilter = `
WHERE ($1::text = '' OR event_type = $1)
  AND ($2::text = '' OR status = $2)
  AND ($3::timestamptz IS NULL OR created_at >= $3)
  AND ($4::timestamptz IS NULL OR created_at < $4)
  AND ($5::text = '' OR customer_phone ILIKE '%' || $5 || '%' ESCAPE '\' OR customer_name ILIKE '%' || $5 || '%' ESCAPE '\')`

type MessageLogFilterParams struct {
	EventType string
	Status    string
	DateFrom  pgtype.Timestamptz
	DateTo    pgtype.Timestamptz
	Search    string
}

func (p MessageLogFilterParams) args() []any {
	return []any{p.EventType, p.Status, p.DateFrom, p.DateTo, p.Search}
}

const listMessageLogs = `-- name: ListMessageLogs :many
SELECT ` + messageLogColumns + `
FROM notification_message_logs` + messageLogFilter + `
ORDER BY created_at DESC, id DESC
LIMIT $6 OFFSET $7`

func (q *Queries) ListMessageLogs(ctx context.Context, arg MessageLogFilterParams, limit, offset int32) ([]messageLogRow, error) {
	args := append(arg.args(), limit, offset)
	return collectMessageLogs(q.db.Query(ctx, listMessageLogs, args...))
}

const countMessageLogs = `-- name: CountMessageLogs :one
SELECT count(*) FROM notification_message_logs` + messageLogFilter

func (q *Queries) CountMessageLogs(ctx context.Context, arg MessageLogFilterParams) (int64, error) {
	var total int64
	err := q.db.QueryRow(ctx, countMessageLogs, arg.args()...).Scan(&total)
	return total, err
}

const summarizeMessageLogs = `-- name: SummarizeMessageLogs :one
SELECT count(*),
       count(*) FILTER (WHERE status = 'SENT'),
       count(*) FILTER (WHERE status = 'FAILED'),
       count(*) FILTER (WHERE status = 'PENDING'),
       count(*) FILTER (WHERE status = 'RETRYING'),
       count(*) FILTER (WHERE created_at >= $1),
       count(*) FILTER (WHERE created_at >= $2)
FROM notification_message_logs`

type SummarizeMessageLogsRow struct {
	Total, Sent, Failed, Pending, Retrying, Today, Last7Days int64
}

func (q *Queries) SummarizeMessageLogs(ctx context.Context, todayStart, weekStart time.Time) (SummarizeMessageLogsRow, error) {
	var r SummarizeMessageLogsRow
	err := q.db.QueryRow(ctx, summarizeMessageLogs, todayStart, weekStart).Scan(
		&r.Total, &r.Sent, &r.Failed, &r.Pending, &r.Retrying, &r.Today, &r.Last7Days,
	)
	return r, err
}

const listStaleMessageLogs = `-- name: ListStaleMessageLogs :many
SELECT ` + messageLogColumns + `
FROM notification_message_logs
WHERE status IN ('PENDING', 'RETRYING') AND updated_at < $1
ORDER BY updated_at
LIMIT $2`

func (q *Queries) ListStaleMessageLogs(ctx context.Context, before time.Time, limit int32) ([]messageLogRow, error) {
	return collectMessageLogs(q.db.Query(ctx, listStaleMessageLogs, before, limit))
}

const listMessageLogsByReference = `-- name: ListMessageLogsByReference :many
SELECT ` + messageLogColumns + `
FROM notification_message_logs
WHERE reference_type = $1 AND reference_id = $2
ORDER BY created_at DESC, id DESC`

func (q *Queries) ListMessageLogsByReference(ctx context.Context, refType string, refID int64) ([]messageLogRow, error) {
	return collectMessageLogs(q.db.Query(ctx, listMessageLogsByReference, refType, refID))
}
