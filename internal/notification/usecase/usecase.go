package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shandysiswandi/gonotif/internal/notification/entity"
	"github.com/shandysiswandi/gonotif/internal/pkg/clock"
	"github.com/shandysiswandi/gonotif/internal/pkg/goroutine"
	"github.com/shandysiswandi/gonotif/internal/pkg/idempotency"
	"github.com/shandysiswandi/gonotif/internal/pkg/instrument"
	"github.com/shandysiswandi/gonotif/internal/pkg/phone"
	"github.com/shandysiswandi/gonotif/internal/pkg/uid"
	"github.com/shandysiswandi/gonotif/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	CreateMessageLogWithFlag(ctx context.Context, key entity.FlagKey, ml entity.CreateMessageLog) (bool, error)
	GetMessageLog(ctx context.Context, id int64) (*entity.MessageLog, error)
	UpdateMessageLogStatus(ctx context.Context, u entity.UpdateMessageLogStatus) error

	ListMessageLogs(ctx context.Context, f entity.MessageLogFilter) ([]entity.MessageLog, error)
	CountMessageLogs(ctx context.Context, f entity.MessageLogFilter) (int64, error)
	SummarizeMessageLogs(ctx context.Context, todayStart, weekStart time.Time) (*entity.MessageLogSummary, error)
	ListStaleMessageLogs(ctx context.Context, before time.Time, limit int32) ([]entity.MessageLog, error)
	ListMessageLogsByReference(ctx context.Context, refType entity.ReferenceType, refID int64) ([]entity.MessageLog, error)
	ListFlaggedEvents(ctx context.Context, refType entity.ReferenceType, refID int64) ([]entity.EventType, error)
}

type repoMQ interface {
	PublishOutcome(ctx context.Context, ml entity.MessageLog) error
}

type repoExport interface {
	UploadExport(ctx context.Context, filename string, data []byte) (string, time.Duration, error)
}

type channelSender interface {
	Send(ctx context.Context, phone, body string) entity.SendResult
}

type templateRenderer interface {
	Render(event entity.EventType, vars map[string]string) (string, error)
}

type phoneNormalizer interface {
	Normalize(raw string) (phone.Phone, error)
}

type enforcer interface {
	Enforce(rvals ...any) (bool, error)
}

type taskSubmitter interface {
	Submit(task goroutine.Task) error
}

type deliveryGuard interface {
	Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...idempotency.Option) error
}

// ErrRetryOutlivesStale means a retry could wait out the stale window, so the
// recovery sweep would queue the same entry while its retry is pending.
var ErrRetryOutlivesStale = errors.New("retry max delay must be shorter than the stale window")

// Settings are the tunables read from modules.notification.* at startup.
type Settings struct {
	FrontendURL string

	MaxAttempts    int
	BaseDelay      time.Duration
	MaxDelay       time.Duration
	MaxElapsed     time.Duration
	SendTimeout    time.Duration
	StaleAfter     time.Duration
	RecoveryBatch  int32
	RecoveryEvery  time.Duration
	ExportMaxRows  int
	ExportPageSize int32
}

func (s Settings) withDefaults() Settings {
	if s.MaxAttempts <= 0 {
		s.MaxAttempts = 3
	}
	if s.BaseDelay <= 0 {
		s.BaseDelay = 2 * time.Second
	}
	if s.MaxDelay <= 0 {
		s.MaxDelay = 30 * time.Second
	}
	if s.MaxElapsed <= 0 {
		s.MaxElapsed = 5 * time.Minute
	}
	if s.SendTimeout <= 0 {
		s.SendTimeout = 20 * time.Second
	}
	if s.StaleAfter <= 0 {
		s.StaleAfter = 10 * time.Minute
	}
	if s.RecoveryBatch <= 0 {
		s.RecoveryBatch = 100
	}
	if s.RecoveryEvery <= 0 {
		s.RecoveryEvery = time.Minute
	}
	if s.ExportMaxRows <= 0 {
		s.ExportMaxRows = 50_000
	}
	if s.ExportPageSize <= 0 {
		s.ExportPageSize = 1_000
	}
	return s
}

// Validate checks s once defaults are filled in.
func (s Settings) Validate() error {
	s = s.withDefaults()
	if s.MaxDelay >= s.StaleAfter {
		return fmt.Errorf("%w: max delay %s, stale after %s", ErrRetryOutlivesStale, s.MaxDelay, s.StaleAfter)
	}
	return nil
}

type Usecase struct {
	repoDB     repoDB
	repoMQ     repoMQ
	repoExport repoExport
	sender     channelSender
	renderer   templateRenderer
	phone      phoneNormalizer
	enforcer   enforcer
	pool       taskSubmitter
	guard      deliveryGuard
	uid        uid.NumberID
	clock      clock.Clocker
	validator  validator.Validator
	ins        instrument.Instrumentation
	settings   Settings
	policy     retryPolicy
	metrics    *metrics

	// afterFunc schedules a retry once its backoff elapsed.
	afterFunc func(d time.Duration, f func())
}

type Dependency struct {
	RepoDB     repoDB
	RepoMQ     repoMQ
	RepoExport repoExport
	Sender     channelSender
	Renderer   templateRenderer
	Phone      phoneNormalizer
	Enforcer   enforcer
	Pool       taskSubmitter
	Guard      deliveryGuard
	UID        uid.NumberID
	Clock      clock.Clocker
	Validator  validator.Validator
	Instrument instrument.Instrumentation
	Settings   Settings
}

func NewNotification(dep Dependency) *Usecase {
	settings := dep.Settings.withDefaults()

	return &Usecase{
		repoDB:     dep.RepoDB,
		repoMQ:     dep.RepoMQ,
		repoExport: dep.RepoExport,
		sender:     dep.Sender,
		renderer:   dep.Renderer,
		phone:      dep.Phone,
		enforcer:   dep.Enforcer,
		pool:       dep.Pool,
		guard:      dep.Guard,
		uid:        dep.UID,
		clock:      dep.Clock,
		validator:  dep.Validator,
		ins:        dep.Instrument,
		settings:   settings,
		policy:     newRetryPolicy(settings),
		metrics:    newMetrics(dep.Instrument.Meter("notification.usecase")),
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("notification.usecase").Start(ctx, name)
}
