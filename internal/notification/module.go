package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/gonotif/internal/notification/entity"
	"github.com/shandysiswandi/gonotif/internal/notification/inbound"
	"github.com/shandysiswandi/gonotif/internal/notification/outbound/db"
	"github.com/shandysiswandi/gonotif/internal/notification/outbound/mq"
	exportstorage "github.com/shandysiswandi/gonotif/internal/notification/outbound/storage"
	"github.com/shandysiswandi/gonotif/internal/notification/outbound/whatsapp"
	"github.com/shandysiswandi/gonotif/internal/notification/template"
	"github.com/shandysiswandi/gonotif/internal/notification/usecase"
	"github.com/shandysiswandi/gonotif/internal/pkg/clock"
	"github.com/shandysiswandi/gonotif/internal/pkg/config"
	"github.com/shandysiswandi/gonotif/internal/pkg/goroutine"
	"github.com/shandysiswandi/gonotif/internal/pkg/idempotency"
	"github.com/shandysiswandi/gonotif/internal/pkg/instrument"
	"github.com/shandysiswandi/gonotif/internal/pkg/messaging"
	"github.com/shandysiswandi/gonotif/internal/pkg/phone"
	"github.com/shandysiswandi/gonotif/internal/pkg/router"
	"github.com/shandysiswandi/gonotif/internal/pkg/storage"
	"github.com/shandysiswandi/gonotif/internal/pkg/uid"
	"github.com/shandysiswandi/gonotif/internal/pkg/validator"
)

const (
	channelDriverGateway = "gateway"
	channelDriverLog     = "log"
)

type enforcer interface {
	Enforce(rvals ...any) (bool, error)
}

type Dependency struct {
	Ctx        context.Context            `validate:"required"`
	DBConn     *pgxpool.Pool              `validate:"required"`
	Idemp      *idempotency.StateTracker  `validate:"required"`
	Messaging  messaging.Messaging        `validate:"required"`
	Storage    storage.Storage            `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	UUID       uid.StringID               `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Enforcer   enforcer                   `validate:"required"`
}

// Module is the running notification module. Close drains the delivery
// queue and must run before the shared resources are closed.
type Module struct {
	pool *goroutine.Pool
	// stop cancels the context deliveries run with, after the pool drained.
	stop context.CancelFunc
}

// QueueStats reports the delivery queue for the health endpoint.
type QueueStats struct {
	Queued  int64 `json:"queued"`
	Running int64 `json:"running"`
	Failed  int64 `json:"failed"`
}

func New(dep Dependency) (*Module, error) {
	if dep.Validator == nil {
		return nil, errors.New("notification: validator is required")
	}
	if err := dep.Validator.Validate(dep); err != nil {
		return nil, fmt.Errorf("notification: invalid dependency: %w", err)
	}

	cfg := dep.Config
	if !cfg.GetBool("modules.notification.enabled") {
		slog.Info("notification module disabled")
		return &Module{}, nil
	}

	dbNotif := db.NewDB(dep.DBConn, dep.Instrument)
	if cfg.GetBool("database.auto_migrate") {
		if err := dbNotif.Migrate(dep.Ctx); err != nil {
			return nil, fmt.Errorf("notification: migrate: %w", err)
		}
	}

	phoneValidator, err := phone.NewValidator(
		cfg.GetArray("modules.notification.staff_numbers"),
		phone.WithDialingPlan(
			orDefault(cfg.GetString("modules.notification.phone.country_code"), "91"),
			orDefaultInt(cfg.GetInt("modules.notification.phone.national_length"), 10),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("notification: staff numbers: %w", err)
	}

	renderer, err := template.NewRenderer(template.WithOverrides(
		template.Defaults(orDefault(cfg.GetString("modules.notification.company_name"), "Customer Care")),
		cfg.GetStringMap("modules.notification.templates"),
	))
	if err != nil {
		return nil, fmt.Errorf("notification: templates: %w", err)
	}

	sender, err := newSender(cfg, dep.Clock, dep.Instrument)
	if err != nil {
		return nil, err
	}

	exporter, err := exportstorage.NewExporter(dep.Storage, exportstorage.Config{
		Bucket:     cfg.GetString("modules.notification.export.bucket"),
		Prefix:     cfg.GetString("modules.notification.export.prefix"),
		LinkExpiry: cfg.GetSecond("modules.notification.export.link_expiry_seconds"),
	}, dep.Instrument)
	if err != nil {
		return nil, fmt.Errorf("notification: export: %w", err)
	}

	settings := usecase.Settings{
		FrontendURL:    cfg.GetString("modules.notification.frontend_url"),
		MaxAttempts:    cfg.GetInt("modules.notification.retry.max_attempts"),
		BaseDelay:      cfg.GetMillisecond("modules.notification.retry.base_delay_ms"),
		MaxDelay:       cfg.GetMillisecond("modules.notification.retry.max_delay_ms"),
		MaxElapsed:     cfg.GetSecond("modules.notification.retry.max_elapsed_seconds"),
		SendTimeout:    cfg.GetSecond("modules.notification.channel.send_timeout_seconds"),
		StaleAfter:     cfg.GetSecond("modules.notification.recovery.stale_after_seconds"),
		RecoveryBatch:  cfg.GetInt32("modules.notification.recovery.batch_size"),
		RecoveryEvery:  cfg.GetSecond("modules.notification.recovery.interval_seconds"),
		ExportMaxRows:  cfg.GetInt("modules.notification.export.max_rows"),
		ExportPageSize: cfg.GetInt32("modules.notification.export.page_size"),
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("notification: settings: %w", err)
	}

	mod := newModule(dep.Ctx,
		max(cfg.GetInt("modules.notification.channel.workers"), 1),
		max(cfg.GetInt("modules.notification.channel.queue_size"), 1),
	)

	uc := usecase.NewNotification(usecase.Dependency{
		RepoDB:     dbNotif,
		RepoMQ:     mq.NewMessaging(dep.Messaging, dep.Instrument),
		RepoExport: exporter,
		Sender:     sender,
		Renderer:   renderer,
		Phone:      phoneValidator,
		Enforcer:   dep.Enforcer,
		Pool:       mod.pool,
		Guard:      dep.Idemp,
		UID:        dep.UID,
		Clock:      dep.Clock,
		Validator:  dep.Validator,
		Instrument: dep.Instrument,
		Settings:   settings,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)
	inbound.RegisterMQConsumer(dep.Ctx, cfg, dep.Goroutine, dep.Messaging, dep.UUID, uc, dep.Instrument)

	if cfg.GetBool("modules.notification.recovery.enabled") {
		dep.Goroutine.Go(dep.Ctx, "delivery recovery", func(ctx context.Context) error {
			slog.InfoContext(ctx, "Running job for stale delivery recovery")
			return uc.RunRecovery(ctx)
		})
	}

	slog.Info("notification module ready",
		"channel", cfg.GetString("modules.notification.channel.driver"),
		"blocked_numbers", phoneValidator.BlockedCount(),
	)

	return mod, nil
}

// newModule starts the delivery pool on a context detached from parent, so
// shutting the app down does not cut off sends the pool is still draining.
func newModule(parent context.Context, workers, queueSize int) *Module {
	ctx, stop := context.WithCancel(context.WithoutCancel(parent))
	return &Module{pool: goroutine.NewPool(ctx, workers, queueSize), stop: stop}
}

// Stats is zero when the module is disabled.
func (m *Module) Stats() QueueStats {
	if m == nil || m.pool == nil {
		return QueueStats{}
	}
	queued, running := m.pool.Stats()
	return QueueStats{Queued: queued, Running: running, Failed: m.pool.Failed()}
}

// Close stops accepting deliveries and waits for queued ones until ctx ends.
func (m *Module) Close(ctx context.Context) error {
	if m == nil || m.pool == nil {
		return nil
	}
	err := m.pool.Close(ctx)
	m.stop()
	return err
}

type channelSender interface {
	Send(ctx context.Context, phone, body string) entity.SendResult
}

func newSender(cfg config.Config, clk clock.Clocker, ins instrument.Instrumentation) (channelSender, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.GetString("modules.notification.channel.driver")))
	switch driver {
	case channelDriverLog:
		slog.Warn("whatsapp channel runs in dry-run mode, messages are only logged")
		return whatsapp.NewDryRun(), nil
	case channelDriverGateway, "":
		g, err := whatsapp.NewGateway(whatsapp.Config{
			URL:     cfg.GetString("modules.notification.channel.gateway.url"),
			Token:   cfg.GetString("modules.notification.channel.gateway.token"),
			Secret:  cfg.GetString("modules.notification.channel.gateway.secret"),
			Timeout: cfg.GetSecond("modules.notification.channel.send_timeout_seconds"),
		}, clk, ins)
		if err != nil {
			return nil, fmt.Errorf("notification: channel: %w", err)
		}
		return g, nil
	default:
		return nil, fmt.Errorf("notification: unknown channel driver %q", driver)
	}
}

func orDefaultInt(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
