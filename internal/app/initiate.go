package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/samber/lo"
	"github.com/segmentio/kafka-go"
	"github.com/shandysiswandi/gonotif/docs"
	"github.com/shandysiswandi/gonotif/internal/pkg/clock"
	"github.com/shandysiswandi/gonotif/internal/pkg/config"
	"github.com/shandysiswandi/gonotif/internal/pkg/goerror"
	"github.com/shandysiswandi/gonotif/internal/pkg/goroutine"
	"github.com/shandysiswandi/gonotif/internal/pkg/idempotency"
	"github.com/shandysiswandi/gonotif/internal/pkg/instrument"
	"github.com/shandysiswandi/gonotif/internal/pkg/jwt"
	"github.com/shandysiswandi/gonotif/internal/pkg/messaging"
	"github.com/shandysiswandi/gonotif/internal/pkg/router"
	"github.com/shandysiswandi/gonotif/internal/pkg/storage"
	"github.com/shandysiswandi/gonotif/internal/pkg/uid"
	"github.com/shandysiswandi/gonotif/internal/pkg/validator"
	"github.com/swaggo/swag/v2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

var errInvalidPolicy = errors.New("policy must be ROLE:object:action")

// exitOnErr aborts startup. Nothing is running yet, so there is nothing to
// drain.
func exitOnErr(err error, msg string, kv ...any) {
	if err == nil {
		return
	}
	slog.Error(msg, append(kv, "error", err)...)
	os.Exit(1)
}

func (a *App) ping(fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()
	return fn(ctx)
}

func (a *App) initConfig() {
	local := os.Getenv("LOCAL") == "true"
	if local {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Warn("failed to load .env file", "error", err)
		}
	}

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "/config/config.yaml"
		if local {
			path = "./config/config.yaml"
		}
	}

	cfg, err := config.NewViper(path)
	exitOnErr(err, "failed to init config")

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("app.tz"))

	a.config = cfg
}

func (a *App) initInstrument() {
	ins, err := instrument.New(context.Background(), &instrument.Config{
		Enabled:          a.config.GetBool("instrument.enabled"),
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("instrument.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
		LogLevel:         a.config.GetString("instrument.log_level"),
	})
	exitOnErr(err, "failed to init instrumentation")
	a.ins = ins
}

func (a *App) initLibraries() {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.goroutine = goroutine.NewManager(a.config.GetInt("app.server.max_goroutine"))

	validator, err := validator.NewV10Validator()
	exitOnErr(err, "failed to init validation v10 validator")
	a.validator = validator

	snow, err := uid.NewSnowflake()
	exitOnErr(err, "failed to init uid number snowflake")
	a.uid = snow
}

func (a *App) initJWT() {
	defaultJWT, err := jwt.NewHS512(jwt.Config{
		Secret:    []byte(a.config.GetString("jwt.secret")),
		Issuer:    a.config.GetString("jwt.issuer"),
		Audiences: a.config.GetArray("jwt.audiences"),
		TTL:       a.config.GetSecond("jwt.ttl_seconds"),
		Clock:     a.clock,
		UUID:      a.uuid,
	})
	exitOnErr(err, "failed to init jwt token")
	a.jwt = defaultJWT
}

func (a *App) initDatabase() {
	config, err := pgxpool.ParseConfig(a.config.GetString("database.url"))
	exitOnErr(err, "failed to parse DB connection string.")

	config.MaxConns = a.config.GetInt32("database.pool.max_conns")
	config.MinConns = a.config.GetInt32("database.pool.min_conns")
	config.MaxConnLifetime = a.config.GetSecond("database.pool.max_conn_lifetime_seconds")
	config.MaxConnIdleTime = a.config.GetSecond("database.pool.max_conn_idle_seconds")
	config.HealthCheckPeriod = a.config.GetSecond("database.pool.health_check_period_seconds")

	pool, err := pgxpool.NewWithConfig(a.ctx, config)
	exitOnErr(err, "failed to create DB connection pool")

	exitOnErr(a.ping(pool.Ping), "failed to ping DB")

	a.dbConn = pool
}

func (a *App) initCache() {
	opt, err := redis.ParseURL(a.config.GetString("redis.url"))
	exitOnErr(err, "failed to parse redis url")

	rdb := redis.NewClient(opt)

	exitOnErr(a.ping(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }), "failed to ping redis")

	a.cacheConn = rdb
	a.idemp = idempotency.New(a.cacheConn, a.config.GetString("redis.key_prefix"))
}

// gcsClient returns nil when no option is set, letting the adapter fall back
// to application default credentials.
func (a *App) gcsClient() (*gcs.Client, error) {
	var opts []option.ClientOption
	if a.config.GetBool("storage.gcs.without_auth") {
		opts = append(opts, option.WithoutAuthentication())
	}

	credsJSON := a.config.GetBinary("storage.gcs.credentials_json")
	if path := strings.TrimSpace(a.config.GetString("storage.gcs.credentials_file")); path != "" {
		// #nosec G304 -- path comes from the deployment config.
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read gcs credentials file: %w", err)
		}
		credsJSON = raw
	}
	if len(credsJSON) > 0 {
		creds, err := google.CredentialsFromJSON(a.ctx, credsJSON, gcs.ScopeReadWrite)
		if err != nil {
			return nil, fmt.Errorf("parse gcs credentials: %w", err)
		}
		opts = append(opts, option.WithCredentials(creds))
	}

	if endpoint := strings.TrimSpace(a.config.GetString("storage.gcs.endpoint")); endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	if len(opts) == 0 {
		return nil, nil
	}
	return gcs.NewClient(a.ctx, opts...)
}

func (a *App) initStorage() {
	driver := strings.TrimSpace(a.config.GetString("storage.driver"))

	var gcsClient *gcs.Client
	if driver == storage.DriverGCS {
		client, err := a.gcsClient()
		exitOnErr(err, "failed to init gcs client")
		gcsClient = client
	}

	stg, err := storage.NewFromDriver(a.ctx, driver, storage.FactoryOptions{
		S3: storage.S3Options{
			Region:       strings.TrimSpace(a.config.GetString("storage.s3.region")),
			Endpoint:     strings.TrimSpace(a.config.GetString("storage.s3.endpoint")),
			AccessKey:    strings.TrimSpace(a.config.GetString("storage.s3.access_key")),
			SecretKey:    strings.TrimSpace(a.config.GetString("storage.s3.secret_key")),
			SessionToken: strings.TrimSpace(a.config.GetString("storage.s3.session_token")),
			UsePathStyle: a.config.GetBool("storage.s3.use_path_style"),
		},
		GCS: storage.GCSOptions{
			Client:         gcsClient,
			GoogleAccessID: strings.TrimSpace(a.config.GetString("storage.gcs.signer_access_id")),
			PrivateKey:     a.config.GetBinary("storage.gcs.signer_private_key"),
		},
		MinIO: storage.MinIOOptions{
			Region:       strings.TrimSpace(a.config.GetString("storage.minio.region")),
			Endpoint:     strings.TrimSpace(a.config.GetString("storage.minio.endpoint")),
			AccessKey:    strings.TrimSpace(a.config.GetString("storage.minio.access_key")),
			SecretKey:    strings.TrimSpace(a.config.GetString("storage.minio.secret_key")),
			SessionToken: strings.TrimSpace(a.config.GetString("storage.minio.session_token")),
			UseSSL:       a.config.GetBool("storage.minio.use_ssl"),
		},
	})
	exitOnErr(err, "failed to init storage", "driver", driver)

	a.storage = stg
}

func (a *App) initMessaging() {
	driver := a.config.GetString("messaging.driver")

	var pubsubOptions []option.ClientOption
	if v := strings.TrimSpace(a.config.GetString("messaging.pubsub.endpoint")); v != "" {
		pubsubOptions = append(pubsubOptions, option.WithEndpoint(v), option.WithoutAuthentication())
	}

	client, err := messaging.NewFromDriver(a.ctx, driver, messaging.FactoryOptions{
		NSQ: messaging.NSQConfig{
			ProducerAddr:         a.config.GetString("messaging.nsq.producer_addr"),
			ConsumerNSQDAddrs:    a.config.GetArray("messaging.nsq.consumer_nsqd_addrs"),
			ConsumerLookupdAddrs: a.config.GetArray("messaging.nsq.consumer_lookupd_addrs"),
		},
		Kafka: messaging.KafkaConfig{
			Brokers: a.config.GetArray("messaging.kafka.brokers"),
			Dialer: &kafka.Dialer{
				ClientID:  a.config.GetString("messaging.kafka.client_id"),
				Timeout:   a.config.GetSecond("messaging.kafka.dial_timeout_seconds"),
				DualStack: true,
			},
		},
		NATS: messaging.NATSConfig{
			URL: a.config.GetString("messaging.nats.url"),
			Options: []nats.Option{
				nats.Name(a.config.GetString("messaging.nats.name")),
				nats.MaxReconnects(a.config.GetInt("messaging.nats.max_reconnects")),
				nats.Timeout(a.config.GetSecond("messaging.nats.timeout_seconds")),
				nats.ReconnectWait(a.config.GetSecond("messaging.nats.reconnect_wait_seconds")),
				nats.PingInterval(a.config.GetSecond("messaging.nats.ping_interval_seconds")),
				nats.MaxPingsOutstanding(a.config.GetInt("messaging.nats.max_pings_outstanding")),
				nats.RetryOnFailedConnect(a.config.GetBool("messaging.nats.retry_on_failed_connect")),
			},
		},
		PubSub: messaging.PubSubConfig{
			ProjectID:     a.config.GetString("messaging.pubsub.project_id"),
			ClientOptions: pubsubOptions,
		},
		RabbitMQ: messaging.RabbitMQConfig{
			URL:             a.config.GetString("messaging.rabbitmq.url"),
			Exchange:        a.config.GetString("messaging.rabbitmq.exchange"),
			DelayedExchange: a.config.GetString("messaging.rabbitmq.delayed_exchange"),
		},
	})
	exitOnErr(err, "failed to init messaging", "driver", driver)

	a.messaging = client
}

func (a *App) initCasbin() {
	e, err := newEnforcer(a.config.GetArray("authz.policies"))
	exitOnErr(err, "failed to init casbin")

	a.casbin = e
}

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = (r.sub == p.sub || g(r.sub, p.sub)) && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

// newEnforcer loads "ROLE:object:action" policies. Roles come from the staff
// token, so there is no grouping policy.
func newEnforcer(policies []string) (*casbin.SyncedEnforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("casbin model: %w", err)
	}

	e, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("casbin enforcer: %w", err)
	}

	for _, raw := range policies {
		parts := strings.Split(strings.TrimSpace(raw), ":")
		if len(parts) != 3 || lo.Contains(parts, "") {
			return nil, fmt.Errorf("%w: %q", errInvalidPolicy, raw)
		}
		if _, err := e.AddPolicy(strings.ToUpper(parts[0]), parts[1], parts[2]); err != nil {
			return nil, fmt.Errorf("casbin policy %q: %w", raw, err)
		}
	}

	return e, nil
}

func (a *App) initHTTPServer() {
	a.router = router.NewRouter(router.Config{
		Config:       a.config,
		UUID:         a.uuid,
		JWT:          a.jwt,
		Instrument:   a.ins,
		PublicRoutes: a.config.GetArray("app.server.public_routes"),
	})

	a.router.GET("/health", a.health)

	routerWithCORS := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("app.server.cors"),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(a.router)

	mux := http.NewServeMux()
	mux.Handle("/", routerWithCORS)
	if a.config.GetBool("app.server.swagger") {
		mux.HandleFunc("GET /swagger/doc.json", serveSwagger)
	}

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.http.address"),
		Handler:           mux,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}
}

func (a *App) health(r *router.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := a.dbConn.Ping(ctx); err != nil {
		slog.WarnContext(ctx, "health check failed", "name", "Database", "error", err)
		return nil, goerror.NewBusiness("database unavailable", goerror.CodeUnavailable)
	}
	if err := a.cacheConn.Ping(ctx).Err(); err != nil {
		slog.WarnContext(ctx, "health check failed", "name", "Redis", "error", err)
		return nil, goerror.NewBusiness("redis unavailable", goerror.CodeUnavailable)
	}

	return map[string]any{"status": "ok", "delivery_queue": a.notification.Stats()}, nil
}

func serveSwagger(w http.ResponseWriter, _ *http.Request) {
	doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	if err != nil {
		http.Error(w, "swagger document unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	//nolint:errcheck // best effort
	io.WriteString(w, doc)
}

// initClosers lists shutdown steps in order: the module drains its delivery
// queue before the broker and stores it writes to go away, and telemetry
// flushes last so their errors are exported.
func (a *App) initClosers() {
	withoutCtx := func(fn func() error) func(context.Context) error {
		return func(context.Context) error { return fn() }
	}

	a.closers = []closer{
		{"Notification", a.notification.Close},
		{"Messaging", withoutCtx(a.messaging.Close)},
		{"Redis", withoutCtx(a.cacheConn.Close)},
		{"Database", withoutCtx(func() error { a.dbConn.Close(); return nil })},
		{"Storage", withoutCtx(a.storage.Close)},
		{"Instrument", a.ins.Shutdown},
		{"Config", withoutCtx(a.config.Close)},
	}
}
