package internal

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/2beens/wearsync/internal/config"
	"github.com/2beens/wearsync/internal/crypto"
	"github.com/2beens/wearsync/internal/db"
	"github.com/2beens/wearsync/internal/telemetry/metrics"
	"github.com/2beens/wearsync/internal/telemetry/tracing"
	"github.com/2beens/wearsync/internal/wearable"
	"github.com/2beens/wearsync/internal/wearable/query"
	"github.com/2beens/wearsync/internal/wearable/records"
	"github.com/2beens/wearsync/internal/wearable/registry"
	"github.com/2beens/wearsync/internal/wearable/syncer"
	"github.com/2beens/wearsync/internal/wearable/tokens"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Stack is the dependency graph shared by the HTTP service and the batch
// command: datastores, telemetry and one integration per configured provider.
type Stack struct {
	Config       *config.Config
	DBPool       *pgxpool.Pool
	Redis        *redis.Client
	Connections  *tokens.Repo
	Records      *records.Repo
	Query        *query.Service
	Integrations map[wearable.Provider]registry.Entry

	MetricsManager *metrics.Manager
	PromRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewStackParams struct {
	Config                  *config.Config
	ServiceName             string
	Credentials             map[wearable.Provider]tokens.Credentials
	PostgresPassword        string
	RedisPassword           string
	TokenKey                string
	HoneycombTracingEnabled bool
	// SkipMigrations is set by short-lived commands that run against an already migrated schema.
	SkipMigrations bool
}

func NewStack(ctx context.Context, params NewStackParams) (*Stack, error) {
	cfg := params.Config

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         cfg.PostgresUser,
		DBPassword:     params.PostgresPassword,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}
	if err := dbPool.Ping(ctx); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if !params.SkipMigrations {
		if err := db.Migrate(ctx, dbPool); err != nil {
			dbPool.Close()
			return nil, fmt.Errorf("migrate db: %w", err)
		}
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": cfg.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("wearsync", params.ServiceName, promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})
	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, params.ServiceName, rdb)
	if err != nil {
		dbPool.Close()
		_ = rdb.Close()
		return nil, err
	}

	sealer, err := crypto.NewSealer(params.TokenKey)
	if err != nil {
		dbPool.Close()
		_ = rdb.Close()
		otelShutdown()
		return nil, fmt.Errorf("token sealer: %w", err)
	}
	if _, noop := sealer.(crypto.NoopSealer); noop {
		log.Warnln("token key not set, tokens are stored unsealed")
	}

	connections := tokens.NewRepo(dbPool, sealer)
	recordsRepo := records.NewRepo(dbPool)
	queryService := query.NewService(query.ServiceParams{
		Connections: connections,
		Records:     recordsRepo,
		CacheTTL:    cfg.QueryCacheTTL.Duration,
		CacheSizeMB: cfg.QueryCacheSizeMB,
		DefaultLoc:  cfg.DefaultLocation(),
		DefaultDays: cfg.DefaultLookbackDays,
		Metrics:     metricsManager,
	})

	integrations := registry.Build(registry.Params{
		Config:      cfg,
		Credentials: params.Credentials,
		Connections: connections,
		Records:     recordsRepo,
		Locker:      syncer.NewRedisLocker(rdb, cfg.SyncLockTTL.Duration),
		Query:       queryService,
		Transport:   otelhttp.NewTransport(http.DefaultTransport),
		Metrics:     metricsManager,
	})
	if len(integrations) == 0 {
		log.Errorln("no provider credentials set, every integration is disabled")
	}

	return &Stack{
		Config:         cfg,
		DBPool:         dbPool,
		Redis:          rdb,
		Connections:    connections,
		Records:        recordsRepo,
		Query:          queryService,
		Integrations:   integrations,
		MetricsManager: metricsManager,
		PromRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

// Close releases the datastores and flushes telemetry.
func (s *Stack) Close() {
	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.DBPool != nil {
		log.Debugln("closing db pool ...")
		s.DBPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}
