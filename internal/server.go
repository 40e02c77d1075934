package internal

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/wearsync/internal/middleware"
	"github.com/2beens/wearsync/internal/wearable"
	"github.com/2beens/wearsync/internal/wearable/api"

	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	syncAllSecretHash string // guards the sync-all routes, called by the scheduler

	stack   *Stack
	handler *api.Handler
}

type NewServerParams struct {
	Stack             *Stack
	SyncAllSecretHash string
}

func NewServer(params NewServerParams) *Server {
	s := &Server{
		stack:             params.Stack,
		syncAllSecretHash: params.SyncAllSecretHash,
	}

	integrations := make(map[wearable.Provider]api.Integration, len(s.stack.Integrations))
	for provider, entry := range s.stack.Integrations {
		integrations[provider] = api.Integration{
			Syncer:  entry.Orchestrator,
			Revoker: entry.Refresher,
		}
	}

	s.handler = api.NewHandler(api.HandlerParams{
		Integrations: integrations,
		Connections:  s.stack.Connections,
		Query:        s.stack.Query,
		DefaultDays:  s.stack.Config.DefaultLookbackDays,
		HealthChecks: []api.HealthCheck{
			{Name: "postgres", Check: s.stack.DBPool.Ping},
			{Name: "redis", Check: func(ctx context.Context) error {
				return s.stack.Redis.Ping(ctx).Err()
			}},
		},
	})

	return s
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("wearsync-router"))

	s.handler.SetupRoutes(r, api.RouteParams{
		RateLimiter:       redis_rate.NewLimiter(s.stack.Redis),
		SyncPerMinute:     s.stack.Config.SyncRateLimitAllowedMin,
		SyncAllSecretHash: s.syncAllSecretHash,
		Metrics:           s.stack.MetricsManager,
	})

	// all the rest - unhandled paths
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	r.Use(middleware.PanicRecovery(s.stack.MetricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.stack.MetricsManager))
	r.Use(middleware.Cors())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: 3 * time.Minute, // a sync-all can take a while
		ReadTimeout:  time.Minute,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.stack.PromRegistry,
		promhttp.HandlerFor(s.stack.PromRegistry, promhttp.HandlerOpts{}),
	))
	metricsAddr := net.JoinHostPort(s.stack.Config.PrometheusMetricsHost, s.stack.Config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.stack.MetricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")
	s.stack.MetricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown http server")
	}
	log.Warnln("server shut down")

	if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown metrics http server")
	}
	log.Warnln("metrics server shut down")

	// initial syncs of fresh connections still hold db and redis
	s.handler.WaitBackground()

	s.stack.Close()
}
