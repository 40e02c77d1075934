package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess   = "success"
	OutcomeFailed    = "failed"
	OutcomeRevoked   = "revoked"
	OutcomeNoConn    = "no_connection"
	OutcomeNoop      = "noop"
	OutcomeInProcess = "in_progress"
)

type Manager struct {
	// counters
	CounterRequests            *prometheus.CounterVec
	CounterHandleRequestPanic  prometheus.Counter
	CounterRateLimitedRequests prometheus.Counter
	CounterSyncs               *prometheus.CounterVec
	CounterTokenRefreshes      *prometheus.CounterVec
	CounterFetchFailures       *prometheus.CounterVec
	CounterRecordsUpserted     *prometheus.CounterVec
	CounterQueryCache          *prometheus.CounterVec

	// gauges
	GaugeRequests   prometheus.Gauge
	GaugeLifeSignal prometheus.Gauge

	// histograms
	HistogramRequestDuration *prometheus.HistogramVec
	HistSyncDuration         *prometheus.HistogramVec
	HistBatchDuration        *prometheus.HistogramVec
	HistProviderCallDuration *prometheus.HistogramVec
}

func NewTestManager() *Manager {
	return NewManager("wearsync", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("wearsync", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})
	counterHandleRequestPanic := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "handle_request_panic",
		Help:      "The total number of serve request panics",
	})
	counterRateLimitedRequests := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "rate_limited_requests",
		Help:      "The total number of rate limited requests",
	})
	counterSyncs := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "syncs",
		Help:      "Per-user syncs by provider and outcome",
	}, []string{"provider", "outcome"})
	counterTokenRefreshes := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "token_refreshes",
		Help:      "Token refresh attempts by provider and outcome",
	}, []string{"provider", "outcome"})
	counterFetchFailures := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "fetch_failures",
		Help:      "Provider metric fetches that yielded no data",
	}, []string{"provider", "metric"})
	counterRecordsUpserted := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "records_upserted",
		Help:      "Normalized metric rows written",
	}, []string{"provider", "metric"})
	counterQueryCache := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "query_cache",
		Help:      "Query cache lookups by result (hit/miss)",
	}, []string{"result"})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "current_requests",
		Help:      "Current number of requests served",
	})
	gaugeLifeSignal := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "life_signal",
		Help:      "Shows whether the service is alive",
	})

	histogramRequestDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_duration_seconds",
		Help:      "Histogram of response time for requests in seconds",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"route", "method", "status_code"})
	histSyncDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sync_duration_seconds",
		Help:      "Duration of a single user sync in seconds",
		Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 15, 30, 60},
	}, []string{"provider"})
	histBatchDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sync_all_duration_seconds",
		Help:      "Duration of a sync-all batch in seconds",
		Buckets: []float64{
			1, 10, 30, 60, 120, 240, 480, 1000, 2000, 4000,
		},
	}, []string{"provider"})
	histProviderCallDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "provider_call_duration_seconds",
		Help:      "Duration of outbound provider API calls in seconds",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 15},
	}, []string{"provider", "status_code"})

	return &Manager{
		CounterRequests:            counterRequests,
		CounterHandleRequestPanic:  counterHandleRequestPanic,
		CounterRateLimitedRequests: counterRateLimitedRequests,
		CounterSyncs:               counterSyncs,
		CounterTokenRefreshes:      counterTokenRefreshes,
		CounterFetchFailures:       counterFetchFailures,
		CounterRecordsUpserted:     counterRecordsUpserted,
		CounterQueryCache:          counterQueryCache,
		GaugeRequests:              gaugeRequests,
		GaugeLifeSignal:            gaugeLifeSignal,
		HistogramRequestDuration:   histogramRequestDuration,
		HistSyncDuration:           histSyncDuration,
		HistBatchDuration:          histBatchDuration,
		HistProviderCallDuration:   histProviderCallDuration,
	}
}
