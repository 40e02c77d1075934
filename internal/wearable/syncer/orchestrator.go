package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/2beens/wearsync/internal/telemetry/metrics"
	"github.com/2beens/wearsync/internal/telemetry/tracing"
	"github.com/2beens/wearsync/internal/wearable"
	"github.com/2beens/wearsync/internal/wearable/providers"
	"github.com/2beens/wearsync/internal/wearable/tokens"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

const (
	MetricSynced = "synced"
	MetricFailed = "failed"

	msgNoActiveConnections = "No active connections"
	defaultConcurrency     = 4
)

//go:generate mockgen -source=$GOFILE -destination=orchestrator_mocks_test.go -package=syncer_test

type connectionStore interface {
	GetActive(ctx context.Context, userID string, provider wearable.Provider) (*wearable.Connection, error)
	ListActiveUserIDs(ctx context.Context, provider wearable.Provider) ([]string, error)
	MarkSynced(ctx context.Context, userID string, provider wearable.Provider, at time.Time) error
	MarkFailed(ctx context.Context, userID string, provider wearable.Provider, message string) error
}

type recordStore interface {
	Upsert(ctx context.Context, recs []wearable.MetricRecord, syncedAt time.Time) error
}

type tokenRefresher interface {
	EnsureValidToken(ctx context.Context, conn *wearable.Connection) (string, error)
}

type locker interface {
	Acquire(ctx context.Context, provider wearable.Provider, userID string) (ReleaseFunc, error)
}

type cacheInvalidator interface {
	Invalidate(provider wearable.Provider, userID string)
}

// Result is the outcome of one user sync, as returned to API callers.
type Result struct {
	Success       bool                           `json:"success"`
	Provider      wearable.Provider              `json:"provider"`
	SyncID        string                         `json:"sync_id,omitempty"`
	Error         string                         `json:"error,omitempty"`
	Reconnect     bool                           `json:"reconnect,omitempty"`
	RecordsSynced int                            `json:"records_synced"`
	DatesSynced   int                            `json:"dates_synced"`
	Metrics       map[wearable.MetricKind]string `json:"metrics,omitempty"`
	SyncedAt      *time.Time                     `json:"synced_at,omitempty"`
}

// BatchResult aggregates a sync-all run.
type BatchResult struct {
	Message string `json:"message,omitempty"`
	Synced  int    `json:"synced"`
	Failed  int    `json:"failed"`
	Total   int    `json:"total"`
}

// Orchestrator runs syncs for one provider:
// load connection, refresh token, fetch in parallel, normalize, persist.
type Orchestrator struct {
	provider     wearable.Provider
	source       providers.Source
	refresher    tokenRefresher
	connections  connectionStore
	records      recordStore
	locker       locker
	cache        cacheInvalidator
	defaultLoc   *time.Location
	lookbackDays int
	concurrency  int
	now          func() time.Time
	metrics      *metrics.Manager
}

type OrchestratorParams struct {
	Source       providers.Source
	Refresher    tokenRefresher
	Connections  connectionStore
	Records      recordStore
	Locker       locker
	Cache        cacheInvalidator
	DefaultLoc   *time.Location
	LookbackDays int
	Concurrency  int
	Now          func() time.Time
	Metrics      *metrics.Manager
}

func NewOrchestrator(params OrchestratorParams) *Orchestrator {
	if params.Locker == nil {
		params.Locker = noopLocker{}
	}
	if params.DefaultLoc == nil {
		params.DefaultLoc = time.UTC
	}
	if params.Concurrency <= 0 {
		params.Concurrency = defaultConcurrency
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	if params.Metrics == nil {
		params.Metrics = metrics.NewTestManager()
	}

	return &Orchestrator{
		provider:     params.Source.Provider(),
		source:       params.Source,
		refresher:    params.Refresher,
		connections:  params.Connections,
		records:      params.Records,
		locker:       params.Locker,
		cache:        params.Cache,
		defaultLoc:   params.DefaultLoc,
		lookbackDays: params.LookbackDays,
		concurrency:  params.Concurrency,
		now:          params.Now,
		metrics:      params.Metrics,
	}
}

func (o *Orchestrator) Provider() wearable.Provider {
	return o.provider
}

// SyncUser syncs one user. A missing connection is reported in the result
// with a nil error; every other terminal failure also returns an error.
func (o *Orchestrator) SyncUser(ctx context.Context, userID string) (_ Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "syncer.orchestrator.syncUser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	syncID := uuid.NewString()
	span.SetAttributes(
		attribute.String("provider", o.provider.String()),
		attribute.String("sync_id", syncID),
	)
	logger := log.WithFields(log.Fields{
		"provider": o.provider,
		"user_id":  userID,
		"sync_id":  syncID,
	})

	start := o.now()
	defer func() {
		o.metrics.HistSyncDuration.WithLabelValues(o.provider.String()).Observe(o.now().Sub(start).Seconds())
	}()

	result := Result{Provider: o.provider, SyncID: syncID}

	release, err := o.locker.Acquire(ctx, o.provider, userID)
	if err != nil {
		if errors.Is(err, ErrSyncInProgress) {
			o.countSync(metrics.OutcomeInProcess)
			result.Error = ErrSyncInProgress.Error()
			return result, err
		}
		// fails open, like the request rate limiter
		logger.Warnf("acquire sync lock, continuing without it: %s", err)
		release = func(context.Context) error { return nil }
	}
	defer func() {
		// the request context may be gone by now, the lock still has to go
		if relErr := release(context.WithoutCancel(ctx)); relErr != nil {
			logger.Warnf("release sync lock: %s", relErr)
		}
	}()

	conn, err := o.connections.GetActive(ctx, userID, o.provider)
	if err != nil {
		if errors.Is(err, wearable.ErrNoActiveConnection) {
			o.countSync(metrics.OutcomeNoConn)
			result.Error = wearable.ErrNoActiveConnection.Error()
			return result, nil
		}
		o.countSync(metrics.OutcomeFailed)
		result.Error = "failed to load connection"
		return result, fmt.Errorf("load connection: %w", err)
	}

	accessToken, err := o.refresher.EnsureValidToken(ctx, conn)
	if err != nil {
		result.Error = err.Error()
		if errors.Is(err, tokens.ErrTokenRevoked) {
			o.countSync(metrics.OutcomeRevoked)
			result.Error = tokens.ErrTokenRevoked.Error()
			result.Reconnect = true
			// inactive now, drop cached connected results
			if o.cache != nil {
				o.cache.Invalidate(o.provider, userID)
			}
			logger.Infof("authorization revoked, connection deactivated")
			return result, err
		}
		o.countSync(metrics.OutcomeFailed)
		logger.Errorf("token refresh failed: %s", err)
		return result, multierr.Append(err, o.markFailed(ctx, userID, err.Error()))
	}

	window := wearable.NewWindow(o.now(), conn.Location(o.defaultLoc), o.lookbackDays)
	pulled := o.source.Pull(ctx, userID, accessToken, window)

	result.Metrics = make(map[wearable.MetricKind]string, len(pulled.Presence))
	for kind, ok := range pulled.Presence {
		if ok {
			result.Metrics[kind] = MetricSynced
		} else {
			result.Metrics[kind] = MetricFailed
		}
	}

	if !pulled.AnyFetched() {
		o.countSync(metrics.OutcomeFailed)
		result.Error = ErrNothingFetched.Error()
		logger.Warnln("no metric could be fetched")
		return result, multierr.Append(ErrNothingFetched, o.markFailed(ctx, userID, ErrNothingFetched.Error()))
	}

	syncedAt := o.now()
	if err := o.records.Upsert(ctx, pulled.Records, syncedAt); err != nil {
		o.countSync(metrics.OutcomeFailed)
		result.Error = "failed to store synced data"
		logger.Errorf("persist records: %s", err)
		return result, multierr.Append(
			fmt.Errorf("persist records: %w", err),
			o.markFailed(ctx, userID, fmt.Sprintf("persist records: %s", err)),
		)
	}

	for _, rec := range pulled.Records {
		o.metrics.CounterRecordsUpserted.WithLabelValues(o.provider.String(), string(rec.Kind)).Inc()
	}

	if err := o.connections.MarkSynced(ctx, userID, o.provider, syncedAt); err != nil {
		// the data is stored, a stale last_sync_at is not worth failing the sync
		logger.Errorf("mark synced: %s", err)
	}
	if o.cache != nil {
		o.cache.Invalidate(o.provider, userID)
	}

	o.countSync(metrics.OutcomeSuccess)
	result.Success = true
	result.RecordsSynced = len(pulled.Records)
	result.DatesSynced = wearable.DistinctDays(pulled.Records)
	result.SyncedAt = &syncedAt

	logger.WithFields(log.Fields{
		"records": result.RecordsSynced,
		"dates":   result.DatesSynced,
	}).Infoln("sync done")

	return result, nil
}

func (o *Orchestrator) markFailed(ctx context.Context, userID, message string) error {
	if err := o.connections.MarkFailed(ctx, userID, o.provider, message); err != nil {
		return fmt.Errorf("mark failed: %w", err)
	}
	return nil
}

func (o *Orchestrator) countSync(outcome string) {
	o.metrics.CounterSyncs.WithLabelValues(o.provider.String(), outcome).Inc()
}

// SyncAll syncs every user with an active connection, at most concurrency at
// a time. It never fails as a whole: per-user errors and panics count as
// failed users.
func (o *Orchestrator) SyncAll(ctx context.Context) (_ BatchResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "syncer.orchestrator.syncAll")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("provider", o.provider.String()))

	start := o.now()
	defer func() {
		o.metrics.HistBatchDuration.WithLabelValues(o.provider.String()).Observe(o.now().Sub(start).Seconds())
	}()

	userIDs, err := o.connections.ListActiveUserIDs(ctx, o.provider)
	if err != nil {
		return BatchResult{}, fmt.Errorf("list active connections: %w", err)
	}
	if len(userIDs) == 0 {
		return BatchResult{Message: msgNoActiveConnections}, nil
	}

	var synced, failed atomic.Int64
	g := errgroup.Group{}
	g.SetLimit(o.concurrency)
	for _, userID := range userIDs {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					failed.Add(1)
					log.WithFields(log.Fields{
						"provider": o.provider,
						"user_id":  userID,
					}).Errorf("sync panic: %v", r)
				}
			}()

			res, err := o.SyncUser(ctx, userID)
			if err != nil || !res.Success {
				failed.Add(1)
				return nil
			}
			synced.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	result := BatchResult{
		Synced: int(synced.Load()),
		Failed: int(failed.Load()),
		Total:  len(userIDs),
	}
	log.WithFields(log.Fields{
		"provider": o.provider,
		"synced":   result.Synced,
		"failed":   result.Failed,
		"total":    result.Total,
	}).Infoln("sync-all done")

	return result, nil
}
