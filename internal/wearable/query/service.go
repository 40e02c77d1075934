package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/wearsync/internal/telemetry/metrics"
	"github.com/2beens/wearsync/internal/telemetry/tracing"
	"github.com/2beens/wearsync/internal/wearable"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

const (
	MinDays     = 1
	MaxDays     = 31
	DefaultDays = 7

	megabyte = 1024 * 1024
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=query_test

type connectionGetter interface {
	GetActive(ctx context.Context, userID string, provider wearable.Provider) (*wearable.Connection, error)
}

type recordReader interface {
	Recent(ctx context.Context, provider wearable.Provider, kind wearable.MetricKind, userID string, since time.Time) ([]json.RawMessage, error)
}

// Result is what the presentation layer gets for one provider.
type Result struct {
	Connected   bool                                      `json:"connected"`
	LastSync    *time.Time                                `json:"last_sync,omitempty"`
	ConnectedAt *time.Time                                `json:"connected_at,omitempty"`
	DisplayName string                                    `json:"display_name,omitempty"`
	Records     map[wearable.MetricKind][]json.RawMessage `json:"records,omitempty"`
}

// Service reads the normalized metrics back. Connected results are cached
// for a short TTL; syncs and disconnects invalidate them.
type Service struct {
	connections connectionGetter
	records     recordReader
	cache       *freecache.Cache
	cacheTTL    time.Duration
	defaultLoc  *time.Location
	defaultDays int
	now         func() time.Time
	metrics     *metrics.Manager
}

type ServiceParams struct {
	Connections connectionGetter
	Records     recordReader
	CacheTTL    time.Duration
	CacheSizeMB int
	DefaultLoc  *time.Location
	DefaultDays int
	Now         func() time.Time
	Metrics     *metrics.Manager
}

func NewService(params ServiceParams) *Service {
	if params.CacheSizeMB <= 0 {
		params.CacheSizeMB = 16
	}
	if params.DefaultLoc == nil {
		params.DefaultLoc = time.UTC
	}
	if params.DefaultDays <= 0 {
		params.DefaultDays = DefaultDays
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	if params.Metrics == nil {
		params.Metrics = metrics.NewTestManager()
	}

	return &Service{
		connections: params.Connections,
		records:     params.Records,
		cache:       freecache.NewCache(params.CacheSizeMB * megabyte),
		cacheTTL:    params.CacheTTL,
		defaultLoc:  params.DefaultLoc,
		defaultDays: ClampDays(params.DefaultDays),
		now:         params.Now,
		metrics:     params.Metrics,
	}
}

// ClampDays keeps a requested lookback within [MinDays, MaxDays].
func ClampDays(days int) int {
	switch {
	case days < MinDays:
		return MinDays
	case days > MaxDays:
		return MaxDays
	default:
		return days
	}
}

func (s *Service) DefaultDays() int {
	return s.defaultDays
}

func cacheKey(provider wearable.Provider, userID string, days int) []byte {
	return []byte(fmt.Sprintf("%s:%s:%d", provider, userID, days))
}

// GetRecentMetrics returns the last days of every metric kind the provider
// stores, or a not-connected result.
func (s *Service) GetRecentMetrics(ctx context.Context, userID string, provider wearable.Provider, days int) (_ *Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "query.service.getRecentMetrics")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	days = ClampDays(days)
	span.SetAttributes(
		attribute.String("provider", provider.String()),
		attribute.Int("days", days),
	)

	key := cacheKey(provider, userID, days)
	if s.cacheTTL > 0 {
		if cached, err := s.cache.Get(key); err == nil {
			result := &Result{}
			if err := json.Unmarshal(cached, result); err == nil {
				s.metrics.CounterQueryCache.WithLabelValues("hit").Inc()
				return result, nil
			}
			log.Errorf("unmarshal cached %s metrics for %s: %s", provider, userID, err)
		}
		s.metrics.CounterQueryCache.WithLabelValues("miss").Inc()
	}

	conn, err := s.connections.GetActive(ctx, userID, provider)
	if err != nil {
		if errors.Is(err, wearable.ErrNoActiveConnection) {
			return &Result{Connected: false}, nil
		}
		return nil, fmt.Errorf("load connection: %w", err)
	}

	window := wearable.NewWindow(s.now(), conn.Location(s.defaultLoc), days)
	since := window.Today().AddDate(0, 0, -(days - 1))

	kinds := wearable.Kinds(provider)
	rows := make([][]json.RawMessage, len(kinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		g.Go(func() error {
			recs, err := s.records.Recent(gctx, provider, kind, userID, since)
			if err != nil {
				return fmt.Errorf("read %s: %w", kind, err)
			}
			rows[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{
		Connected:   true,
		LastSync:    conn.LastSyncAt,
		DisplayName: conn.DisplayName,
		Records:     make(map[wearable.MetricKind][]json.RawMessage, len(kinds)),
	}
	if !conn.ConnectedAt.IsZero() {
		connectedAt := conn.ConnectedAt
		result.ConnectedAt = &connectedAt
	}
	for i, kind := range kinds {
		if rows[i] == nil {
			rows[i] = []json.RawMessage{}
		}
		result.Records[kind] = rows[i]
	}

	// freecache treats a zero expiry as "never", so sub-second TTLs round up
	if s.cacheTTL > 0 {
		if raw, err := json.Marshal(result); err != nil {
			log.Errorf("marshal %s metrics for cache: %s", provider, err)
		} else if err := s.cache.Set(key, raw, max(1, int(s.cacheTTL.Seconds()))); err != nil {
			log.Errorf("cache %s metrics for %s: %s", provider, userID, err)
		}
	}

	return result, nil
}

// Invalidate drops every cached lookback of the user's provider data.
func (s *Service) Invalidate(provider wearable.Provider, userID string) {
	for days := MinDays; days <= MaxDays; days++ {
		s.cache.Del(cacheKey(provider, userID, days))
	}
}
