package providers

import (
	"context"

	"github.com/2beens/wearsync/internal/wearable"
)

// Payload is the typed result of one FetchMetrics call, reporting which
// metrics came back.
type Payload interface {
	Presence() map[wearable.MetricKind]bool
}

// Adapter is the per-vendor part of a sync: how to fetch the raw metrics and
// how to turn them into canonical records.
type Adapter[P Payload] interface {
	Provider() wearable.Provider
	FetchMetrics(ctx context.Context, accessToken string, window wearable.Window) P
	Normalize(userID string, window wearable.Window, payload P) []wearable.MetricRecord
}

// Pulled is what a Source hands to the orchestrator.
type Pulled struct {
	Records  []wearable.MetricRecord
	Presence map[wearable.MetricKind]bool
}

// AnyFetched reports whether at least one metric was fetched.
func (p Pulled) AnyFetched() bool {
	for _, ok := range p.Presence {
		if ok {
			return true
		}
	}
	return false
}

// Source is an Adapter with its payload type erased, so adapters of different
// vendors fit in one registry.
type Source interface {
	Provider() wearable.Provider
	Pull(ctx context.Context, userID, accessToken string, window wearable.Window) Pulled
}

func AsSource[P Payload](adapter Adapter[P]) Source {
	return &source[P]{adapter: adapter}
}

type source[P Payload] struct {
	adapter Adapter[P]
}

func (s *source[P]) Provider() wearable.Provider {
	return s.adapter.Provider()
}

func (s *source[P]) Pull(ctx context.Context, userID, accessToken string, window wearable.Window) Pulled {
	payload := s.adapter.FetchMetrics(ctx, accessToken, window)
	return Pulled{
		Records:  s.adapter.Normalize(userID, window, payload),
		Presence: payload.Presence(),
	}
}
