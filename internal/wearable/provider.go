package wearable

import (
	"fmt"
	"strings"
)

// Provider identifies a third-party wearable or media integration.
type Provider string

const (
	Fitbit  Provider = "fitbit"
	Oura    Provider = "oura"
	Whoop   Provider = "whoop"
	Strava  Provider = "strava"
	Spotify Provider = "spotify"
)

var AllProviders = []Provider{Fitbit, Oura, Whoop, Strava, Spotify}

func (p Provider) String() string {
	return string(p)
}

func (p Provider) Valid() bool {
	_, ok := metricTables[p]
	return ok
}

func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, s)
	}
	return p, nil
}

// MetricKind is a logical metric a provider exposes, one table per (provider, kind).
type MetricKind string

const (
	KindActivity  MetricKind = "activity"
	KindSleep     MetricKind = "sleep"
	KindHeartRate MetricKind = "heart_rate"
	KindReadiness MetricKind = "readiness"
	KindRecovery  MetricKind = "recovery"
	KindWorkout   MetricKind = "workout"
	KindListening MetricKind = "listening"
)

type metricTable struct {
	kind  MetricKind
	table string
}

// ordered per provider, the order is kept in query results and logs
var metricTables = map[Provider][]metricTable{
	Fitbit: {
		{KindActivity, "fitbit_daily_activity"},
		{KindSleep, "fitbit_sleep"},
		{KindHeartRate, "fitbit_heart_rate"},
	},
	Oura: {
		{KindActivity, "oura_daily_activity"},
		{KindSleep, "oura_sleep"},
		{KindReadiness, "oura_readiness"},
	},
	Whoop: {
		{KindRecovery, "whoop_recovery"},
		{KindSleep, "whoop_sleep"},
		{KindWorkout, "whoop_workouts"},
	},
	Strava: {
		{KindActivity, "strava_daily_activity"},
	},
	Spotify: {
		{KindListening, "spotify_daily_listening"},
	},
}

// Kinds returns the metric kinds stored for the provider.
func Kinds(p Provider) []MetricKind {
	tables := metricTables[p]
	kinds := make([]MetricKind, 0, len(tables))
	for _, t := range tables {
		kinds = append(kinds, t.kind)
	}
	return kinds
}

// TableFor resolves the metric table name. Only names from this whitelist
// ever reach SQL text.
func TableFor(p Provider, kind MetricKind) (string, bool) {
	for _, t := range metricTables[p] {
		if t.kind == kind {
			return t.table, true
		}
	}
	return "", false
}
