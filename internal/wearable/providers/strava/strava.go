package strava

import (
	"context"
	"math"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/2beens/wearsync/internal/telemetry/tracing"
	"github.com/2beens/wearsync/internal/wearable"
	"github.com/2beens/wearsync/internal/wearable/providers"
)

const (
	DefaultBaseURL = "https://www.strava.com/api/v3"
	pageSize       = 30
)

// Adapter pulls the athlete activity feed of the lookback window and folds
// it into one row per local day.
type Adapter struct {
	api *providers.APIClient
}

func NewAdapter(api *providers.APIClient) *Adapter {
	return &Adapter{api: api}
}

func (a *Adapter) Provider() wearable.Provider {
	return wearable.Strava
}

type Payload struct {
	Activities wearable.Optional[[]SummaryActivity]
}

func (p Payload) Presence() map[wearable.MetricKind]bool {
	return map[wearable.MetricKind]bool{
		wearable.KindActivity: p.Activities.IsPresent(),
	}
}

func (a *Adapter) FetchMetrics(ctx context.Context, accessToken string, window wearable.Window) Payload {
	ctx, span := tracing.GlobalTracer.Start(ctx, "providers.strava.fetchMetrics")
	defer span.End()

	query := url.Values{
		"after":    {strconv.FormatInt(window.Since().Unix(), 10)},
		"per_page": {strconv.Itoa(pageSize)},
	}
	return Payload{
		Activities: providers.FetchJSON[[]SummaryActivity](ctx, a.api, wearable.KindActivity,
			"/athlete/activities", query, accessToken),
	}
}

type dailyTotals struct {
	date       time.Time
	count      int
	distance   float64
	moving     float64
	elapsed    float64
	elevation  float64
	calories   *float64
	hrSum      float64
	hrSamples  int
	maxHR      *float64
	sportTypes []string
	entries    []ActivityEntry
}

func (a *Adapter) Normalize(userID string, window wearable.Window, payload Payload) []wearable.MetricRecord {
	activities, ok := payload.Activities.Get()
	if !ok || len(activities) == 0 {
		return nil
	}

	days := map[string]*dailyTotals{}
	for _, act := range activities {
		date := activityDay(act, window)
		key := wearable.FormatDay(date)
		d, ok := days[key]
		if !ok {
			d = &dailyTotals{date: date}
			days[key] = d
		}
		d.add(act)
	}

	keys := make([]string, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	recs := make([]wearable.MetricRecord, 0, len(keys))
	for _, k := range keys {
		d := days[k]
		var avgHR any
		if d.hrSamples > 0 {
			avgHR = int(math.Round(d.hrSum / float64(d.hrSamples)))
		}
		rec := wearable.NewRecord(userID, wearable.Strava, wearable.KindActivity, d.date)
		rec.Set("activity_count", d.count).
			Set("distance_meters", d.distance).
			Set("moving_minutes", providers.SecondsToMinutes(d.moving)).
			Set("elapsed_minutes", providers.SecondsToMinutes(d.elapsed)).
			Set("elevation_gain_meters", d.elevation).
			Set("calories", providers.FloatOrNil(d.calories)).
			Set("avg_heart_rate", avgHR).
			Set("max_heart_rate", providers.RoundedIntOrNil(d.maxHR)).
			Set("sport_types", d.sportTypes).
			Set("activities", d.entries)
		recs = append(recs, rec)
	}
	return recs
}

// activityDay takes the calendar date from start_date_local, which Strava
// already renders in the athlete's zone (with a misleading Z suffix).
func activityDay(act SummaryActivity, window wearable.Window) time.Time {
	if len(act.StartDateLocal) >= 10 {
		if d, err := wearable.ParseDay(act.StartDateLocal[:10]); err == nil {
			return d
		}
	}
	if t, ok := providers.ParseTime(act.StartDate, time.UTC); ok {
		return window.Day(t)
	}
	return window.Today()
}

func (d *dailyTotals) add(act SummaryActivity) {
	d.count++
	d.distance += deref(act.Distance)
	d.moving += deref(act.MovingTime)
	d.elapsed += deref(act.ElapsedTime)
	d.elevation += deref(act.TotalElevationGain)

	calories := act.Calories
	if calories == nil && act.Kilojoules != nil {
		// cycling feeds report work only; 1 kJ of work is roughly 1 kcal burned
		kj := *act.Kilojoules
		calories = &kj
	}
	if calories != nil {
		total := deref(d.calories) + *calories
		d.calories = &total
	}

	if act.AverageHeartrate != nil {
		d.hrSum += *act.AverageHeartrate
		d.hrSamples++
	}
	if act.MaxHeartrate != nil && (d.maxHR == nil || *act.MaxHeartrate > *d.maxHR) {
		maxHR := *act.MaxHeartrate
		d.maxHR = &maxHR
	}

	sport := act.sport()
	seen := false
	for _, s := range d.sportTypes {
		if s == sport {
			seen = true
			break
		}
	}
	if !seen {
		d.sportTypes = append(d.sportTypes, sport)
	}

	d.entries = append(d.entries, ActivityEntry{
		ID:              act.ID,
		Name:            act.Name,
		SportType:       sport,
		StartTime:       act.StartDate,
		DistanceMeters:  deref(act.Distance),
		MovingMinutes:   providers.SecondsToMinutes(deref(act.MovingTime)),
		ElevationMeters: deref(act.TotalElevationGain),
		AvgHeartRate:    act.AverageHeartrate,
		MaxHeartRate:    act.MaxHeartrate,
		Calories:        calories,
	})
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
