package oura

import (
	"context"
	"net/url"
	"time"

	"github.com/2beens/wearsync/internal/telemetry/tracing"
	"github.com/2beens/wearsync/internal/wearable"
	"github.com/2beens/wearsync/internal/wearable/providers"

	"golang.org/x/sync/errgroup"
)

const DefaultBaseURL = "https://api.ouraring.com"

const longSleep = "long_sleep"

// Adapter pulls the daily activity, sleep and readiness summaries of the
// user's local day.
type Adapter struct {
	api *providers.APIClient
}

func NewAdapter(api *providers.APIClient) *Adapter {
	return &Adapter{api: api}
}

func (a *Adapter) Provider() wearable.Provider {
	return wearable.Oura
}

type Payload struct {
	Activity    wearable.Optional[Collection[DailyActivity]]
	DailySleep  wearable.Optional[Collection[DailySleep]]
	SleepDetail wearable.Optional[Collection[SleepPeriod]]
	Readiness   wearable.Optional[Collection[DailyReadiness]]
}

// Presence reports the daily sleep summary as the sleep metric. The detailed
// periods only enrich it.
func (p Payload) Presence() map[wearable.MetricKind]bool {
	return map[wearable.MetricKind]bool{
		wearable.KindActivity:  p.Activity.IsPresent(),
		wearable.KindSleep:     p.DailySleep.IsPresent(),
		wearable.KindReadiness: p.Readiness.IsPresent(),
	}
}

func (a *Adapter) FetchMetrics(ctx context.Context, accessToken string, window wearable.Window) Payload {
	ctx, span := tracing.GlobalTracer.Start(ctx, "providers.oura.fetchMetrics")
	defer span.End()

	day := wearable.FormatDay(window.Today())
	query := url.Values{
		"start_date": {day},
		"end_date":   {day},
	}

	var (
		payload Payload
		g       errgroup.Group
	)
	g.Go(func() error {
		payload.Activity = providers.FetchJSON[Collection[DailyActivity]](ctx, a.api, wearable.KindActivity,
			"/v2/usercollection/daily_activity", query, accessToken)
		return nil
	})
	g.Go(func() error {
		payload.DailySleep = providers.FetchJSON[Collection[DailySleep]](ctx, a.api, wearable.KindSleep,
			"/v2/usercollection/daily_sleep", query, accessToken)
		return nil
	})
	g.Go(func() error {
		payload.SleepDetail = providers.FetchJSON[Collection[SleepPeriod]](ctx, a.api, wearable.KindSleep,
			"/v2/usercollection/sleep", query, accessToken)
		return nil
	})
	g.Go(func() error {
		payload.Readiness = providers.FetchJSON[Collection[DailyReadiness]](ctx, a.api, wearable.KindReadiness,
			"/v2/usercollection/daily_readiness", query, accessToken)
		return nil
	})
	_ = g.Wait()

	return payload
}

func (a *Adapter) Normalize(userID string, window wearable.Window, payload Payload) []wearable.MetricRecord {
	day := wearable.FormatDay(window.Today())
	var recs []wearable.MetricRecord

	if coll, ok := payload.Activity.Get(); ok {
		if act, ok := forDay(coll.Data, day, func(a DailyActivity) string { return a.Day }); ok {
			rec := wearable.NewRecord(userID, wearable.Oura, wearable.KindActivity, dateOf(act.Day, window))
			rec.Set("activity_score", providers.RoundedIntOrNil(act.Score)).
				Set("steps", providers.IntOrNil(act.Steps)).
				Set("active_calories", providers.IntOrNil(act.ActiveCalories)).
				Set("total_calories", providers.IntOrNil(act.TotalCalories)).
				Set("distance_meters", providers.FloatOrNil(act.EquivalentWalkingDistance)).
				Set("active_minutes", providers.SecondsToMinutesOrNil(act.HighActivityTime)).
				Set("low_minutes", providers.SecondsToMinutesOrNil(act.LowActivityTime)).
				Set("medium_minutes", providers.SecondsToMinutesOrNil(act.MediumActivityTime)).
				Set("high_minutes", providers.SecondsToMinutesOrNil(act.HighActivityTime))
			recs = append(recs, rec)
		}
	}

	if coll, ok := payload.DailySleep.Get(); ok {
		if sl, ok := forDay(coll.Data, day, func(s DailySleep) string { return s.Day }); ok {
			detail := pickSleepPeriod(payload.SleepDetail.OrZero().Data)
			rec := wearable.NewRecord(userID, wearable.Oura, wearable.KindSleep, dateOf(sl.Day, window))
			rec.Set("sleep_score", providers.RoundedIntOrNil(sl.Score)).
				Set("total_sleep_minutes", providers.SecondsToMinutesOrNil(detail.TotalSleepDuration)).
				Set("deep_minutes", providers.SecondsToMinutesOrNil(detail.DeepSleepDuration)).
				Set("light_minutes", providers.SecondsToMinutesOrNil(detail.LightSleepDuration)).
				Set("rem_minutes", providers.SecondsToMinutesOrNil(detail.RemSleepDuration)).
				Set("wake_minutes", providers.SecondsToMinutesOrNil(detail.AwakeTime)).
				Set("efficiency", providers.IntOrNil(detail.Efficiency)).
				Set("lowest_heart_rate", providers.IntOrNil(detail.LowestHeartRate)).
				Set("average_hrv", providers.FloatOrNil(detail.AverageHRV)).
				Set("time_in_bed_minutes", providers.SecondsToMinutesOrNil(detail.TimeInBed))
			recs = append(recs, rec)
		}
	}

	if coll, ok := payload.Readiness.Get(); ok {
		if r, ok := forDay(coll.Data, day, func(r DailyReadiness) string { return r.Day }); ok {
			c := r.Contributors
			if c == nil {
				c = &ReadinessContributor{}
			}
			rec := wearable.NewRecord(userID, wearable.Oura, wearable.KindReadiness, dateOf(r.Day, window))
			rec.Set("readiness_score", providers.RoundedIntOrNil(r.Score)).
				Set("temperature_deviation", providers.FloatOrNil(r.TemperatureDeviation)).
				Set("activity_balance", providers.IntOrNil(c.ActivityBalance)).
				Set("body_temperature", providers.IntOrNil(c.BodyTemperature)).
				Set("hrv_balance", providers.IntOrNil(c.HRVBalance)).
				Set("recovery_index", providers.IntOrNil(c.RecoveryIndex)).
				Set("resting_heart_rate", providers.IntOrNil(c.RestingHeartRate))
			recs = append(recs, rec)
		}
	}

	return recs
}

// pickSleepPeriod prefers the main (long) sleep over naps.
func pickSleepPeriod(periods []SleepPeriod) SleepPeriod {
	for _, p := range periods {
		if p.Type == longSleep {
			return p
		}
	}
	if len(periods) > 0 {
		return periods[0]
	}
	return SleepPeriod{}
}

func dateOf(day string, window wearable.Window) time.Time {
	if d, err := wearable.ParseDay(day); err == nil {
		return d
	}
	return window.Today()
}
