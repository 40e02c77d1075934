package whoop

import (
	"context"
	"fmt"
	"net/url"

	"github.com/2beens/wearsync/internal/telemetry/tracing"
	"github.com/2beens/wearsync/internal/wearable"
	"github.com/2beens/wearsync/internal/wearable/providers"

	"golang.org/x/sync/errgroup"
)

const DefaultBaseURL = "https://api.prod.whoop.com/developer"

var latestOnly = url.Values{"limit": {"1"}}

// Adapter pulls the latest cycle with its recovery, the latest sleep and the
// latest workout.
type Adapter struct {
	api *providers.APIClient
}

func NewAdapter(api *providers.APIClient) *Adapter {
	return &Adapter{api: api}
}

func (a *Adapter) Provider() wearable.Provider {
	return wearable.Whoop
}

type Payload struct {
	Cycle    wearable.Optional[Page[Cycle]]
	Recovery wearable.Optional[Recovery]
	Sleep    wearable.Optional[Page[Sleep]]
	Workout  wearable.Optional[Page[Workout]]
}

func (p Payload) Presence() map[wearable.MetricKind]bool {
	return map[wearable.MetricKind]bool{
		wearable.KindRecovery: p.Recovery.IsPresent(),
		wearable.KindSleep:    p.Sleep.IsPresent(),
		wearable.KindWorkout:  p.Workout.IsPresent(),
	}
}

func (a *Adapter) FetchMetrics(ctx context.Context, accessToken string, _ wearable.Window) Payload {
	ctx, span := tracing.GlobalTracer.Start(ctx, "providers.whoop.fetchMetrics")
	defer span.End()

	var (
		payload Payload
		g       errgroup.Group
	)
	g.Go(func() error {
		payload.Cycle = providers.FetchJSON[Page[Cycle]](ctx, a.api, wearable.KindRecovery,
			"/v1/cycle", latestOnly, accessToken)
		// recovery is addressed by cycle, so it waits for the cycle listing
		if cycle, ok := payload.Cycle.OrZero().latest(); ok {
			payload.Recovery = providers.FetchJSON[Recovery](ctx, a.api, wearable.KindRecovery,
				fmt.Sprintf("/v1/cycle/%d/recovery", cycle.ID), nil, accessToken)
		}
		return nil
	})
	g.Go(func() error {
		payload.Sleep = providers.FetchJSON[Page[Sleep]](ctx, a.api, wearable.KindSleep,
			"/v1/activity/sleep", latestOnly, accessToken)
		return nil
	})
	g.Go(func() error {
		payload.Workout = providers.FetchJSON[Page[Workout]](ctx, a.api, wearable.KindWorkout,
			"/v1/activity/workout", latestOnly, accessToken)
		return nil
	})
	_ = g.Wait()

	return payload
}

func (a *Adapter) Normalize(userID string, window wearable.Window, payload Payload) []wearable.MetricRecord {
	var recs []wearable.MetricRecord

	if recovery, ok := payload.Recovery.Get(); ok && recovery.ScoreState == scoreStateScored && recovery.Score != nil {
		s := recovery.Score
		rec := wearable.NewRecord(userID, wearable.Whoop, wearable.KindRecovery, window.Today())
		var strain any
		if cycle, ok := payload.Cycle.OrZero().latest(); ok && cycle.Score != nil {
			strain = providers.FloatOrNil(cycle.Score.Strain)
		}
		rec.Set("cycle_id", recovery.CycleID).
			Set("recovery_score", providers.RoundedIntOrNil(s.RecoveryScore)).
			Set("resting_heart_rate", providers.RoundedIntOrNil(s.RestingHeartRate)).
			Set("hrv_rmssd", providers.FloatOrNil(s.HRVRmssdMilli)).
			Set("spo2_percentage", providers.FloatOrNil(s.SpO2Percentage)).
			Set("skin_temp_celsius", providers.FloatOrNil(s.SkinTempCelsius)).
			Set("day_strain", strain)
		recs = append(recs, rec)
	}

	if page, ok := payload.Sleep.Get(); ok {
		if sleep, ok := page.latest(); ok {
			recs = append(recs, normalizeSleep(userID, window, sleep))
		}
	}

	if page, ok := payload.Workout.Get(); ok {
		if w, ok := page.latest(); ok && w.ScoreState == scoreStateScored && w.Score != nil {
			start, _ := providers.ParseTime(w.Start, window.Location)
			end, _ := providers.ParseTime(w.End, window.Location)
			date := window.Today()
			if !start.IsZero() {
				date = window.Day(start)
			}
			rec := wearable.NewRecord(userID, wearable.Whoop, wearable.KindWorkout, date)
			rec.Set("sport_id", providers.IntOrNil(w.SportID)).
				Set("strain", providers.FloatOrNil(w.Score.Strain)).
				Set("avg_heart_rate", providers.IntOrNil(w.Score.AverageHeartRate)).
				Set("max_heart_rate", providers.IntOrNil(w.Score.MaxHeartRate)).
				Set("kilojoules", providers.FloatOrNil(w.Score.Kilojoule)).
				Set("distance_meters", providers.FloatOrNil(w.Score.DistanceMeter)).
				Set("start_time", providers.TimeOrNil(start)).
				Set("end_time", providers.TimeOrNil(end))
			recs = append(recs, rec)
		}
	}

	return recs
}

// normalizeSleep dates the sleep by its local start. Duration comes from the
// start/end span, stage minutes from the score when WHOOP has scored it.
func normalizeSleep(userID string, window wearable.Window, sleep Sleep) wearable.MetricRecord {
	start, _ := providers.ParseTime(sleep.Start, window.Location)
	end, _ := providers.ParseTime(sleep.End, window.Location)

	date := window.Today()
	if !start.IsZero() {
		date = window.Day(start)
	}

	var duration any
	if !start.IsZero() && !end.IsZero() {
		duration = providers.SecondsToMinutes(end.Sub(start).Seconds())
	}

	rec := wearable.NewRecord(userID, wearable.Whoop, wearable.KindSleep, date)
	rec.Set("start_time", providers.TimeOrNil(start)).
		Set("end_time", providers.TimeOrNil(end)).
		Set("duration_minutes", duration)

	score := sleep.Score
	if score == nil {
		score = &SleepScore{}
	}
	stages := score.StageSummary
	if stages == nil {
		stages = &StageSummary{}
	}
	rec.Set("sleep_performance", providers.RoundedIntOrNil(score.SleepPerformancePercentage)).
		Set("sleep_efficiency", providers.FloatOrNil(score.SleepEfficiencyPercentage)).
		Set("respiratory_rate", providers.FloatOrNil(score.RespiratoryRate)).
		Set("disturbance_count", providers.IntOrNil(stages.DisturbanceCount)).
		Set("light_minutes", providers.MillisToMinutesOrNil(stages.TotalLightSleepTimeMilli)).
		Set("deep_minutes", providers.MillisToMinutesOrNil(stages.TotalSlowWaveSleepTimeMilli)).
		Set("rem_minutes", providers.MillisToMinutesOrNil(stages.TotalRemSleepTimeMilli)).
		Set("awake_minutes", providers.MillisToMinutesOrNil(stages.TotalAwakeTimeMilli))
	return rec
}
