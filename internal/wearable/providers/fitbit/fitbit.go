package fitbit

import (
	"context"
	"fmt"
	"sync"

	"github.com/2beens/wearsync/internal/telemetry/tracing"
	"github.com/2beens/wearsync/internal/wearable"
	"github.com/2beens/wearsync/internal/wearable/providers"
)

const DefaultBaseURL = "https://api.fitbit.com"

// Adapter pulls daily activity, sleep and heart rate for the user's local day.
// No Accept-Language header is sent, so distances come back in kilometres.
type Adapter struct {
	api *providers.APIClient
}

func NewAdapter(api *providers.APIClient) *Adapter {
	return &Adapter{api: api}
}

func (a *Adapter) Provider() wearable.Provider {
	return wearable.Fitbit
}

type Payload struct {
	Activity  wearable.Optional[ActivityResponse]
	Sleep     wearable.Optional[SleepResponse]
	HeartRate wearable.Optional[HeartRateResponse]
}

func (p Payload) Presence() map[wearable.MetricKind]bool {
	return map[wearable.MetricKind]bool{
		wearable.KindActivity:  p.Activity.IsPresent(),
		wearable.KindSleep:     p.Sleep.IsPresent(),
		wearable.KindHeartRate: p.HeartRate.IsPresent(),
	}
}

func (a *Adapter) FetchMetrics(ctx context.Context, accessToken string, window wearable.Window) Payload {
	ctx, span := tracing.GlobalTracer.Start(ctx, "providers.fitbit.fetchMetrics")
	defer span.End()

	day := wearable.FormatDay(window.Today())

	var (
		payload Payload
		wg      sync.WaitGroup
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		payload.Activity = providers.FetchJSON[ActivityResponse](ctx, a.api, wearable.KindActivity,
			fmt.Sprintf("/1/user/-/activities/date/%s.json", day), nil, accessToken)
	}()
	go func() {
		defer wg.Done()
		payload.Sleep = providers.FetchJSON[SleepResponse](ctx, a.api, wearable.KindSleep,
			fmt.Sprintf("/1.2/user/-/sleep/date/%s.json", day), nil, accessToken)
	}()
	go func() {
		defer wg.Done()
		payload.HeartRate = providers.FetchJSON[HeartRateResponse](ctx, a.api, wearable.KindHeartRate,
			fmt.Sprintf("/1/user/-/activities/heart/date/%s/1d.json", day), nil, accessToken)
	}()
	wg.Wait()

	return payload
}

func (a *Adapter) Normalize(userID string, window wearable.Window, payload Payload) []wearable.MetricRecord {
	today := window.Today()
	var recs []wearable.MetricRecord

	if activity, ok := payload.Activity.Get(); ok && activity.Summary != nil {
		s := activity.Summary
		rec := wearable.NewRecord(userID, wearable.Fitbit, wearable.KindActivity, today)
		rec.Set("steps", providers.IntOrNil(s.Steps)).
			Set("calories_burned", providers.IntOrNil(s.CaloriesOut)).
			Set("distance_meters", s.totalDistanceMeters()).
			Set("active_minutes", s.activeMinutes()).
			Set("floors", providers.IntOrNil(s.Floors))
		recs = append(recs, rec)
	}

	if sleep, ok := payload.Sleep.Get(); ok {
		if rec, ok := normalizeSleep(userID, window, sleep); ok {
			recs = append(recs, rec)
		}
	}

	if heart, ok := payload.HeartRate.Get(); ok && len(heart.ActivitiesHeart) > 0 {
		entry := heart.ActivitiesHeart[0]
		date := today
		if d, err := wearable.ParseDay(entry.DateTime); err == nil {
			date = d
		}
		zones := entry.Value.zoneMinutes()
		rec := wearable.NewRecord(userID, wearable.Fitbit, wearable.KindHeartRate, date)
		rec.Set("resting_heart_rate", providers.IntOrNil(entry.Value.RestingHeartRate)).
			Set("fat_burn_minutes", zones["Fat Burn"]).
			Set("cardio_minutes", zones["Cardio"]).
			Set("peak_minutes", zones["Peak"]).
			Set("out_of_range_minutes", zones["Out of Range"])
		recs = append(recs, rec)
	}

	return recs
}

func normalizeSleep(userID string, window wearable.Window, sleep SleepResponse) (wearable.MetricRecord, bool) {
	main := sleep.mainSleep()
	if main == nil {
		return wearable.MetricRecord{}, false
	}

	date := window.Today()
	if d, err := wearable.ParseDay(main.DateOfSleep); err == nil {
		date = d
	}

	rec := wearable.NewRecord(userID, wearable.Fitbit, wearable.KindSleep, date)
	start, _ := providers.ParseTime(main.StartTime, window.Location)
	end, _ := providers.ParseTime(main.EndTime, window.Location)
	rec.Set("start_time", providers.TimeOrNil(start)).
		Set("end_time", providers.TimeOrNil(end)).
		Set("duration_minutes", sleepMinutes(sleep.Summary, main)).
		Set("efficiency", providers.IntOrNil(main.Efficiency))

	var stages *SleepStages
	if sleep.Summary != nil {
		stages = sleep.Summary.Stages
	}
	if stages != nil {
		rec.Set("deep_minutes", providers.IntOrNil(stages.Deep)).
			Set("light_minutes", providers.IntOrNil(stages.Light)).
			Set("rem_minutes", providers.IntOrNil(stages.Rem)).
			Set("wake_minutes", providers.IntOrNil(stages.Wake))
	} else {
		rec.Set("deep_minutes", nil).
			Set("light_minutes", nil).
			Set("rem_minutes", nil).
			Set("wake_minutes", nil)
	}
	return rec, true
}

// sleepMinutes is the time asleep from the daily summary. The main log's
// duration is time in bed and only used when the summary lacks it.
func sleepMinutes(summary *SleepSummary, main *SleepLog) any {
	if summary != nil && summary.TotalMinutesAsleep != nil {
		return *summary.TotalMinutesAsleep
	}
	return providers.MillisToMinutesOrNil(main.Duration)
}
