package oura

// Collection is the envelope of every /v2/usercollection endpoint.
type Collection[T any] struct {
	Data      []T     `json:"data"`
	NextToken *string `json:"next_token"`
}

// forDay returns the item whose day matches, or the first one.
func forDay[T any](items []T, day string, dayOf func(T) string) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	for _, it := range items {
		if dayOf(it) == day {
			return it, true
		}
	}
	return items[0], true
}

type DailyActivity struct {
	Day                       string   `json:"day"`
	Score                     *float64 `json:"score"`
	Steps                     *int     `json:"steps"`
	ActiveCalories            *int     `json:"active_calories"`
	TotalCalories             *int     `json:"total_calories"`
	EquivalentWalkingDistance *float64 `json:"equivalent_walking_distance"`
	HighActivityTime          *float64 `json:"high_activity_time"`
	MediumActivityTime        *float64 `json:"medium_activity_time"`
	LowActivityTime           *float64 `json:"low_activity_time"`
}

type DailySleep struct {
	Day   string   `json:"day"`
	Score *float64 `json:"score"`
}

// SleepPeriod is one entry of the detailed sleep collection. Durations are
// in seconds.
type SleepPeriod struct {
	Day                string   `json:"day"`
	Type               string   `json:"type"`
	TotalSleepDuration *float64 `json:"total_sleep_duration"`
	DeepSleepDuration  *float64 `json:"deep_sleep_duration"`
	LightSleepDuration *float64 `json:"light_sleep_duration"`
	RemSleepDuration   *float64 `json:"rem_sleep_duration"`
	AwakeTime          *float64 `json:"awake_time"`
	TimeInBed          *float64 `json:"time_in_bed"`
	Efficiency         *int     `json:"efficiency"`
	LowestHeartRate    *int     `json:"lowest_heart_rate"`
	AverageHRV         *float64 `json:"average_hrv"`
}

type DailyReadiness struct {
	Day                  string                `json:"day"`
	Score                *float64              `json:"score"`
	TemperatureDeviation *float64              `json:"temperature_deviation"`
	Contributors         *ReadinessContributor `json:"contributors"`
}

type ReadinessContributor struct {
	ActivityBalance  *int `json:"activity_balance"`
	BodyTemperature  *int `json:"body_temperature"`
	HRVBalance       *int `json:"hrv_balance"`
	RecoveryIndex    *int `json:"recovery_index"`
	RestingHeartRate *int `json:"resting_heart_rate"`
}
