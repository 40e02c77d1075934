package whoop

const scoreStateScored = "SCORED"

// Page is the envelope of WHOOP collection endpoints.
type Page[T any] struct {
	Records   []T     `json:"records"`
	NextToken *string `json:"next_token"`
}

func (p Page[T]) latest() (T, bool) {
	var zero T
	if len(p.Records) == 0 {
		return zero, false
	}
	return p.Records[0], true
}

type Cycle struct {
	ID         int64       `json:"id"`
	Start      string      `json:"start"`
	End        *string     `json:"end"`
	ScoreState string      `json:"score_state"`
	Score      *CycleScore `json:"score"`
}

type CycleScore struct {
	Strain *float64 `json:"strain"`
}

type Recovery struct {
	CycleID    int64          `json:"cycle_id"`
	ScoreState string         `json:"score_state"`
	Score      *RecoveryScore `json:"score"`
}

type RecoveryScore struct {
	RecoveryScore    *float64 `json:"recovery_score"`
	RestingHeartRate *float64 `json:"resting_heart_rate"`
	HRVRmssdMilli    *float64 `json:"hrv_rmssd_milli"`
	SpO2Percentage   *float64 `json:"spo2_percentage"`
	SkinTempCelsius  *float64 `json:"skin_temp_celsius"`
}

type Sleep struct {
	Start      string      `json:"start"`
	End        string      `json:"end"`
	Nap        bool        `json:"nap"`
	ScoreState string      `json:"score_state"`
	Score      *SleepScore `json:"score"`
}

type SleepScore struct {
	SleepPerformancePercentage *float64      `json:"sleep_performance_percentage"`
	SleepEfficiencyPercentage  *float64      `json:"sleep_efficiency_percentage"`
	RespiratoryRate            *float64      `json:"respiratory_rate"`
	StageSummary               *StageSummary `json:"stage_summary"`
}

// StageSummary durations are in milliseconds.
type StageSummary struct {
	TotalLightSleepTimeMilli    *float64 `json:"total_light_sleep_time_milli"`
	TotalSlowWaveSleepTimeMilli *float64 `json:"total_slow_wave_sleep_time_milli"`
	TotalRemSleepTimeMilli      *float64 `json:"total_rem_sleep_time_milli"`
	TotalAwakeTimeMilli         *float64 `json:"total_awake_time_milli"`
	DisturbanceCount            *int     `json:"disturbance_count"`
}

type Workout struct {
	Start      string        `json:"start"`
	End        string        `json:"end"`
	SportID    *int          `json:"sport_id"`
	ScoreState string        `json:"score_state"`
	Score      *WorkoutScore `json:"score"`
}

type WorkoutScore struct {
	Strain           *float64 `json:"strain"`
	AverageHeartRate *int     `json:"average_heart_rate"`
	MaxHeartRate     *int     `json:"max_heart_rate"`
	Kilojoule        *float64 `json:"kilojoule"`
	DistanceMeter    *float64 `json:"distance_meter"`
}
