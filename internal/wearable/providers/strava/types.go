package strava

// SummaryActivity is one entry of the athlete activity feed. Distances are
// in meters, times in seconds.
type SummaryActivity struct {
	ID                 int64    `json:"id"`
	Name               string   `json:"name"`
	Type               string   `json:"type"`
	SportType          string   `json:"sport_type"`
	StartDate          string   `json:"start_date"`
	StartDateLocal     string   `json:"start_date_local"`
	Distance           *float64 `json:"distance"`
	MovingTime         *float64 `json:"moving_time"`
	ElapsedTime        *float64 `json:"elapsed_time"`
	TotalElevationGain *float64 `json:"total_elevation_gain"`
	Calories           *float64 `json:"calories"`
	Kilojoules         *float64 `json:"kilojoules"`
	AverageHeartrate   *float64 `json:"average_heartrate"`
	MaxHeartrate       *float64 `json:"max_heartrate"`
}

func (a SummaryActivity) sport() string {
	switch {
	case a.SportType != "":
		return a.SportType
	case a.Type != "":
		return a.Type
	default:
		return "Unknown"
	}
}

// ActivityEntry is what is kept per activity in the daily row's jsonb column.
type ActivityEntry struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	SportType       string   `json:"sport_type"`
	StartTime       string   `json:"start_time"`
	DistanceMeters  float64  `json:"distance_meters"`
	MovingMinutes   int      `json:"moving_minutes"`
	ElevationMeters float64  `json:"elevation_gain_meters"`
	AvgHeartRate    *float64 `json:"avg_heart_rate,omitempty"`
	MaxHeartRate    *float64 `json:"max_heart_rate,omitempty"`
	Calories        *float64 `json:"calories,omitempty"`
}
