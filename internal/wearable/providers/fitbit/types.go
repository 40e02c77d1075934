package fitbit

// Response shapes of the Fitbit Web API. Every field is optional; a
// missing value is stored as NULL.

type ActivityResponse struct {
	Summary *ActivitySummary `json:"summary"`
}

type ActivitySummary struct {
	Steps                *int       `json:"steps"`
	CaloriesOut          *int       `json:"caloriesOut"`
	Floors               *int       `json:"floors"`
	FairlyActiveMinutes  *int       `json:"fairlyActiveMinutes"`
	VeryActiveMinutes    *int       `json:"veryActiveMinutes"`
	LightlyActiveMinutes *int       `json:"lightlyActiveMinutes"`
	Distances            []Distance `json:"distances"`
}

type Distance struct {
	Activity string  `json:"activity"`
	Distance float64 `json:"distance"`
}

// totalDistanceMeters converts the "total" distance from kilometres.
func (s *ActivitySummary) totalDistanceMeters() any {
	for _, d := range s.Distances {
		if d.Activity == "total" {
			return d.Distance * 1000
		}
	}
	return nil
}

// activeMinutes is fairly plus very active minutes, NULL when neither is reported.
func (s *ActivitySummary) activeMinutes() any {
	if s.FairlyActiveMinutes == nil && s.VeryActiveMinutes == nil {
		return nil
	}
	total := 0
	if s.FairlyActiveMinutes != nil {
		total += *s.FairlyActiveMinutes
	}
	if s.VeryActiveMinutes != nil {
		total += *s.VeryActiveMinutes
	}
	return total
}

type SleepResponse struct {
	Sleep   []SleepLog    `json:"sleep"`
	Summary *SleepSummary `json:"summary"`
}

type SleepLog struct {
	DateOfSleep string   `json:"dateOfSleep"`
	StartTime   string   `json:"startTime"`
	EndTime     string   `json:"endTime"`
	Duration    *float64 `json:"duration"`
	Efficiency  *int     `json:"efficiency"`
	IsMainSleep bool     `json:"isMainSleep"`
}

type SleepSummary struct {
	TotalMinutesAsleep *int         `json:"totalMinutesAsleep"`
	TotalTimeInBed     *int         `json:"totalTimeInBed"`
	Stages             *SleepStages `json:"stages"`
}

type SleepStages struct {
	Deep  *int `json:"deep"`
	Light *int `json:"light"`
	Rem   *int `json:"rem"`
	Wake  *int `json:"wake"`
}

// mainSleep picks the log flagged as main sleep, falling back to the first one.
func (r SleepResponse) mainSleep() *SleepLog {
	if len(r.Sleep) == 0 {
		return nil
	}
	for i := range r.Sleep {
		if r.Sleep[i].IsMainSleep {
			return &r.Sleep[i]
		}
	}
	return &r.Sleep[0]
}

type HeartRateResponse struct {
	ActivitiesHeart []HeartRateDay `json:"activities-heart"`
}

type HeartRateDay struct {
	DateTime string         `json:"dateTime"`
	Value    HeartRateValue `json:"value"`
}

type HeartRateValue struct {
	RestingHeartRate *int            `json:"restingHeartRate"`
	HeartRateZones   []HeartRateZone `json:"heartRateZones"`
}

type HeartRateZone struct {
	Name    string `json:"name"`
	Minutes *int   `json:"minutes"`
}

// zoneMinutes maps zone name to minutes. Zones that are not reported stay
// out of the map and read back as nil.
func (v HeartRateValue) zoneMinutes() map[string]any {
	zones := make(map[string]any, len(v.HeartRateZones))
	for _, z := range v.HeartRateZones {
		if z.Minutes != nil {
			zones[z.Name] = *z.Minutes
		}
	}
	return zones
}
