package providers

import (
	"math"
	"time"
)

// Nullable values: a nil pointer becomes a NULL column, never a zero.

func IntOrNil(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func FloatOrNil(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

// RoundedIntOrNil rounds a float (scores some vendors send as 83.0).
func RoundedIntOrNil(p *float64) any {
	if p == nil {
		return nil
	}
	return int(math.Round(*p))
}

func SecondsToMinutes(seconds float64) int {
	return int(math.Round(seconds / 60))
}

func MillisToMinutes(millis float64) int {
	return int(math.Round(millis / 60000))
}

func SecondsToMinutesOrNil(p *float64) any {
	if p == nil {
		return nil
	}
	return SecondsToMinutes(*p)
}

func MillisToMinutesOrNil(p *float64) any {
	if p == nil {
		return nil
	}
	return MillisToMinutes(*p)
}

func TimeOrNil(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

// ParseTime accepts the RFC 3339 flavours vendors use. Timestamps without a
// zone (Fitbit) are read in loc, the user's timezone.
func ParseTime(s string, loc *time.Location) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range []string{"2006-01-02T15:04:05.000", "2006-01-02T15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
