package wearable

import "time"

const dateLayout = "2006-01-02"

// Window is the time frame a single sync looks at, anchored to the user's
// local calendar.
type Window struct {
	Now          time.Time
	Location     *time.Location
	LookbackDays int
}

func NewWindow(now time.Time, loc *time.Location, lookbackDays int) Window {
	if loc == nil {
		loc = time.UTC
	}
	if lookbackDays < 1 {
		lookbackDays = 1
	}
	return Window{Now: now, Location: loc, LookbackDays: lookbackDays}
}

func (w Window) loc() *time.Location {
	if w.Location == nil {
		return time.UTC
	}
	return w.Location
}

// Today is the user's local calendar date of Now.
func (w Window) Today() time.Time {
	return LocalDay(w.Now, w.loc())
}

// Since is the instant LookbackDays before Now.
func (w Window) Since() time.Time {
	return w.Now.AddDate(0, 0, -w.LookbackDays)
}

// Day maps an instant to the user's local calendar date.
func (w Window) Day(t time.Time) time.Time {
	return LocalDay(t, w.loc())
}

// LocalDay truncates t to its calendar date in loc. The result is midnight UTC
// so it is safe to store in a DATE column.
func LocalDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD date, as returned by most provider APIs.
func ParseDay(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

func FormatDay(t time.Time) string {
	return t.Format(dateLayout)
}
