package wearable

import "time"

// Field is one column value of a normalized metric row. A nil Value is
// stored as NULL.
type Field struct {
	Column string
	Value  any
}

// MetricRecord is one normalized row, unique per (user, date) within its table.
type MetricRecord struct {
	UserID   string
	Provider Provider
	Kind     MetricKind
	Date     time.Time
	Fields   []Field
}

func NewRecord(userID string, provider Provider, kind MetricKind, date time.Time) MetricRecord {
	return MetricRecord{
		UserID:   userID,
		Provider: provider,
		Kind:     kind,
		Date:     date,
	}
}

// Set adds or replaces a column value.
func (r *MetricRecord) Set(column string, value any) *MetricRecord {
	for i := range r.Fields {
		if r.Fields[i].Column == column {
			r.Fields[i].Value = value
			return r
		}
	}
	r.Fields = append(r.Fields, Field{Column: column, Value: value})
	return r
}

func (r MetricRecord) Value(column string) (any, bool) {
	for _, f := range r.Fields {
		if f.Column == column {
			return f.Value, true
		}
	}
	return nil, false
}

func (r MetricRecord) Table() (string, bool) {
	return TableFor(r.Provider, r.Kind)
}

func (r MetricRecord) Day() string {
	return FormatDay(r.Date)
}

// DistinctDays counts the calendar dates covered by records.
func DistinctDays(records []MetricRecord) int {
	days := make(map[string]struct{}, len(records))
	for _, r := range records {
		days[r.Day()] = struct{}{}
	}
	return len(days)
}
