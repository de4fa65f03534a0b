package temporal

import (
	"time"

	"github.com/okanassist/okanassist-backend/internal/models"
)

// The model is prompted for RFC 3339 instants but does not always comply;
// a few near-ISO shapes are accepted before giving up.
var dueDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDueDate parses an ISO-8601 instant from model output and normalizes it
// to UTC. Unparseable input yields nil rather than an error; a reminder
// without a usable due date is stored with no due date.
func ParseDueDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			utc := t.UTC()
			return &utc
		}
	}
	return nil
}

// LoadLocation resolves a zone name with a named fallback to UTC when the
// configured string is invalid.
func LoadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// InUserZone converts a stored naive-UTC instant to the user's configured
// zone for display.
func InUserZone(t time.Time, tz string) time.Time {
	return t.UTC().In(LoadLocation(tz))
}

// NextOccurrence computes the renewal instant for a recurring reminder.
// Monthly recurrence respects month length: advancing from Jan 31 lands on
// the last day of February, never on an overflowed date. Unrecognized
// patterns produce no next occurrence.
func NextOccurrence(t time.Time, pattern models.RecurrencePattern) *time.Time {
	var next time.Time
	switch pattern {
	case models.RecurDaily:
		next = t.AddDate(0, 0, 1)
	case models.RecurWeekly:
		next = t.AddDate(0, 0, 7)
	case models.RecurMonthly:
		next = AddMonthClamped(t, 1)
	default:
		return nil
	}
	return &next
}

// AddMonthClamped advances t by the given number of calendar months, clamping
// the day to the target month's length instead of letting it spill over the
// way time.AddDate does.
func AddMonthClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month, 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	shifted := first.AddDate(0, months, 0)
	if last := daysIn(shifted.Year(), shifted.Month()); day > last {
		day = last
	}
	return time.Date(shifted.Year(), shifted.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DayRange expands a bare YYYY-MM-DD date to the inclusive
// [00:00:00.000000, 23:59:59.999999] span of that day in the given zone.
func DayRange(dateStr string, loc *time.Location) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", dateStr, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := day
	end := time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 999999000, loc)
	return start, end, nil
}

// RangeFilter normalizes optional start/end date strings into start-of-day
// and end-of-day bounds in the user's zone. Both empty means unbounded; both
// present and equal means a single full day.
func RangeFilter(startStr, endStr, tz string) (*time.Time, *time.Time, error) {
	loc := LoadLocation(tz)
	var start, end *time.Time
	if startStr != "" {
		s, _, err := DayRange(startStr, loc)
		if err != nil {
			return nil, nil, err
		}
		start = &s
	}
	if endStr != "" {
		_, e, err := DayRange(endStr, loc)
		if err != nil {
			return nil, nil, err
		}
		end = &e
	}
	return start, end, nil
}
