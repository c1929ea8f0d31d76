package utils

import (
	"fmt"
	"math"
	"time"
)

const DateLayout = "2006-01-02"

var acceptedTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// ParseDateTime accepts RFC3339, a local date-time without offset, or a bare
// date. Values without an offset are interpreted in loc; a bare date means
// midnight of that day.
func ParseDateTime(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	for _, layout := range acceptedTimeLayouts[1:] {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	t, err := time.ParseInLocation(DateLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected yyyy-mm-dd or RFC3339", value)
	}
	return t, nil
}

// StartOfDay truncates t to midnight of its calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// AtHour returns the calendar day of t in loc at the given hour.
func AtHour(t time.Time, hour int, loc *time.Location) time.Time {
	return StartOfDay(t, loc).Add(time.Duration(hour) * time.Hour)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateRange is a span between two instants. Overlap checks treat both
// endpoints as inclusive.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func NewDateRange(start, end time.Time) (DateRange, error) {
	if end.Before(start) {
		return DateRange{}, fmt.Errorf("end %s is before start %s", end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return DateRange{Start: start, End: end}, nil
}

// Overlaps reports whether r and o share at least one instant.
func (r DateRange) Overlaps(o DateRange) bool {
	return !r.Start.After(o.End) && !r.End.Before(o.Start)
}

// Intersect returns the shared part of r and o.
func (r DateRange) Intersect(o DateRange) (DateRange, bool) {
	if !r.Overlaps(o) {
		return DateRange{}, false
	}
	start := r.Start
	if o.Start.After(start) {
		start = o.Start
	}
	end := r.End
	if o.End.Before(end) {
		end = o.End
	}
	return DateRange{Start: start, End: end}, true
}

func (r DateRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

func (r DateRange) Hours() float64 {
	return r.Duration().Hours()
}

// CalendarDays is the number of started 24h periods, at least one.
func (r DateRange) CalendarDays() int {
	days := int(math.Ceil(r.Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}

// Dates enumerates every calendar day touched by the range in loc.
func (r DateRange) Dates(loc *time.Location) []time.Time {
	first := StartOfDay(r.Start, loc)
	last := StartOfDay(r.End, loc)

	var days []time.Time
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// ContainsDate reports whether the calendar day of d lies within the
// calendar days of r.
func (r DateRange) ContainsDate(d time.Time, loc *time.Location) bool {
	day := StartOfDay(d, loc)
	return !day.Before(StartOfDay(r.Start, loc)) && !day.After(StartOfDay(r.End, loc))
}

// CalendarDate reinterprets the year, month and day of t (as stored, e.g. a
// DATE column scanned in UTC) as midnight of that day in loc.
func CalendarDate(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
