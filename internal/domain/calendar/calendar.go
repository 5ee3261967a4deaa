package calendar

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var (
	ErrInvalidDate = errors.New("calendar: invalid date")
)

var ymdPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Day is a calendar day with no time-of-day component. The zero value is
// not a valid day. Internally the day is pinned to UTC midnight of its
// local calendar fields, so day arithmetic never crosses DST boundaries
// and String never shifts across time zones.
type Day struct {
	t time.Time
}

// NewDay builds a Day from explicit calendar fields.
func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime takes the calendar fields of t in its own location.
func FromTime(t time.Time) Day {
	y, m, d := t.Date()
	return NewDay(y, m, d)
}

// Today returns the current day in local time.
func Today() Day {
	return FromTime(time.Now())
}

// Parse normalizes the representations booking input arrives in: a literal
// YYYY-MM-DD string (read as a local calendar date), an ISO-8601 datetime
// string, or a numeric epoch value in seconds or milliseconds.
func Parse(v any) (Day, error) {
	switch x := v.(type) {
	case Day:
		return x, nil
	case time.Time:
		return FromTime(x), nil
	case string:
		return parseString(x)
	case float64:
		return fromEpoch(int64(x)), nil
	case int64:
		return fromEpoch(x), nil
	case int:
		return fromEpoch(int64(x)), nil
	case nil:
		return Day{}, ErrInvalidDate
	default:
		return Day{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidDate, v)
	}
}

func parseString(s string) (Day, error) {
	if ymdPattern.MatchString(s) {
		year, _ := strconv.Atoi(s[0:4])
		month, _ := strconv.Atoi(s[5:7])
		day, _ := strconv.Atoi(s[8:10])
		if month < 1 || month > 12 || day < 1 || day > 31 {
			return Day{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
		}
		return NewDay(year, time.Month(month), day), nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return FromTime(t), nil
		}
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return fromEpoch(n), nil
	}
	return Day{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

func fromEpoch(n int64) Day {
	// Values past the year 33658 in seconds are taken as milliseconds.
	if n > 1_000_000_000_000 {
		return FromTime(time.UnixMilli(n))
	}
	return FromTime(time.Unix(n, 0))
}

func (d Day) IsZero() bool { return d.t.IsZero() }

// Time exposes the day as UTC midnight, the representation stores persist.
func (d Day) Time() time.Time { return d.t }

// String serializes to canonical YYYY-MM-DD.
func (d Day) String() string { return d.t.Format("2006-01-02") }

func (d Day) Before(o Day) bool { return d.t.Before(o.t) }
func (d Day) After(o Day) bool  { return d.t.After(o.t) }
func (d Day) Equal(o Day) bool  { return d.t.Equal(o.t) }

// AddDays returns the day n calendar days later (earlier for negative n).
func (d Day) AddDays(n int) Day {
	return Day{t: d.t.AddDate(0, 0, n)}
}

// Days is the inclusive day count of [from, to]: (to - from) + 1.
// Callers must ensure from <= to first.
func Days(from, to Day) int {
	return int(to.t.Sub(from.t)/(24*time.Hour)) + 1
}

// EachDay calls fn for every day of [from, to] inclusive, stopping early
// when fn returns false.
func EachDay(from, to Day, fn func(Day) bool) {
	for d := from; !d.After(to); d = d.AddDays(1) {
		if !fn(d) {
			return
		}
	}
}

// DaySet is a membership set of calendar days keyed by their YMD form.
type DaySet map[string]struct{}

func NewDaySet(days ...Day) DaySet {
	s := make(DaySet, len(days))
	for _, d := range days {
		s.Add(d)
	}
	return s
}

func (s DaySet) Add(d Day)       { s[d.String()] = struct{}{} }
func (s DaySet) Has(d Day) bool  { _, ok := s[d.String()]; return ok }
func (s DaySet) Len() int        { return len(s) }
