package model

import (
	"errors"
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

var ErrInvalidDay = errors.New("model: invalid day")

// Day is a civil calendar day formatted as YYYY-MM-DD. The zero value means
// "no day". Days compare lexicographically, so string ordering is calendar
// ordering.
type Day string

func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDay, s)
	}
	return Day(t.Format(dayLayout)), nil
}

func MustDay(s string) Day {
	d, err := ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

// DayOf returns the civil day of t in loc.
func DayOf(t time.Time, loc *time.Location) Day {
	if loc == nil {
		loc = time.UTC
	}
	return Day(t.In(loc).Format(dayLayout))
}

func (d Day) String() string { return string(d) }

func (d Day) IsZero() bool { return d == "" }

func (d Day) Valid() bool {
	_, err := time.Parse(dayLayout, string(d))
	return err == nil
}

// Time returns midnight UTC of the day. It exists for calendar arithmetic only
// and must not be compared against instants.
func (d Day) Time() time.Time {
	t, err := time.Parse(dayLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

func (d Day) AddDays(n int) Day {
	t := d.Time()
	if t.IsZero() {
		return d
	}
	return Day(t.AddDate(0, 0, n).Format(dayLayout))
}

func (d Day) Weekday() time.Weekday { return d.Time().Weekday() }

func (d Day) Before(o Day) bool { return d < o }

func (d Day) After(o Day) bool { return d > o }

// WeekStart returns the Sunday on or before d.
func (d Day) WeekStart() Day {
	return d.AddDays(-int(d.Weekday()))
}
