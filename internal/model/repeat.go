package model

import (
	"errors"
	"fmt"
)

type RepeatType string

const (
	RepeatDaily   RepeatType = "daily"
	RepeatWeekly  RepeatType = "weekly"
	RepeatMonthly RepeatType = "monthly"
	RepeatYearly  RepeatType = "yearly"
)

var (
	ErrInvalidRepeatType = errors.New("model: invalid repeat type")
	ErrInvalidInterval   = errors.New("model: invalid repeat interval")
)

func (t RepeatType) IsValid() bool {
	switch t {
	case RepeatDaily, RepeatWeekly, RepeatMonthly, RepeatYearly:
		return true
	default:
		return false
	}
}

// RepeatConfig projects a block's anchor date onto later days. Weekdays use
// 0=Sunday..6=Saturday and only apply to weekly rules.
type RepeatConfig struct {
	Type     RepeatType `json:"type"`
	Interval int        `json:"interval"`
	EndDate  Day        `json:"endDate,omitempty"`
	Weekdays []int      `json:"weekdays,omitempty"`
}

func (r RepeatConfig) Validate() error {
	if !r.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidRepeatType, r.Type)
	}
	if r.Interval <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidInterval, r.Interval)
	}
	if !r.EndDate.IsZero() && !r.EndDate.Valid() {
		return fmt.Errorf("model: invalid repeat end date %q", r.EndDate)
	}
	seen := make(map[int]bool, len(r.Weekdays))
	for _, d := range r.Weekdays {
		if d < 0 || d > 6 {
			return fmt.Errorf("model: weekday %d out of range", d)
		}
		if seen[d] {
			return errors.New("model: duplicate weekday in repeat")
		}
		seen[d] = true
	}
	return nil
}

func (r RepeatConfig) hasWeekday(d int) bool {
	for _, w := range r.Weekdays {
		if w == d {
			return true
		}
	}
	return false
}

// AppearsOnDate reports whether b is active on target. The anchor occurrence
// always shows; later days show only through the block's repeat rule, and
// nothing projects backwards. The interval is not applied to matching.
func AppearsOnDate(b Block, target Day) bool {
	date, ok := Lookup[DateValue](b)
	if !ok || date.Date.IsZero() {
		return false
	}
	anchor := date.Date
	if target == anchor {
		return true
	}
	if target.Before(anchor) {
		return false
	}
	repeat, ok := Lookup[RepeatValue](b)
	if !ok || repeat.Config == nil {
		return false
	}
	cfg := repeat.Config
	if !cfg.EndDate.IsZero() && target.After(cfg.EndDate) {
		return false
	}

	t := target.Time()
	a := anchor.Time()
	if t.IsZero() || a.IsZero() {
		return false
	}
	switch cfg.Type {
	case RepeatDaily:
		return true
	case RepeatWeekly:
		return cfg.hasWeekday(int(t.Weekday()))
	case RepeatMonthly:
		return t.Day() == a.Day()
	case RepeatYearly:
		return t.Month() == a.Month() && t.Day() == a.Day()
	default:
		return false
	}
}

// Occurrences lists the days in [from, to] on which b appears.
func Occurrences(b Block, from, to Day) []Day {
	out := make([]Day, 0)
	if !from.Valid() || !to.Valid() || to.Before(from) {
		return out
	}
	for d := from; !d.After(to); d = d.AddDays(1) {
		if AppearsOnDate(b, d) {
			out = append(out, d)
		}
	}
	return out
}
