package scheduler

import (
	"fmt"
	"time"

	"github.com/sandeepkv93/tutord/internal/model"
	"github.com/sandeepkv93/tutord/internal/projection"
)

// NextMidnight is the first instant of the civil day after now in loc.
// AddDate keeps the boundary correct across DST shifts.
func NextMidnight(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	y, m, d := local.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc).AddDate(0, 0, 1)
}

// RolloverEvent is the day_rollover event for the day following now.
func RolloverEvent(now time.Time, loc *time.Location) Event {
	at := NextMidnight(now, loc)
	return Event{
		ID:   fmt.Sprintf("%s:%s", KindDayRollover, model.DayOf(at, loc)),
		Kind: KindDayRollover,
		At:   at,
	}
}

// LessonEvents returns a lesson_start event for every timed lesson on day
// that starts at or after now, lead minutes early.
func LessonEvents(blocks []model.Block, day model.Day, now time.Time, loc *time.Location, lead time.Duration) []Event {
	if loc == nil {
		loc = time.UTC
	}
	base := day.Time()
	if base.IsZero() {
		return []Event{}
	}
	out := make([]Event, 0)
	for _, b := range projection.Lessons(blocks, day) {
		dv, _ := model.Lookup[model.DateValue](b)
		clock, err := time.Parse("15:04", dv.Time)
		if err != nil {
			continue
		}
		start := time.Date(base.Year(), base.Month(), base.Day(), clock.Hour(), clock.Minute(), 0, 0, loc)
		at := start.Add(-lead)
		if start.Before(now) {
			continue
		}
		if at.Before(now) {
			at = now
		}
		out = append(out, Event{
			ID:      fmt.Sprintf("%s:%s:%s", KindLessonStart, b.ID, day),
			Kind:    KindLessonStart,
			BlockID: b.ID,
			At:      at,
		})
	}
	return out
}
