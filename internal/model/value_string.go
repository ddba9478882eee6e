package model

import (
	"fmt"
	"strings"
)

func (v CheckboxValue) String() string {
	if v.Checked {
		return "done"
	}
	return "open"
}

func (v DateValue) String() string {
	out := v.Date.String()
	if v.Time != "" {
		out += " " + v.Time
	}
	if !v.EndDate.IsZero() && v.EndDate != v.Date {
		out += " - " + v.EndDate.String()
		if v.EndTime != "" {
			out += " " + v.EndTime
		}
	} else if v.EndTime != "" {
		out += "-" + v.EndTime
	}
	return out
}

// Clock is the time range part of the date, or "" for all-day dates.
func (v DateValue) Clock() string {
	switch {
	case v.Time == "":
		return ""
	case v.EndTime == "":
		return v.Time
	default:
		return v.Time + "-" + v.EndTime
	}
}

func (v TagValue) String() string { return strings.Join(v.TagIDs, ", ") }

func (v PriorityValue) String() string { return string(v.Level) }

func (v ContactValue) String() string {
	var parts []string
	for _, s := range []string{v.Phone, v.Email} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	if v.GuardianName != "" || v.GuardianPhone != "" {
		parts = append(parts, strings.TrimSpace(fmt.Sprintf("guardian %s %s", v.GuardianName, v.GuardianPhone)))
	}
	return strings.Join(parts, ", ")
}

func (v MemoValue) String() string { return v.Text }

func (v PersonValue) String() string { return strings.Join(v.BlockIDs, ", ") }

func (v DurationValue) String() string {
	if v.Minutes >= 60 && v.Minutes%60 == 0 {
		return fmt.Sprintf("%dh", v.Minutes/60)
	}
	if v.Minutes > 60 {
		return fmt.Sprintf("%dh%02dm", v.Minutes/60, v.Minutes%60)
	}
	return fmt.Sprintf("%dm", v.Minutes)
}

func (v RepeatValue) String() string {
	if v.Config == nil {
		return "does not repeat"
	}
	return v.Config.String()
}

func (r RepeatConfig) String() string {
	out := string(r.Type)
	if r.Interval > 1 {
		out = fmt.Sprintf("every %d × %s", r.Interval, r.Type)
	}
	if len(r.Weekdays) > 0 {
		names := make([]string, 0, len(r.Weekdays))
		for _, d := range r.Weekdays {
			if d >= 0 && d <= 6 {
				names = append(names, weekdayAbbrev[d])
			}
		}
		out += " on " + strings.Join(names, ",")
	}
	if !r.EndDate.IsZero() {
		out += " until " + r.EndDate.String()
	}
	return out
}

func (v UrgentValue) String() string {
	return fmt.Sprintf("slot %d since %s", v.SlotIndex+1, v.AddedAt)
}

var weekdayAbbrev = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
