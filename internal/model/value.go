package model

import (
	"fmt"
	"slices"
	"strings"
)

// Value is the closed set of property payloads. Every implementation lives in
// this file; readers type-switch on the concrete type.
type Value interface {
	Type() PropertyType
	Validate() error
	clone() Value
}

type CheckboxValue struct {
	Checked bool `json:"checked"`
}

type DateValue struct {
	Date    Day    `json:"date"`
	EndDate Day    `json:"endDate,omitempty"`
	Time    string `json:"time,omitempty"`
	EndTime string `json:"endTime,omitempty"`
}

type TagValue struct {
	TagIDs []string `json:"tagIds"`
}

type PriorityValue struct {
	Level Priority `json:"level"`
}

type ContactValue struct {
	Phone         string `json:"phone,omitempty"`
	Email         string `json:"email,omitempty"`
	GuardianName  string `json:"guardianName,omitempty"`
	GuardianPhone string `json:"guardianPhone,omitempty"`
}

type MemoValue struct {
	Text string `json:"text"`
}

// PersonValue links a lesson to student blocks by id.
type PersonValue struct {
	BlockIDs []string `json:"blockIds"`
}

type DurationValue struct {
	Minutes int `json:"minutes"`
}

// RepeatValue carries an optional rule; a nil Config means "does not repeat".
type RepeatValue struct {
	Config *RepeatConfig `json:"config"`
}

type UrgentValue struct {
	AddedAt   Day `json:"addedAt"`
	SlotIndex int `json:"slotIndex"`
}

func (CheckboxValue) Type() PropertyType { return PropertyCheckbox }
func (DateValue) Type() PropertyType     { return PropertyDate }
func (TagValue) Type() PropertyType      { return PropertyTag }
func (PriorityValue) Type() PropertyType { return PropertyPriority }
func (ContactValue) Type() PropertyType  { return PropertyContact }
func (MemoValue) Type() PropertyType     { return PropertyMemo }
func (PersonValue) Type() PropertyType   { return PropertyPerson }
func (DurationValue) Type() PropertyType { return PropertyDuration }
func (RepeatValue) Type() PropertyType   { return PropertyRepeat }
func (UrgentValue) Type() PropertyType   { return PropertyUrgent }

func (v CheckboxValue) Validate() error { return nil }

func (v DateValue) Validate() error {
	if !v.Date.IsZero() && !v.Date.Valid() {
		return fmt.Errorf("%w: date %q", ErrInvalidValue, v.Date)
	}
	if !v.EndDate.IsZero() {
		if !v.EndDate.Valid() {
			return fmt.Errorf("%w: endDate %q", ErrInvalidValue, v.EndDate)
		}
		if v.Date.IsZero() {
			return fmt.Errorf("%w: endDate without date", ErrInvalidValue)
		}
		if v.EndDate.Before(v.Date) {
			return fmt.Errorf("%w: endDate %s before date %s", ErrInvalidValue, v.EndDate, v.Date)
		}
	}
	if !validClock(v.Time) || !validClock(v.EndTime) {
		return fmt.Errorf("%w: time must be HH:MM", ErrInvalidValue)
	}
	if (v.Time != "" || v.EndTime != "") && v.Date.IsZero() {
		return fmt.Errorf("%w: time without date", ErrInvalidValue)
	}
	return nil
}

func (v TagValue) Validate() error {
	for _, id := range v.TagIDs {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%w: empty tag id", ErrInvalidValue)
		}
	}
	return nil
}

func (v PriorityValue) Validate() error {
	if !v.Level.IsValid() {
		return fmt.Errorf("%w: priority %q", ErrInvalidValue, v.Level)
	}
	return nil
}

func (v ContactValue) Validate() error { return nil }

func (v MemoValue) Validate() error { return nil }

func (v PersonValue) Validate() error {
	for _, id := range v.BlockIDs {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%w: empty person link", ErrInvalidValue)
		}
	}
	return nil
}

func (v DurationValue) Validate() error {
	if v.Minutes < 0 {
		return fmt.Errorf("%w: negative duration %d", ErrInvalidValue, v.Minutes)
	}
	return nil
}

func (v RepeatValue) Validate() error {
	if v.Config == nil {
		return nil
	}
	if err := v.Config.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidValue, err)
	}
	return nil
}

func (v UrgentValue) Validate() error {
	if v.SlotIndex < 0 || v.SlotIndex > 2 {
		return fmt.Errorf("%w: slot index %d", ErrInvalidValue, v.SlotIndex)
	}
	if !v.AddedAt.Valid() {
		return fmt.Errorf("%w: addedAt %q", ErrInvalidValue, v.AddedAt)
	}
	return nil
}

func (v CheckboxValue) clone() Value { return v }
func (v DateValue) clone() Value     { return v }
func (v TagValue) clone() Value      { return TagValue{TagIDs: slices.Clone(v.TagIDs)} }
func (v PriorityValue) clone() Value { return v }
func (v ContactValue) clone() Value  { return v }
func (v MemoValue) clone() Value     { return v }
func (v PersonValue) clone() Value   { return PersonValue{BlockIDs: slices.Clone(v.BlockIDs)} }
func (v DurationValue) clone() Value { return v }
func (v UrgentValue) clone() Value   { return v }

func (v RepeatValue) clone() Value {
	if v.Config == nil {
		return RepeatValue{}
	}
	cfg := *v.Config
	cfg.Weekdays = slices.Clone(v.Config.Weekdays)
	return RepeatValue{Config: &cfg}
}

// DefaultValue returns the canonical empty payload for t. The date default is
// today; an unknown type yields (nil, false).
func DefaultValue(t PropertyType, today Day) (Value, bool) {
	switch t {
	case PropertyCheckbox:
		return CheckboxValue{Checked: false}, true
	case PropertyDate:
		return DateValue{Date: today}, true
	case PropertyTag:
		return TagValue{TagIDs: []string{}}, true
	case PropertyPriority:
		return PriorityValue{Level: PriorityNone}, true
	case PropertyContact:
		return ContactValue{}, true
	case PropertyMemo:
		return MemoValue{}, true
	case PropertyPerson:
		return PersonValue{BlockIDs: []string{}}, true
	case PropertyDuration:
		return DurationValue{Minutes: 0}, true
	case PropertyRepeat:
		return RepeatValue{Config: nil}, true
	case PropertyUrgent:
		return UrgentValue{AddedAt: today, SlotIndex: 0}, true
	default:
		return nil, false
	}
}
