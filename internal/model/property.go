package model

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	ErrInvalidValue        = errors.New("model: invalid property value")
	ErrUnknownPropertyType = errors.New("model: unknown property type")
)

type PropertyType string

const (
	PropertyCheckbox PropertyType = "checkbox"
	PropertyDate     PropertyType = "date"
	PropertyTag      PropertyType = "tag"
	PropertyPriority PropertyType = "priority"
	PropertyContact  PropertyType = "contact"
	PropertyMemo     PropertyType = "memo"
	PropertyPerson   PropertyType = "person"
	PropertyDuration PropertyType = "duration"
	PropertyRepeat   PropertyType = "repeat"
	PropertyUrgent   PropertyType = "urgent"
)

// PropertyTypes lists every property type in display order.
func PropertyTypes() []PropertyType {
	return []PropertyType{
		PropertyCheckbox, PropertyDate, PropertyTag, PropertyPriority, PropertyContact,
		PropertyMemo, PropertyPerson, PropertyDuration, PropertyRepeat, PropertyUrgent,
	}
}

func (t PropertyType) String() string { return string(t) }

func (t PropertyType) IsValid() bool {
	switch t {
	case PropertyCheckbox, PropertyDate, PropertyTag, PropertyPriority, PropertyContact,
		PropertyMemo, PropertyPerson, PropertyDuration, PropertyRepeat, PropertyUrgent:
		return true
	default:
		return false
	}
}

// IsSingular reports whether a block may carry at most one property of t.
func (t PropertyType) IsSingular() bool {
	switch t {
	case PropertyCheckbox, PropertyDate, PropertyPriority, PropertyRepeat, PropertyUrgent:
		return true
	default:
		return false
	}
}

// DefaultName is the label given to a freshly added property.
func (t PropertyType) DefaultName() string {
	switch t {
	case PropertyCheckbox:
		return "Done"
	case PropertyDate:
		return "Date"
	case PropertyTag:
		return "Tags"
	case PropertyPriority:
		return "Priority"
	case PropertyContact:
		return "Contact"
	case PropertyMemo:
		return "Memo"
	case PropertyPerson:
		return "Student"
	case PropertyDuration:
		return "Duration"
	case PropertyRepeat:
		return "Repeat"
	case PropertyUrgent:
		return "TOP 3"
	default:
		return string(t)
	}
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
	PriorityNone   Priority = "none"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow, PriorityNone:
		return true
	default:
		return false
	}
}

// Weight orders priorities: high=0 ... none=3. Unknown levels weigh as none.
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// Property is a typed, named attribute attached to a block.
type Property struct {
	ID    string
	Type  PropertyType
	Name  string
	Value Value
}

// Validate checks that the value tag matches the property type and that the
// payload is well formed.
func (p Property) Validate() error {
	if !p.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownPropertyType, p.Type)
	}
	if p.Value == nil {
		return fmt.Errorf("%w: %s property has no value", ErrInvalidValue, p.Type)
	}
	if p.Value.Type() != p.Type {
		return fmt.Errorf("%w: %s value on %s property", ErrInvalidValue, p.Value.Type(), p.Type)
	}
	return p.Value.Validate()
}

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

func validClock(s string) bool {
	return s == "" || clockPattern.MatchString(s)
}
