package model

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestDayHelpers(t *testing.T) {
	d := MustDay("2024-02-28")
	if d.AddDays(1) != "2024-02-29" || d.AddDays(2) != "2024-03-01" {
		t.Fatalf("unexpected AddDays results: %s %s", d.AddDays(1), d.AddDays(2))
	}
	if d.Weekday() != time.Wednesday {
		t.Fatalf("unexpected weekday: %s", d.Weekday())
	}
	if d.WeekStart() != "2024-02-25" {
		t.Fatalf("unexpected week start: %s", d.WeekStart())
	}
	if _, err := ParseDay("2024-02-30"); !errors.Is(err, ErrInvalidDay) {
		t.Fatalf("expected ErrInvalidDay, got %v", err)
	}

	tokyo := time.FixedZone("JST", 9*3600)
	instant := time.Date(2024, 3, 9, 20, 0, 0, 0, time.UTC)
	if got := DayOf(instant, tokyo); got != "2024-03-10" {
		t.Fatalf("expected local day 2024-03-10, got %s", got)
	}
	if got := DayOf(instant, nil); got != "2024-03-09" {
		t.Fatalf("expected UTC day 2024-03-09, got %s", got)
	}
}

func TestDefaultValue(t *testing.T) {
	today := Day("2024-05-01")
	for _, pt := range PropertyTypes() {
		v, ok := DefaultValue(pt, today)
		if !ok {
			t.Fatalf("no default for %s", pt)
		}
		if v.Type() != pt {
			t.Fatalf("default for %s has type %s", pt, v.Type())
		}
		if err := v.Validate(); err != nil {
			t.Fatalf("default for %s is invalid: %v", pt, err)
		}
	}
	if v, _ := DefaultValue(PropertyDate, today); v.(DateValue).Date != today {
		t.Fatalf("date default must be today, got %+v", v)
	}
	if v, _ := DefaultValue(PropertyRepeat, today); v.(RepeatValue).Config != nil {
		t.Fatalf("repeat default must have nil config, got %+v", v)
	}
	if _, ok := DefaultValue("rating", today); ok {
		t.Fatal("expected unknown type to have no default")
	}
}

func TestBlockWithPropertySingularity(t *testing.T) {
	b := NewBlock("b-1", "Task", "", time.Now())
	b, ok := b.WithProperty(Property{ID: "c1", Type: PropertyCheckbox, Value: CheckboxValue{}})
	if !ok {
		t.Fatal("expected first checkbox to be added")
	}
	if _, ok := b.WithProperty(Property{ID: "c2", Type: PropertyCheckbox, Value: CheckboxValue{}}); ok {
		t.Fatal("second checkbox must be rejected")
	}
	b, ok = b.WithProperty(Property{ID: "m1", Type: PropertyMemo, Value: MemoValue{Text: "a"}})
	if !ok {
		t.Fatal("expected memo to be added")
	}
	b, ok = b.WithProperty(Property{ID: "m2", Type: PropertyMemo, Value: MemoValue{Text: "b"}})
	if !ok {
		t.Fatal("memo is not singular")
	}
	if _, ok := b.WithProperty(Property{ID: "m2", Type: PropertyTag, Value: TagValue{}}); ok {
		t.Fatal("duplicate property id must be rejected")
	}
	memo, _ := Lookup[MemoValue](b)
	if memo.Text != "a" {
		t.Fatalf("lookup must return the first match, got %q", memo.Text)
	}
}

func TestBlockWithValueReplacesWholeValue(t *testing.T) {
	b := NewBlock("b-1", "Lesson", "", time.Now())
	b, _ = b.WithProperty(Property{ID: "d", Type: PropertyDate, Value: DateValue{Date: "2024-01-01", Time: "10:00"}})

	next, err := b.WithValue("d", DateValue{Date: "2024-01-02"})
	if err != nil {
		t.Fatalf("replace value: %v", err)
	}
	got, _ := Lookup[DateValue](next)
	if got.Time != "" || got.Date != "2024-01-02" {
		t.Fatalf("value was patched instead of replaced: %+v", got)
	}
	orig, _ := Lookup[DateValue](b)
	if orig.Date != "2024-01-01" {
		t.Fatalf("receiver was mutated: %+v", orig)
	}

	if _, err := b.WithValue("d", CheckboxValue{}); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue for mismatched tag, got %v", err)
	}
	if _, err := b.WithValue("d", DateValue{Time: "10:00"}); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue for time without date, got %v", err)
	}
	if _, err := b.WithValue("missing", DateValue{}); !errors.Is(err, ErrPropertyNotFound) {
		t.Fatalf("expected ErrPropertyNotFound, got %v", err)
	}
}

func TestBlockCloneIsDeep(t *testing.T) {
	b := NewBlock("b-1", "", "", time.Now())
	b, _ = b.WithProperty(Property{ID: "t", Type: PropertyTag, Value: TagValue{TagIDs: []string{"math"}}})
	b, _ = b.WithProperty(Property{ID: "r", Type: PropertyRepeat, Value: RepeatValue{Config: &RepeatConfig{Type: RepeatWeekly, Interval: 1, Weekdays: []int{1}}}})

	c := b.Clone()
	c.Properties[0].Value.(TagValue).TagIDs[0] = "art"
	c.Properties[1].Value.(RepeatValue).Config.Weekdays[0] = 5

	tags, _ := Lookup[TagValue](b)
	rep, _ := Lookup[RepeatValue](b)
	if tags.TagIDs[0] != "math" || rep.Config.Weekdays[0] != 1 {
		t.Fatalf("clone shares state with original: %+v %+v", tags, rep.Config)
	}
}

func TestBlockWithoutHelpers(t *testing.T) {
	b := NewBlock("b-1", "", "", time.Now())
	b, _ = b.WithProperty(Property{ID: "u", Type: PropertyUrgent, Value: UrgentValue{AddedAt: "2024-01-01"}})
	b, _ = b.WithProperty(Property{ID: "m", Type: PropertyMemo, Value: MemoValue{}})

	stripped, ok := b.WithoutType(PropertyUrgent)
	if !ok || stripped.Has(PropertyUrgent) || !stripped.Has(PropertyMemo) {
		t.Fatalf("unexpected WithoutType result: %+v", stripped.Properties)
	}
	if !b.Has(PropertyUrgent) {
		t.Fatal("WithoutType mutated the receiver")
	}
	if _, ok := stripped.WithoutType(PropertyUrgent); ok {
		t.Fatal("expected no-op when type is absent")
	}
	gone, ok := b.WithoutProperty("m")
	if !ok || gone.Has(PropertyMemo) || len(b.Properties) != 2 {
		t.Fatalf("unexpected WithoutProperty result: %+v", gone.Properties)
	}
}

func TestBlockJSONRoundTrip(t *testing.T) {
	created := time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)
	b := NewBlock("b-1", "Piano with Mia", "## Scales\n- C major", created)
	props := []Property{
		{ID: "p1", Type: PropertyDate, Name: "Date", Value: DateValue{Date: "2024-03-10", Time: "16:00", EndTime: "17:00"}},
		{ID: "p2", Type: PropertyRepeat, Name: "Repeat", Value: RepeatValue{Config: &RepeatConfig{Type: RepeatMonthly, Interval: 1, EndDate: "2024-12-31"}}},
		{ID: "p3", Type: PropertyPerson, Name: "Student", Value: PersonValue{BlockIDs: []string{"s-1"}}},
		{ID: "p4", Type: PropertyTag, Name: "Tags", Value: TagValue{TagIDs: []string{"t-1", "t-2"}}},
		{ID: "p5", Type: PropertyUrgent, Name: "TOP 3", Value: UrgentValue{AddedAt: "2024-03-09", SlotIndex: 2}},
		{ID: "p6", Type: PropertyCheckbox, Name: "Done", Value: CheckboxValue{Checked: true}},
		{ID: "p7", Type: PropertyPriority, Name: "Priority", Value: PriorityValue{Level: PriorityHigh}},
		{ID: "p8", Type: PropertyContact, Name: "Contact", Value: ContactValue{Phone: "555-0100"}},
		{ID: "p9", Type: PropertyDuration, Name: "Duration", Value: DurationValue{Minutes: 60}},
		{ID: "p10", Type: PropertyMemo, Name: "Memo", Value: MemoValue{Text: "bring book"}},
	}
	b.Properties = props

	raw, err := json.Marshal([]Block{b})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out []Block
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out) != 1 || !reflect.DeepEqual(out[0], b) {
		t.Fatalf("round trip mismatch:\n got %#v\nwant %#v", out, b)
	}
	for _, d := range []Day{"2024-03-10", "2024-04-10", "2024-04-11", "2025-01-10"} {
		if AppearsOnDate(out[0], d) != AppearsOnDate(b, d) {
			t.Fatalf("recurrence differs after round trip on %s", d)
		}
	}
}

func TestPropertyUnmarshalRejectsUnknownType(t *testing.T) {
	var p Property
	err := json.Unmarshal([]byte(`{"id":"x","propertyType":"rating","name":"","value":{"type":"rating","stars":3}}`), &p)
	if !errors.Is(err, ErrUnknownPropertyType) {
		t.Fatalf("expected ErrUnknownPropertyType, got %v", err)
	}
	err = json.Unmarshal([]byte(`{"id":"x","propertyType":"date","name":"","value":{"type":"checkbox","checked":true}}`), &p)
	if !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue for mismatched tags, got %v", err)
	}
}

func TestRepeatDecodeDefaultsInterval(t *testing.T) {
	for _, raw := range []string{
		`{"type":"repeat","config":{"type":"weekly","weekdays":[1,3]}}`,
		`{"type":"repeat","config":{"type":"daily","interval":0}}`,
		`{"type":"repeat","config":{"type":"daily","interval":-2}}`,
	} {
		v, err := UnmarshalValue([]byte(raw))
		if err != nil {
			t.Fatalf("decode %s: %v", raw, err)
		}
		r := v.(RepeatValue)
		if r.Config.Interval != 1 {
			t.Fatalf("%s: interval = %d, want 1", raw, r.Config.Interval)
		}
		if err := r.Validate(); err != nil {
			t.Fatalf("%s: decoded value should validate: %v", raw, err)
		}
	}
	v, err := UnmarshalValue([]byte(`{"type":"repeat","config":null}`))
	if err != nil || v.(RepeatValue).Config != nil {
		t.Fatalf("null config must stay nil: %v %+v", err, v)
	}
}

func TestValueWireShape(t *testing.T) {
	raw, err := MarshalValue(UrgentValue{AddedAt: "2024-03-09", SlotIndex: 1})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `{"type":"urgent","addedAt":"2024-03-09","slotIndex":1}` {
		t.Fatalf("unexpected wire shape: %s", raw)
	}
	raw, _ = MarshalValue(RepeatValue{})
	if string(raw) != `{"type":"repeat","config":null}` {
		t.Fatalf("unexpected wire shape: %s", raw)
	}
}
