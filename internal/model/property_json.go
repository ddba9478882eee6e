package model

import (
	"encoding/json"
	"fmt"
)

type propertyJSON struct {
	ID           string          `json:"id"`
	PropertyType PropertyType    `json:"propertyType"`
	Name         string          `json:"name"`
	Value        json.RawMessage `json:"value"`
}

func (p Property) MarshalJSON() ([]byte, error) {
	raw, err := MarshalValue(p.Value)
	if err != nil {
		return nil, fmt.Errorf("property %s: %w", p.ID, err)
	}
	return json.Marshal(propertyJSON{
		ID:           p.ID,
		PropertyType: p.Type,
		Name:         p.Name,
		Value:        raw,
	})
}

func (p *Property) UnmarshalJSON(data []byte) error {
	var in propertyJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	v, err := UnmarshalValue(in.Value)
	if err != nil {
		return fmt.Errorf("property %s: %w", in.ID, err)
	}
	if in.PropertyType == "" {
		in.PropertyType = v.Type()
	}
	if v.Type() != in.PropertyType {
		return fmt.Errorf("%w: property %s has %s value", ErrInvalidValue, in.ID, v.Type())
	}
	*p = Property{ID: in.ID, Type: in.PropertyType, Name: in.Name, Value: v}
	return nil
}

// MarshalValue encodes v as a flat object carrying a "type" discriminator
// next to the payload fields.
func MarshalValue(v Value) ([]byte, error) {
	switch tv := v.(type) {
	case CheckboxValue:
		return json.Marshal(struct {
			Type PropertyType `json:"type"`
			CheckboxValue
		}{tv.Type(), tv})
	case DateValue:
		return json.Marshal(struct {
			Type PropertyType `json:"type"`
			DateValue
		}{tv.Type(), tv})
	case TagValue:
		if tv.TagIDs == nil {
			tv.TagIDs = []string{}
		}
		return json.Marshal(struct {
			Type PropertyType `json:"type"`
			TagValue
		}{tv.Type(), tv})
	case PriorityValue:
		return json.Marshal(struct {
			Type PropertyType `json:"type"`
			PriorityValue
		}{tv.Type(), tv})
	case ContactValue:
		return json.Marshal(struct {
			Type PropertyType `json:"type"`
			ContactValue
		}{tv.Type(), tv})
	case MemoValue:
		return json.Marshal(struct {
			Type PropertyType `json:"type"`
			MemoValue
		}{tv.Type(), tv})
	case PersonValue:
		if tv.BlockIDs == nil {
			tv.BlockIDs = []string{}
		}
		return json.Marshal(struct {
			Type PropertyType `json:"type"`
			PersonValue
		}{tv.Type(), tv})
	case DurationValue:
		return json.Marshal(struct {
			Type PropertyType `json:"type"`
			DurationValue
		}{tv.Type(), tv})
	case RepeatValue:
		return json.Marshal(struct {
			Type PropertyType `json:"type"`
			RepeatValue
		}{tv.Type(), tv})
	case UrgentValue:
		return json.Marshal(struct {
			Type PropertyType `json:"type"`
			UrgentValue
		}{tv.Type(), tv})
	case nil:
		return nil, fmt.Errorf("%w: nil value", ErrInvalidValue)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownPropertyType, v)
	}
}

// UnmarshalValue decodes a tagged value object produced by MarshalValue.
func UnmarshalValue(data []byte) (Value, error) {
	var head struct {
		Type PropertyType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}
	switch head.Type {
	case PropertyCheckbox:
		return decodeAs[CheckboxValue](data)
	case PropertyDate:
		return decodeAs[DateValue](data)
	case PropertyTag:
		v, err := decodeAs[TagValue](data)
		if err == nil && v.TagIDs == nil {
			v.TagIDs = []string{}
		}
		return v, err
	case PropertyPriority:
		v, err := decodeAs[PriorityValue](data)
		if err == nil && v.Level == "" {
			v.Level = PriorityNone
		}
		return v, err
	case PropertyContact:
		return decodeAs[ContactValue](data)
	case PropertyMemo:
		return decodeAs[MemoValue](data)
	case PropertyPerson:
		v, err := decodeAs[PersonValue](data)
		if err == nil && v.BlockIDs == nil {
			v.BlockIDs = []string{}
		}
		return v, err
	case PropertyDuration:
		return decodeAs[DurationValue](data)
	case PropertyRepeat:
		v, err := decodeAs[RepeatValue](data)
		if err == nil && v.Config != nil && v.Config.Interval <= 0 {
			v.Config.Interval = 1
		}
		return v, err
	case PropertyUrgent:
		return decodeAs[UrgentValue](data)
	case "":
		return nil, fmt.Errorf("%w: missing value type", ErrInvalidValue)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPropertyType, head.Type)
	}
}

func decodeAs[V Value](data []byte) (V, error) {
	var v V
	if err := json.Unmarshal(data, &v); err != nil {
		return v, err
	}
	return v, nil
}
