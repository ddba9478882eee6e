package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrPropertyNotFound = errors.New("model: property not found")

// Block is the atomic note/task record. Blocks are treated as values: every
// With*/Without* helper returns a modified copy and leaves the receiver intact.
type Block struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Content    string     `json:"content"`
	Properties []Property `json:"properties"`
	IsPinned   bool       `json:"isPinned"`
	IsDeleted  bool       `json:"isDeleted"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func NewBlock(id, name, content string, now time.Time) Block {
	return Block{
		ID:         id,
		Name:       name,
		Content:    content,
		Properties: []Property{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (b Block) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return errors.New("model: block id is required")
	}
	seen := make(map[PropertyType]bool)
	for _, p := range b.Properties {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("block %s: %w", b.ID, err)
		}
		if p.Type.IsSingular() && seen[p.Type] {
			return fmt.Errorf("%w: block %s has more than one %s property", ErrInvalidValue, b.ID, p.Type)
		}
		seen[p.Type] = true
	}
	return nil
}

// Title is the display label: the name, or the first content line.
func (b Block) Title() string {
	if name := strings.TrimSpace(b.Name); name != "" {
		return name
	}
	line, _, _ := strings.Cut(strings.TrimSpace(b.Content), "\n")
	return strings.TrimSpace(line)
}

func (b Block) Clone() Block {
	out := b
	if b.Properties != nil {
		out.Properties = make([]Property, len(b.Properties))
		for i, p := range b.Properties {
			if p.Value != nil {
				p.Value = p.Value.clone()
			}
			out.Properties[i] = p
		}
	}
	return out
}

func (b Block) Has(t PropertyType) bool {
	_, ok := b.PropertyOf(t)
	return ok
}

// PropertyOf returns the first property of type t.
func (b Block) PropertyOf(t PropertyType) (Property, bool) {
	for _, p := range b.Properties {
		if p.Type == t {
			return p, true
		}
	}
	return Property{}, false
}

func (b Block) PropertyByID(id string) (Property, bool) {
	for _, p := range b.Properties {
		if p.ID == id {
			return p, true
		}
	}
	return Property{}, false
}

// Lookup returns the value of the first property whose payload is a V.
func Lookup[V Value](b Block) (V, bool) {
	var zero V
	want := zero.Type()
	for _, p := range b.Properties {
		if p.Type != want {
			continue
		}
		if v, ok := p.Value.(V); ok {
			return v, true
		}
	}
	return zero, false
}

// Checked reports whether the block has a ticked checkbox.
func (b Block) Checked() bool {
	v, ok := Lookup[CheckboxValue](b)
	return ok && v.Checked
}

// WithProperty appends p. It reports false, leaving the block unchanged, when
// p's type is singular and already present or when p.ID is taken.
func (b Block) WithProperty(p Property) (Block, bool) {
	if p.Type.IsSingular() && b.Has(p.Type) {
		return b, false
	}
	if _, taken := b.PropertyByID(p.ID); taken {
		return b, false
	}
	out := b.Clone()
	out.Properties = append(out.Properties, p)
	return out, true
}

// WithValue replaces the whole value of property propID.
func (b Block) WithValue(propID string, v Value) (Block, error) {
	idx := -1
	for i, p := range b.Properties {
		if p.ID == propID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return b, fmt.Errorf("%w: %s", ErrPropertyNotFound, propID)
	}
	next := b.Properties[idx]
	next.Value = v
	if err := next.Validate(); err != nil {
		return b, err
	}
	out := b.Clone()
	out.Properties[idx] = next
	return out, nil
}

func (b Block) WithoutProperty(propID string) (Block, bool) {
	out := b.Clone()
	kept := out.Properties[:0]
	removed := false
	for _, p := range out.Properties {
		if p.ID == propID {
			removed = true
			continue
		}
		kept = append(kept, p)
	}
	if !removed {
		return b, false
	}
	out.Properties = kept
	return out, true
}

// WithoutType drops every property of type t.
func (b Block) WithoutType(t PropertyType) (Block, bool) {
	if !b.Has(t) {
		return b, false
	}
	out := b.Clone()
	kept := out.Properties[:0]
	for _, p := range out.Properties {
		if p.Type != t {
			kept = append(kept, p)
		}
	}
	out.Properties = kept
	return out, true
}

func (b Block) Touch(now time.Time) Block {
	b.UpdatedAt = now
	return b
}
