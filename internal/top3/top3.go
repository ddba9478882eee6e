// Package top3 manages the at-most-three daily priority slots. State lives
// inside each block as an urgent property; every function here is pure and
// returns a new collection.
package top3

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/sandeepkv93/tutord/internal/model"
)

const (
	Slots  = 3
	NoSlot = -1
)

var ErrInvariant = errors.New("top3: invariant violated")

// IDFunc mints property ids for markers and checkboxes added by the engine.
type IDFunc func() string

// Item is one occupied slot.
type Item struct {
	Slot  int
	Block model.Block
}

// Occupied maps each taken slot index to its block id. Soft-deleting a block
// strips its marker, so deleted blocks never appear here.
func Occupied(blocks []model.Block) map[int]string {
	out := make(map[int]string, Slots)
	for _, b := range blocks {
		if u, ok := model.Lookup[model.UrgentValue](b); ok {
			out[u.SlotIndex] = b.ID
		}
	}
	return out
}

// NextAvailableSlot returns the lowest free slot or NoSlot.
func NextAvailableSlot(blocks []model.Block) int {
	taken := Occupied(blocks)
	for i := 0; i < Slots; i++ {
		if _, ok := taken[i]; !ok {
			return i
		}
	}
	return NoSlot
}

// Add marks block id as urgent. It is a no-op (false) when the block is
// missing or deleted, already urgent, when all slots are taken, or when the
// requested slot is out of range or occupied. A nil slot picks the lowest
// free index. A block without a checkbox gains an unchecked one.
func Add(blocks []model.Block, id string, slot *int, today model.Day, now time.Time, newID IDFunc) ([]model.Block, bool) {
	idx := indexOf(blocks, id)
	if idx < 0 || blocks[idx].IsDeleted || blocks[idx].Has(model.PropertyUrgent) {
		return blocks, false
	}
	taken := Occupied(blocks)
	if len(taken) >= Slots {
		return blocks, false
	}
	target := NextAvailableSlot(blocks)
	if slot != nil {
		target = *slot
		if target < 0 || target >= Slots {
			return blocks, false
		}
		if _, busy := taken[target]; busy {
			return blocks, false
		}
	}

	b := blocks[idx]
	if !b.Has(model.PropertyCheckbox) {
		b, _ = b.WithProperty(model.Property{
			ID:    newID(),
			Type:  model.PropertyCheckbox,
			Name:  model.PropertyCheckbox.DefaultName(),
			Value: model.CheckboxValue{Checked: false},
		})
	}
	b, ok := b.WithProperty(model.Property{
		ID:    newID(),
		Type:  model.PropertyUrgent,
		Name:  model.PropertyUrgent.DefaultName(),
		Value: model.UrgentValue{AddedAt: today, SlotIndex: target},
	})
	if !ok {
		return blocks, false
	}
	return replaceAt(blocks, idx, b.Touch(now)), true
}

// Remove strips the urgent marker from block id. Absent markers are a no-op.
func Remove(blocks []model.Block, id string, now time.Time) ([]model.Block, bool) {
	idx := indexOf(blocks, id)
	if idx < 0 {
		return blocks, false
	}
	b, ok := blocks[idx].WithoutType(model.PropertyUrgent)
	if !ok {
		return blocks, false
	}
	return replaceAt(blocks, idx, b.Touch(now)), true
}

// Items lists live urgent blocks ordered by slot.
func Items(blocks []model.Block) []Item {
	out := make([]Item, 0, Slots)
	for _, b := range blocks {
		if b.IsDeleted {
			continue
		}
		if u, ok := model.Lookup[model.UrgentValue](b); ok {
			out = append(out, Item{Slot: u.SlotIndex, Block: b})
		}
	}
	slices.SortFunc(out, func(a, b Item) int { return a.Slot - b.Slot })
	return out
}

// CheckInvariant verifies that at most Slots blocks are urgent and that their
// slot indices are distinct and in range.
func CheckInvariant(blocks []model.Block) error {
	seen := make(map[int]string, Slots)
	count := 0
	for _, b := range blocks {
		for _, p := range b.Properties {
			u, ok := p.Value.(model.UrgentValue)
			if !ok {
				continue
			}
			count++
			if u.SlotIndex < 0 || u.SlotIndex >= Slots {
				return fmt.Errorf("%w: block %s uses slot %d", ErrInvariant, b.ID, u.SlotIndex)
			}
			if other, dup := seen[u.SlotIndex]; dup {
				return fmt.Errorf("%w: slot %d shared by %s and %s", ErrInvariant, u.SlotIndex, other, b.ID)
			}
			seen[u.SlotIndex] = b.ID
		}
	}
	if count > Slots {
		return fmt.Errorf("%w: %d urgent markers", ErrInvariant, count)
	}
	return nil
}

func indexOf(blocks []model.Block, id string) int {
	for i, b := range blocks {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func replaceAt(blocks []model.Block, idx int, b model.Block) []model.Block {
	out := slices.Clone(blocks)
	out[idx] = b
	return out
}
