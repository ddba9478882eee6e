// Package projection derives the block subsets and orderings shown by each
// view. Everything here is a pure function of its inputs; soft-deleted blocks
// never appear in any result.
package projection

import (
	"slices"

	"github.com/sandeepkv93/tutord/internal/model"
)

type ViewKind string

const (
	ViewAll      ViewKind = "all"
	ViewTag      ViewKind = "tag"
	ViewCalendar ViewKind = "calendar"
	ViewCustom   ViewKind = "custom"
)

func (k ViewKind) IsValid() bool {
	switch k {
	case ViewAll, ViewTag, ViewCalendar, ViewCustom:
		return true
	default:
		return false
	}
}

// View names a projection. Tag is a tag id or name, Date narrows the
// calendar view to one day, CustomViewID picks a custom view definition.
type View struct {
	Kind         ViewKind
	Tag          string
	Date         model.Day
	CustomViewID string
}

// TagResolver turns a tag reference into a tag.
type TagResolver interface {
	ResolveTag(ref string) (model.Tag, bool)
}

// FilterForView returns the blocks visible in view, preserving input order.
// Unknown tags, unknown custom views and unknown kinds yield an empty result.
func FilterForView(blocks []model.Block, view View, tags TagResolver, custom []model.CustomView) []model.Block {
	switch view.Kind {
	case ViewAll, "":
		return keep(blocks, func(model.Block) bool { return true })
	case ViewTag:
		tagID, ok := resolveTagID(view.Tag, tags)
		if !ok {
			return []model.Block{}
		}
		return keep(blocks, func(b model.Block) bool { return hasTag(b, tagID) })
	case ViewCalendar:
		if view.Date.IsZero() {
			return keep(blocks, func(b model.Block) bool { return b.Has(model.PropertyDate) })
		}
		return keep(blocks, func(b model.Block) bool {
			d, ok := model.Lookup[model.DateValue](b)
			return ok && d.Date == view.Date
		})
	case ViewCustom:
		def, ok := findCustomView(custom, view.CustomViewID)
		if !ok {
			return []model.Block{}
		}
		return keep(blocks, func(b model.Block) bool {
			for _, p := range b.Properties {
				if slices.Contains(def.PropertyIDs, p.Type) {
					return true
				}
			}
			return false
		})
	default:
		return []model.Block{}
	}
}

func keep(blocks []model.Block, pred func(model.Block) bool) []model.Block {
	out := make([]model.Block, 0, len(blocks))
	for _, b := range blocks {
		if b.IsDeleted || !pred(b) {
			continue
		}
		out = append(out, b)
	}
	return out
}

func resolveTagID(ref string, tags TagResolver) (string, bool) {
	if ref == "" {
		return "", false
	}
	if tags == nil {
		return ref, true
	}
	t, ok := tags.ResolveTag(ref)
	if !ok {
		return "", false
	}
	return t.ID, true
}

func hasTag(b model.Block, tagID string) bool {
	v, ok := model.Lookup[model.TagValue](b)
	return ok && slices.Contains(v.TagIDs, tagID)
}

func findCustomView(views []model.CustomView, id string) (model.CustomView, bool) {
	for _, v := range views {
		if v.ID == id {
			return v, true
		}
	}
	return model.CustomView{}, false
}

// PinnedFirst moves pinned blocks to the front, keeping relative order.
func PinnedFirst(blocks []model.Block) []model.Block {
	out := slices.Clone(blocks)
	slices.SortStableFunc(out, func(a, b model.Block) int {
		switch {
		case a.IsPinned == b.IsPinned:
			return 0
		case a.IsPinned:
			return -1
		default:
			return 1
		}
	})
	return out
}
