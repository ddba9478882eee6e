package classify

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/sandeepkv93/tutord/internal/model"
)

// Sorter orders blocks inside a single category. It owns a collator, which
// is not safe for concurrent use; give each goroutine its own Sorter.
type Sorter struct {
	collator *collate.Collator
}

// NewSorter builds a Sorter whose name ordering follows locale. An empty or
// unparsable locale falls back to English.
func NewSorter(locale string) *Sorter {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil || locale == "" {
		tag = language.English
	}
	return &Sorter{collator: collate.New(tag, collate.IgnoreCase)}
}

// Compare returns the comparator for category c. Ties fall back to block id
// so the ordering is total.
func (s *Sorter) Compare(c Category) func(a, b model.Block) int {
	var primary func(a, b model.Block) int
	switch c {
	case CategoryStudent, CategoryRoutine:
		primary = s.byName
	case CategoryLesson:
		primary = byDate
	case CategoryTodo:
		primary = byPriorityThenDate
	default:
		primary = newestFirst
	}
	return func(a, b model.Block) int {
		if r := primary(a, b); r != 0 {
			return r
		}
		return cmp.Compare(a.ID, b.ID)
	}
}

// Sort returns a sorted copy of blocks using the comparator for c.
func (s *Sorter) Sort(c Category, blocks []model.Block) []model.Block {
	out := slices.Clone(blocks)
	slices.SortStableFunc(out, s.Compare(c))
	return out
}

// Group classifies every live block and sorts each bucket. Soft-deleted
// blocks are dropped. Every category is present in the result.
func (s *Sorter) Group(blocks []model.Block) map[Category][]model.Block {
	out := make(map[Category][]model.Block, len(Categories()))
	for _, c := range Categories() {
		out[c] = []model.Block{}
	}
	for _, b := range blocks {
		if b.IsDeleted {
			continue
		}
		c := Classify(b)
		out[c] = append(out[c], b)
	}
	for c, items := range out {
		out[c] = s.Sort(c, items)
	}
	return out
}

func (s *Sorter) byName(a, b model.Block) int {
	return s.collator.CompareString(a.Name, b.Name)
}

func newestFirst(a, b model.Block) int {
	return b.CreatedAt.Compare(a.CreatedAt)
}

func byDate(a, b model.Block) int {
	return compareDays(blockDate(a), blockDate(b))
}

func byPriorityThenDate(a, b model.Block) int {
	if r := cmp.Compare(priorityWeight(a), priorityWeight(b)); r != 0 {
		return r
	}
	return byDate(a, b)
}

func blockDate(b model.Block) model.Day {
	v, ok := model.Lookup[model.DateValue](b)
	if !ok {
		return ""
	}
	return v.Date
}

func priorityWeight(b model.Block) int {
	v, ok := model.Lookup[model.PriorityValue](b)
	if !ok {
		return model.PriorityNone.Weight()
	}
	return v.Level.Weight()
}

// compareDays sorts ascending with missing days last.
func compareDays(a, b model.Day) int {
	switch {
	case a.IsZero() && b.IsZero():
		return 0
	case a.IsZero():
		return 1
	case b.IsZero():
		return -1
	default:
		return cmp.Compare(a, b)
	}
}
