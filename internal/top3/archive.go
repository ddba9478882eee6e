package top3

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/sandeepkv93/tutord/internal/model"
)

// Result is the outcome of an archival pass.
type Result struct {
	Blocks   []model.Block
	History  []model.Top3History
	Date     model.Day
	Archived []model.HistoryBlock
}

// Changed reports whether the pass stripped any marker.
func (r Result) Changed() bool { return len(r.Archived) > 0 }

// Archive moves every urgent marker added before today into the history
// bucket for the day before today and strips the marker from its block.
// Existing buckets are merged, never replaced, so a second pass over its own
// output is a no-op.
func Archive(blocks []model.Block, history []model.Top3History, today model.Day, now time.Time) Result {
	res := Result{
		Blocks:   blocks,
		History:  history,
		Date:     today.AddDays(-1),
		Archived: []model.HistoryBlock{},
	}
	var out []model.Block
	for i, b := range blocks {
		u, ok := model.Lookup[model.UrgentValue](b)
		if !ok || !u.AddedAt.Before(today) {
			continue
		}
		stripped, _ := b.WithoutType(model.PropertyUrgent)
		if out == nil {
			out = slices.Clone(blocks)
		}
		out[i] = stripped.Touch(now)
		res.Archived = append(res.Archived, Snapshot(b))
	}
	if out == nil {
		return res
	}
	res.Blocks = out
	res.History = MergeHistory(history, model.Top3History{Date: res.Date, Blocks: res.Archived})
	return res
}

// Snapshot freezes the parts of a block that history keeps.
func Snapshot(b model.Block) model.HistoryBlock {
	content := b.Content
	if strings.TrimSpace(content) == "" {
		content = b.Title()
	}
	return model.HistoryBlock{ID: b.ID, Content: content, Completed: b.Checked()}
}

// MergeHistory folds entry into history keyed by date. Blocks already
// recorded for that date keep their original snapshot. The result is sorted
// newest date first and shares no slices with its inputs.
func MergeHistory(history []model.Top3History, entry model.Top3History) []model.Top3History {
	out := make([]model.Top3History, 0, len(history)+1)
	merged := false
	for _, h := range history {
		h.Blocks = slices.Clone(h.Blocks)
		if h.Date == entry.Date {
			for _, nb := range entry.Blocks {
				if !containsBlock(h.Blocks, nb.ID) {
					h.Blocks = append(h.Blocks, nb)
				}
			}
			merged = true
		}
		out = append(out, h)
	}
	if !merged && len(entry.Blocks) > 0 {
		out = append(out, model.Top3History{Date: entry.Date, Blocks: slices.Clone(entry.Blocks)})
	}
	slices.SortStableFunc(out, func(a, b model.Top3History) int { return cmp.Compare(b.Date, a.Date) })
	return out
}

// HistoryFor returns the bucket recorded for day.
func HistoryFor(history []model.Top3History, day model.Day) (model.Top3History, bool) {
	for _, h := range history {
		if h.Date == day {
			return h, true
		}
	}
	return model.Top3History{}, false
}

func containsBlock(items []model.HistoryBlock, id string) bool {
	for _, it := range items {
		if it.ID == id {
			return true
		}
	}
	return false
}
