package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/sandeepkv93/tutord/internal/classify"
	"github.com/sandeepkv93/tutord/internal/model"
)

const titleWidth = 38

func printBlockHeader(w io.Writer) {
	fmt.Fprintf(w, "%-8s %-12s %-40s %s\n", "ID", "CATEGORY", "TITLE", "DETAIL")
	fmt.Fprintln(w, strings.Repeat("-", 80))
}

func printBlock(w io.Writer, b model.Block, tags model.TagSet) {
	fmt.Fprintf(w, "%-8s %-12s %-40s %s\n",
		shortID(b.ID),
		classify.Classify(b),
		clip(displayTitle(b), titleWidth),
		blockDetail(b, tags))
}

func printBlocks(w io.Writer, blocks []model.Block, tags model.TagSet, empty string) {
	if len(blocks) == 0 {
		fmt.Fprintln(w, empty)
		return
	}
	printBlockHeader(w)
	for _, b := range blocks {
		printBlock(w, b, tags)
	}
}

func displayTitle(b model.Block) string {
	title := b.Title()
	if title == "" {
		title = "(untitled)"
	}
	if b.Has(model.PropertyCheckbox) {
		mark := "[ ] "
		if b.Checked() {
			mark = "[x] "
		}
		title = mark + title
	}
	if b.IsPinned {
		title = "* " + title
	}
	return title
}

func blockDetail(b model.Block, tags model.TagSet) string {
	var parts []string
	if d, ok := model.Lookup[model.DateValue](b); ok {
		parts = append(parts, d.String())
	}
	if r, ok := model.Lookup[model.RepeatValue](b); ok && r.Config != nil {
		parts = append(parts, r.Config.String())
	}
	if p, ok := model.Lookup[model.PriorityValue](b); ok && p.Level != model.PriorityNone {
		parts = append(parts, "!"+string(p.Level))
	}
	if tv, ok := model.Lookup[model.TagValue](b); ok {
		for _, id := range tv.TagIDs {
			if t, ok := tags.ResolveTag(id); ok {
				parts = append(parts, "#"+t.Name)
			}
		}
	}
	return strings.Join(parts, " ")
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(strings.TrimLeft(s, "# "))
	if s == "" {
		return "(untitled)"
	}
	return s
}
