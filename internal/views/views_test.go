package views

import (
	"strings"
	"testing"
)

func TestRenderTodayPanelShowsEmptySlots(t *testing.T) {
	out := RenderTodayPanel(TodayPanelData{
		Date: "2024-03-10",
		Top3: []Top3SlotData{
			{Slot: 0, Row: &Row{ID: "a1b2", Title: "Grade quizzes", Checkbox: true}},
			{Slot: 1},
			{Slot: 2},
		},
		Lessons: []Row{{Title: "Algebra with Mina", Detail: "16:00-17:00"}},
	})
	for _, want := range []string{"2024-03-10", "Grade quizzes", "a1b2", "2. (empty)", "3. (empty)", "Algebra with Mina", "16:00-17:00", "nothing due"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in today panel:\n%s", want, out)
		}
	}
}

func TestRenderRowMarks(t *testing.T) {
	out := RenderRow(Row{Title: "Essay", Checkbox: true, Done: true, Pinned: true, Selected: true})
	if !strings.Contains(out, "[x]") || !strings.Contains(out, "*") || !strings.Contains(out, ">") {
		t.Fatalf("unexpected row: %q", out)
	}
	if out := RenderRow(Row{}); !strings.Contains(out, "(untitled)") {
		t.Fatalf("expected untitled placeholder, got %q", out)
	}
}

func TestRenderBlocksPanelSkipsEmptySections(t *testing.T) {
	out := RenderBlocksPanel(BlocksPanelData{Sections: []Section{
		{Title: "Inbox"},
		{Title: "Students", Rows: []Row{{Title: "Mina Park"}}},
	}})
	if strings.Contains(out, "Inbox") {
		t.Fatalf("empty section without placeholder should be hidden:\n%s", out)
	}
	if !strings.Contains(out, "Students") || !strings.Contains(out, "Mina Park") {
		t.Fatalf("missing students section:\n%s", out)
	}

	empty := RenderBlocksPanel(BlocksPanelData{})
	if !strings.Contains(empty, "(no blocks)") {
		t.Fatalf("expected placeholder, got %q", empty)
	}
}

func TestRenderWeekPanelColumns(t *testing.T) {
	days := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	data := WeekPanelData{Start: "2024-03-10"}
	for i, d := range days {
		col := WeekColumnData{Day: "2024-03-1" + string(rune('0'+i)), Weekday: d}
		if i == 1 {
			col.Lessons = []Row{{Title: "Piano", Detail: "16:00"}}
		}
		data.Columns = append(data.Columns, col)
	}
	out := RenderWeekPanel(data)
	for _, d := range days {
		if !strings.Contains(out, d) {
			t.Fatalf("missing %s column:\n%s", d, out)
		}
	}
	if !strings.Contains(out, "16:00 Piano") {
		t.Fatalf("missing lesson in week grid:\n%s", out)
	}
}

func TestRenderHistoryPanel(t *testing.T) {
	if out := RenderHistoryPanel(HistoryPanelData{}); !strings.Contains(out, "no archived") {
		t.Fatalf("unexpected empty history: %q", out)
	}
	out := RenderHistoryPanel(HistoryPanelData{Days: []HistoryDayData{
		{Date: "2024-03-09", Items: []Row{{Title: "Plan unit", Checkbox: true, Done: true}}},
	}})
	if !strings.Contains(out, "2024-03-09") || !strings.Contains(out, "[x]") {
		t.Fatalf("unexpected history:\n%s", out)
	}
}

func TestRenderAppLayout(t *testing.T) {
	out := RenderApp(AppData{
		Header:     "tutord",
		Tabs:       []string{"Today", "Blocks"},
		LeftPane:   "left",
		StatusLine: "status: saved",
		Palette:    RenderCommandPalette(true, "/add x"),
		Footer:     "keys",
	})
	for _, want := range []string{"tutord", "Today", "left", "command: /add x", "status: saved", "keys"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in layout:\n%s", want, out)
		}
	}
	if RenderCommandPalette(false, "x") != "" {
		t.Fatalf("inactive palette should render nothing")
	}
}

func TestRenderMarkdown(t *testing.T) {
	if RenderMarkdown("   ", "dark", 40) != "" {
		t.Fatalf("blank markdown should render empty")
	}
	out := RenderMarkdown("# Chapter 4\n\nfractions", "notty", 40)
	if !strings.Contains(out, "Chapter 4") || !strings.Contains(out, "fractions") {
		t.Fatalf("unexpected markdown output: %q", out)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 4); got != "abc…" {
		t.Fatalf("got %q", got)
	}
	if got := truncate("abc", 4); got != "abc" {
		t.Fatalf("got %q", got)
	}
}
