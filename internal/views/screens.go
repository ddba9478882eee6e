package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Row is one block line. ID is usually the short id shown to the user.
type Row struct {
	ID       string
	Title    string
	Detail   string
	Checkbox bool
	Done     bool
	Pinned   bool
	Selected bool
}

type Section struct {
	Title string
	Rows  []Row
	// Empty is printed when Rows is empty; a blank Empty hides the section.
	Empty string
}

type Top3SlotData struct {
	Slot int
	Row  *Row
}

type TodayPanelData struct {
	Date      string
	Top3      []Top3SlotData
	Lessons   []Row
	Deadlines []Row
	Selected  string
}

type BlocksPanelData struct {
	Title    string
	Sections []Section
}

type WeekColumnData struct {
	Day       string
	Weekday   string
	IsToday   bool
	Lessons   []Row
	Deadlines []Row
}

type WeekPanelData struct {
	Start   string
	Columns []WeekColumnData
}

type HistoryDayData struct {
	Date  string
	Items []Row
}

type HistoryPanelData struct {
	Days []HistoryDayData
}

type DetailPanelData struct {
	ID         string
	Title      string
	Category   string
	Properties []string
	Body       string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderRow(r Row) string {
	cursor := " "
	if r.Selected {
		cursor = ">"
	}
	mark := ""
	if r.Checkbox {
		mark = "[ ] "
		if r.Done {
			mark = "[x] "
		}
	}
	pin := ""
	if r.Pinned {
		pin = pinnedStyle.Render("*") + " "
	}
	title := r.Title
	if title == "" {
		title = "(untitled)"
	}
	if r.Done {
		title = doneStyle.Render(title)
	}
	line := fmt.Sprintf("%s %s%s%s", cursor, pin, mark, title)
	if r.ID != "" {
		line += " " + dimStyle.Render(r.ID)
	}
	if r.Detail != "" {
		line += " " + dimStyle.Render(r.Detail)
	}
	if r.Selected {
		return cursorStyle.Render(cursor) + line[len(cursor):]
	}
	return line
}

func RenderSection(s Section) string {
	if len(s.Rows) == 0 && s.Empty == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString(sectionStyle.Render(s.Title) + "\n")
	if len(s.Rows) == 0 {
		b.WriteString(dimStyle.Render("  "+s.Empty) + "\n")
		return b.String()
	}
	for _, r := range s.Rows {
		b.WriteString(RenderRow(r) + "\n")
	}
	return b.String()
}

func RenderTodayPanel(data TodayPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("today: %s\n", data.Date))
	b.WriteString("actions: [j/k]move [space]check [t]top3 [u]untop [enter]details\n\n")

	b.WriteString(sectionStyle.Render("TOP-3") + "\n")
	for _, slot := range data.Top3 {
		if slot.Row == nil {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  %d. (empty)", slot.Slot+1)) + "\n")
			continue
		}
		b.WriteString(fmt.Sprintf("%d.", slot.Slot+1) + RenderRow(*slot.Row) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(RenderSection(Section{Title: "Lessons", Rows: data.Lessons, Empty: "no lessons today"}))
	b.WriteString("\n")
	b.WriteString(RenderSection(Section{Title: "Deadlines", Rows: data.Deadlines, Empty: "nothing due"}))
	return strings.TrimSpace(b.String())
}

func RenderBlocksPanel(data BlocksPanelData) string {
	var b strings.Builder
	title := data.Title
	if title == "" {
		title = "blocks"
	}
	b.WriteString(title + ":\n")
	b.WriteString("actions: [j/k]move [space]check [p]pin [d]delete [t]top3\n")
	rendered := 0
	for _, s := range data.Sections {
		out := RenderSection(s)
		if out == "" {
			continue
		}
		b.WriteString("\n" + out)
		rendered++
	}
	if rendered == 0 {
		b.WriteString("\n(no blocks)")
	}
	return strings.TrimSpace(b.String())
}

func RenderWeekPanel(data WeekPanelData) string {
	cols := make([]string, 0, len(data.Columns))
	for _, c := range data.Columns {
		var b strings.Builder
		head := fmt.Sprintf("%s %s", c.Weekday, dayOfMonth(c.Day))
		if c.IsToday {
			head = todayColumnStyle.Render(head)
		}
		b.WriteString(head + "\n")
		for _, r := range c.Lessons {
			b.WriteString(compactRow("@", r) + "\n")
		}
		for _, r := range c.Deadlines {
			b.WriteString(compactRow("-", r) + "\n")
		}
		if len(c.Lessons)+len(c.Deadlines) == 0 {
			b.WriteString(dimStyle.Render("·") + "\n")
		}
		cols = append(cols, lipgloss.NewStyle().Width(14).MarginRight(1).Render(strings.TrimRight(b.String(), "\n")))
	}
	header := fmt.Sprintf("week of %s\nactions: [h/l]prev/next week [j/k]move\n", data.Start)
	return header + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func RenderHistoryPanel(data HistoryPanelData) string {
	var b strings.Builder
	b.WriteString("history:\n")
	if len(data.Days) == 0 {
		b.WriteString("(no archived TOP-3 yet)")
		return b.String()
	}
	for _, d := range data.Days {
		b.WriteString("\n" + RenderSection(Section{Title: d.Date, Rows: d.Items}))
	}
	return strings.TrimSpace(b.String())
}

func RenderDetailPanel(data DetailPanelData) string {
	if data.ID == "" {
		return "details:\n(no selection)"
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("details: %s\n", data.Title))
	b.WriteString(fmt.Sprintf("id: %s\n", data.ID))
	b.WriteString(fmt.Sprintf("category: %s\n", data.Category))
	for _, p := range data.Properties {
		b.WriteString("- " + p + "\n")
	}
	if data.Body != "" {
		b.WriteString("\n" + data.Body)
	}
	return strings.TrimSpace(b.String())
}

func RenderHelpPanel(data HelpPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("help (%s):\n", data.CurrentView))
	for _, line := range data.Bindings {
		b.WriteString(line + "\n")
	}
	if data.HelpView != "" {
		b.WriteString("\n" + data.HelpView)
	}
	return strings.TrimSpace(b.String())
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: %s", input)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

func compactRow(marker string, r Row) string {
	title := r.Title
	if r.Detail != "" {
		title = r.Detail + " " + title
	}
	line := marker + " " + truncate(title, 12)
	if r.Done {
		line = doneStyle.Render(line)
	}
	if r.Selected {
		line = cursorStyle.Render(line)
	}
	return line
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

func dayOfMonth(day string) string {
	if len(day) < 10 {
		return day
	}
	return day[5:]
}
