package update

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/sandeepkv93/tutord/internal/classify"
	"github.com/sandeepkv93/tutord/internal/model"
	"github.com/sandeepkv93/tutord/internal/projection"
	"github.com/sandeepkv93/tutord/internal/top3"
	"github.com/sandeepkv93/tutord/internal/views"
)

const maxNotifications = 40

// selectable lists the blocks the cursor moves over, in screen order.
func (m Model) selectable() []model.Block {
	if m.store == nil {
		return nil
	}
	switch m.CurrentView {
	case ViewToday:
		return m.todayBlocks()
	case ViewBlocks:
		var out []model.Block
		groups := m.sorter.Group(m.store.Blocks())
		for _, c := range classify.Categories() {
			out = append(out, projection.PinnedFirst(groups[c])...)
		}
		return out
	case ViewWeek:
		var out []model.Block
		grid := m.weekGrid()
		for _, col := range grid.Columns {
			out = append(out, col.Lessons...)
			out = append(out, col.Deadlines...)
		}
		return dedupe(out)
	case ViewList:
		return m.listBlocks()
	default:
		return nil
	}
}

func (m Model) todayBlocks() []model.Block {
	today := m.store.Today()
	blocks := m.store.Blocks()
	var out []model.Block
	for _, it := range m.store.Top3() {
		out = append(out, it.Block)
	}
	out = append(out, projection.Lessons(blocks, today)...)
	out = append(out, projection.Deadlines(blocks, today)...)
	return dedupe(out)
}

func (m Model) weekGrid() projection.WeekGrid {
	day := m.store.Today().AddDays(7 * m.WeekOffset)
	return projection.Week(m.store.Blocks(), day)
}

func (m Model) listBlocks() []model.Block {
	blocks := projection.FilterForView(m.store.Blocks(), m.List.View, m.store.Tags(), m.store.CustomViews())
	if m.List.View.Kind == projection.ViewCalendar {
		projection.SortAgenda(blocks)
		return blocks
	}
	return projection.PinnedFirst(blocks)
}

func (m Model) selectedBlock() (model.Block, bool) {
	if m.SelectedID == "" || m.store == nil {
		return model.Block{}, false
	}
	b, ok := m.store.Block(m.SelectedID)
	if !ok || b.IsDeleted {
		return model.Block{}, false
	}
	return b, true
}

func (m *Model) clampCursor() {
	items := m.selectable()
	if len(items) == 0 {
		m.Cursor = 0
		m.SelectedID = ""
		return
	}
	if m.SelectedID != "" {
		if idx := slices.IndexFunc(items, func(b model.Block) bool { return b.ID == m.SelectedID }); idx >= 0 {
			m.Cursor = idx
			return
		}
	}
	if m.Cursor >= len(items) {
		m.Cursor = len(items) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
	m.SelectedID = items[m.Cursor].ID
}

func (m *Model) moveCursor(delta int) {
	items := m.selectable()
	if len(items) == 0 {
		return
	}
	m.Cursor += delta
	if m.Cursor < 0 {
		m.Cursor = 0
	}
	if m.Cursor >= len(items) {
		m.Cursor = len(items) - 1
	}
	m.SelectedID = items[m.Cursor].ID
}

func (m Model) row(b model.Block) views.Row {
	return views.Row{
		ID:       shortID(b.ID),
		Title:    b.Title(),
		Detail:   m.rowDetail(b),
		Checkbox: b.Has(model.PropertyCheckbox),
		Done:     b.Checked(),
		Pinned:   b.IsPinned,
		Selected: b.ID == m.SelectedID,
	}
}

func (m Model) rowDetail(b model.Block) string {
	var parts []string
	if d, ok := model.Lookup[model.DateValue](b); ok {
		if clock := d.Clock(); clock != "" {
			parts = append(parts, clock)
		}
		if d.Date != m.store.Today() && m.CurrentView != ViewWeek {
			parts = append(parts, d.Date.String())
		}
	}
	if p, ok := model.Lookup[model.PriorityValue](b); ok && p.Level != model.PriorityNone {
		parts = append(parts, "!"+string(p.Level))
	}
	if tv, ok := model.Lookup[model.TagValue](b); ok {
		tags := m.store.Tags()
		for _, id := range tv.TagIDs {
			if t, ok := tags.ResolveTag(id); ok {
				parts = append(parts, "#"+t.Name)
			}
		}
	}
	return strings.Join(parts, " ")
}

func (m Model) rows(blocks []model.Block) []views.Row {
	out := make([]views.Row, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, m.row(b))
	}
	return out
}

func (m Model) renderTodayView() string {
	today := m.store.Today()
	blocks := m.store.Blocks()
	slots := make([]views.Top3SlotData, top3.Slots)
	for i := range slots {
		slots[i] = views.Top3SlotData{Slot: i}
	}
	for _, it := range m.store.Top3() {
		r := m.row(it.Block)
		slots[it.Slot].Row = &r
	}
	return views.RenderTodayPanel(views.TodayPanelData{
		Date:      fmt.Sprintf("%s (%s)", today, today.Weekday()),
		Top3:      slots,
		Lessons:   m.rows(projection.Lessons(blocks, today)),
		Deadlines: m.rows(projection.Deadlines(blocks, today)),
		Selected:  m.SelectedID,
	})
}

func (m Model) renderBlocksView() string {
	groups := m.sorter.Group(m.store.Blocks())
	sections := make([]views.Section, 0, len(groups))
	for _, c := range classify.Categories() {
		sections = append(sections, views.Section{
			Title: fmt.Sprintf("%s (%d)", c.Label(), len(groups[c])),
			Rows:  m.rows(projection.PinnedFirst(groups[c])),
		})
	}
	return views.RenderBlocksPanel(views.BlocksPanelData{Title: "blocks", Sections: sections})
}

func (m Model) renderWeekView() string {
	grid := m.weekGrid()
	today := m.store.Today()
	cols := make([]views.WeekColumnData, 0, projection.DaysPerWeek)
	for _, c := range grid.Columns {
		cols = append(cols, views.WeekColumnData{
			Day:       c.Day.String(),
			Weekday:   c.Day.Weekday().String()[:3],
			IsToday:   c.Day == today,
			Lessons:   m.rows(c.Lessons),
			Deadlines: m.rows(c.Deadlines),
		})
	}
	return views.RenderWeekPanel(views.WeekPanelData{Start: grid.Start.String(), Columns: cols})
}

func (m Model) renderHistoryView() string {
	history := m.store.History()
	days := make([]views.HistoryDayData, 0, len(history))
	// newest first
	for i := len(history) - 1; i >= 0; i-- {
		h := history[i]
		items := make([]views.Row, 0, len(h.Blocks))
		for _, hb := range h.Blocks {
			items = append(items, views.Row{
				ID:       shortID(hb.ID),
				Title:    firstLine(hb.Content),
				Checkbox: true,
				Done:     hb.Completed,
			})
		}
		days = append(days, views.HistoryDayData{Date: h.Date.String(), Items: items})
	}
	return views.RenderHistoryPanel(views.HistoryPanelData{Days: days})
}

func (m Model) renderListView() string {
	title := m.List.Title
	if title == "" {
		title = "all blocks"
	}
	return views.RenderBlocksPanel(views.BlocksPanelData{
		Title:    title,
		Sections: []views.Section{{Title: "results", Rows: m.rows(m.listBlocks()), Empty: "no matching blocks"}},
	})
}

func (m Model) renderDetailPane() string {
	b, ok := m.selectedBlock()
	if !ok {
		return views.RenderDetailPanel(views.DetailPanelData{})
	}
	props := make([]string, 0, len(b.Properties))
	for _, p := range b.Properties {
		props = append(props, fmt.Sprintf("%s: %s", p.Name, m.describeValue(p.Value)))
	}
	width := 0
	if m.Width > 0 {
		width = m.Width/2 - 8
	}
	return views.RenderDetailPanel(views.DetailPanelData{
		ID:         b.ID,
		Title:      b.Title(),
		Category:   classify.Classify(b).Label(),
		Properties: props,
		Body:       views.RenderMarkdown(b.Content, m.markdownStyle, width),
	})
}

// describeValue resolves tag and person ids to names where it can.
func (m Model) describeValue(v model.Value) string {
	switch typed := v.(type) {
	case model.TagValue:
		tags := m.store.Tags()
		names := make([]string, 0, len(typed.TagIDs))
		for _, id := range typed.TagIDs {
			if t, ok := tags.ResolveTag(id); ok {
				names = append(names, t.Name)
				continue
			}
			names = append(names, id)
		}
		return strings.Join(names, ", ")
	case model.PersonValue:
		names := make([]string, 0, len(typed.BlockIDs))
		for _, id := range typed.BlockIDs {
			if p, ok := m.store.Block(id); ok {
				names = append(names, p.Title())
				continue
			}
			names = append(names, id)
		}
		return strings.Join(names, ", ")
	case fmt.Stringer:
		return typed.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (m Model) renderCommandPalette() string {
	if !m.Palette.Active {
		return ""
	}
	return m.commandInput.View()
}

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	n := m.Notifications[len(m.Notifications)-1]
	return views.RenderNotification(n.Level, n.Title+": "+n.Body)
}

// notify records n in the in-app log. Desktop delivery is opt-in per call.
func (m *Model) notify(title, body, level string, desktop bool) {
	if strings.TrimSpace(body) == "" {
		return
	}
	n := Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    time.Now().UTC(),
	}
	m.Notifications = append(m.Notifications, n)
	if len(m.Notifications) > maxNotifications {
		m.Notifications = m.Notifications[len(m.Notifications)-maxNotifications:]
	}
	if desktop && m.notifier != nil {
		if err := m.notifier.Send(n); err != nil {
			m.log.Debug("desktop notification failed", slog.Any("error", err))
		}
	}
}

func dedupe(blocks []model.Block) []model.Block {
	seen := make(map[string]bool, len(blocks))
	out := make([]model.Block, 0, len(blocks))
	for _, b := range blocks {
		if seen[b.ID] {
			continue
		}
		seen[b.ID] = true
		out = append(out, b)
	}
	return out
}
