package update

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tutord/internal/model"
	"github.com/sandeepkv93/tutord/internal/scheduler"
	"github.com/sandeepkv93/tutord/internal/views"
)

const statusTTL = 4 * time.Second

var tabs = []View{ViewToday, ViewBlocks, ViewWeek, ViewHistory}

func (m Model) Init() tea.Cmd {
	if m.engine != nil {
		return waitForEventCmd(m.engine.C())
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = typed.Width
		m.helpModel.Width = typed.Width
		return m, nil
	case tea.KeyMsg:
		if m.Palette.Active {
			if typed.String() == "ctrl+c" {
				m.Quitting = true
				return m, tea.Quit
			}
			return m.handlePaletteKey(typed), nil
		}
		return m.handleKey(typed)
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.switchView(typed.View)
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		m.notify("Status", typed.Text, levelFromError(typed.IsError), false)
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify("Error", typed.Err.Error(), "error", false)
		}
		return m, nil
	case SchedulerEventMsg:
		m = m.handleSchedulerEvent(typed.Event)
		if m.engine != nil {
			return m, waitForEventCmd(m.engine.C())
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	case "/":
		return m.openPalette(""), nil
	case "a":
		return m.openPalette("add "), nil
	case m.Keys.Today:
		m.switchView(ViewToday)
	case m.Keys.Blocks:
		m.switchView(ViewBlocks)
	case m.Keys.Week:
		m.switchView(ViewWeek)
	case m.Keys.History:
		m.switchView(ViewHistory)
	case "tab":
		m.switchView(nextTab(m.CurrentView))
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		if m.HelpVisible {
			m.Status = StatusBar{Text: "help shown", IsError: false}
		} else {
			m.Status = StatusBar{Text: "help hidden", IsError: false}
		}
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "h", "left":
		if m.CurrentView == ViewWeek {
			m.WeekOffset--
			m.clampCursor()
		}
	case "l", "right":
		if m.CurrentView == ViewWeek {
			m.WeekOffset++
			m.clampCursor()
		}
	case "esc":
		if m.CurrentView == ViewList {
			m.switchView(ViewBlocks)
		}
	case " ", "space":
		return m.onSelected("check")
	case "t":
		return m.onSelected("top3")
	case "u":
		return m.onSelected("untop")
	case "p":
		return m.onSelected("pin")
	case "d":
		return m.onSelected("delete")
	}
	return m, nil
}

// onSelected runs a palette command against the block under the cursor.
func (m Model) onSelected(verb string) (tea.Model, tea.Cmd) {
	if m.SelectedID == "" {
		m.Status = StatusBar{Text: "no block selected", IsError: true}
		return m, nil
	}
	m.Palette.Input = fmt.Sprintf("%s %s", verb, m.SelectedID)
	m = m.executePaletteCommand()
	return m, clearStatusAfter(statusTTL)
}

func (m *Model) switchView(v View) {
	if m.CurrentView != v {
		m.Cursor = 0
	}
	m.CurrentView = v
	m.clampCursor()
}

func (m Model) handleSchedulerEvent(ev scheduler.Event) Model {
	switch ev.Kind {
	case scheduler.KindDayRollover:
		var day model.Day
		if m.rollover != nil {
			day = m.rollover(context.Background())
		}
		m.WeekOffset = 0
		m.clampCursor()
		text := fmt.Sprintf("new day: %s", m.store.Today())
		if !day.IsZero() {
			text = fmt.Sprintf("new day: %s, archived TOP-3 for %s", m.store.Today(), day)
		}
		m.Status = StatusBar{Text: text, IsError: false}
		m.notify("Rollover", text, "info", false)
		m.log.Info("day rollover", slog.String("event_id", ev.ID), slog.String("archived", day.String()))
	case scheduler.KindLessonStart:
		b, ok := m.store.Block(ev.BlockID)
		if !ok || b.IsDeleted {
			return m
		}
		when := ""
		if d, ok := model.Lookup[model.DateValue](b); ok && d.Time != "" {
			when = " at " + d.Time
		}
		text := fmt.Sprintf("%s starts%s", b.Title(), when)
		m.Status = StatusBar{Text: text, IsError: false}
		m.notify("Lesson", text, "info", true)
	default:
		m.log.Warn("unknown scheduler event", slog.String("kind", string(ev.Kind)))
	}
	return m
}

func waitForEventCmd(ch <-chan scheduler.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return SchedulerEventMsg{Event: ev}
	}
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return ClearStatusMsg{} })
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	if m.store == nil {
		return "tutord: no workspace loaded\n"
	}
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}
	var left string
	switch m.CurrentView {
	case ViewBlocks:
		left = m.renderBlocksView()
	case ViewWeek:
		left = m.renderWeekView()
	case ViewHistory:
		left = m.renderHistoryView()
	case ViewList:
		left = m.renderListView()
	default:
		left = m.renderTodayView()
	}
	right := m.renderDetailPane()
	if m.HelpVisible {
		right = m.renderHelpView()
	}
	if (m.CurrentView == ViewHistory || m.CurrentView == ViewWeek) && !m.HelpVisible {
		right = ""
	}

	tabNames := make([]string, 0, len(tabs))
	active := -1
	for i, v := range tabs {
		tabNames = append(tabNames, fmt.Sprintf("%d %s", i+1, v))
		if v == m.CurrentView {
			active = i
		}
	}
	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("tutord | %s | %s", m.store.Today(), m.screenTitle()),
		Tabs:         tabNames,
		ActiveTab:    active,
		LeftPane:     left,
		RightPane:    right,
		StatusLine:   status,
		StatusError:  m.Status.IsError,
		Palette:      m.renderCommandPalette(),
		Notification: m.renderNotificationsView(),
		Footer:       fmt.Sprintf("keys: %s-%s views | / cmd | a add | %s help | %s quit", m.Keys.Today, m.Keys.History, m.Keys.Help, m.Keys.Quit),
		Width:        m.Width,
	})
}

func (m Model) screenTitle() string {
	if m.CurrentView == ViewList && m.List.Title != "" {
		return m.List.Title
	}
	return string(m.CurrentView)
}

func isKnownView(v View) bool {
	switch v {
	case ViewToday, ViewBlocks, ViewWeek, ViewHistory, ViewList:
		return true
	default:
		return false
	}
}

func nextTab(cur View) View {
	for i, v := range tabs {
		if v == cur {
			return tabs[(i+1)%len(tabs)]
		}
	}
	return tabs[0]
}
