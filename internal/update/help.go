package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/tutord/internal/views"
)

// keyHelp feeds bubbles/help: the short form lists global keys, the full
// form adds a column for the current view.
type keyHelp struct {
	global []key.Binding
	view   []key.Binding
}

func (k keyHelp) ShortHelp() []key.Binding { return k.global }

func (k keyHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.global, k.view}
}

var paletteHelp = []string{
	"add <name>",
	"top3 <id> [1-3]   untop <id>",
	"check <id>   pin <id>",
	"delete <id>   restore <id>",
	"prop <id> <type> [name]",
	"show today|week|blocks|history|all|calendar",
	"show tag:<ref>|date:<YYYY-MM-DD>|view:<id>",
	"archive",
}

// bind turns "h/l" style labels into a binding on each key.
func bind(label, desc string) key.Binding {
	return key.NewBinding(key.WithKeys(strings.Split(label, "/")...), key.WithHelp(label, desc))
}

func (m Model) keyHelp() keyHelp {
	k := m.Keys
	global := []key.Binding{
		bind(k.Today+"/"+k.Blocks+"/"+k.Week+"/"+k.History, "today, blocks, week, history"),
		bind("tab", "next view"),
		bind("/", "command palette"),
		bind("a", "add a block"),
		bind(k.Help, "toggle help"),
		bind(k.Quit, "quit"),
	}

	selection := []key.Binding{
		bind("j/k", "move selection"),
		bind("space", "toggle checkbox"),
		bind("t", "add to TOP-3"),
		bind("u", "remove from TOP-3"),
		bind("p", "pin or unpin"),
		bind("d", "delete (restore from palette)"),
	}
	var view []key.Binding
	switch m.CurrentView {
	case ViewToday, ViewBlocks:
		view = selection
	case ViewWeek:
		view = append([]key.Binding{bind("h/l", "previous / next week")}, selection...)
	case ViewList:
		view = append([]key.Binding{bind("esc", "back to Blocks")}, selection...)
	}
	return keyHelp{global: global, view: view}
}

func (m Model) renderHelpView() string {
	kh := m.keyHelp()
	lines := make([]string, 0, len(kh.view)+len(paletteHelp)+2)
	if len(kh.view) == 0 {
		lines = append(lines, "no keys specific to this view")
	}
	for _, b := range kh.view {
		h := b.Help()
		lines = append(lines, fmt.Sprintf("%-6s %s", h.Key, h.Desc))
	}
	lines = append(lines, "", "palette commands (. is the selected block):")
	for _, c := range paletteHelp {
		lines = append(lines, "  "+c)
	}

	hm := m.helpModel
	hm.ShowAll = false
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    lines,
		HelpView:    hm.View(kh),
	})
}
