package update

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tutord/internal/commands"
	"github.com/sandeepkv93/tutord/internal/model"
	"github.com/sandeepkv93/tutord/internal/projection"
)

// selectedRef stands for the block under the cursor in palette commands.
const selectedRef = "."

func (m Model) openPalette(prefill string) Model {
	m.Palette.Active = true
	m.Palette.Input = prefill
	m.commandInput.SetValue(prefill)
	m.commandInput.CursorEnd()
	m.commandInput.Focus()
	m.Status = StatusBar{Text: "command palette active", IsError: false}
	return m
}

func (m Model) closePalette() Model {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
	return m
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m = m.closePalette()
		m.Status = StatusBar{Text: "command palette closed", IsError: false}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		m = m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.commandInput.CursorEnd()
			m.Palette.Input = m.commandInput.Value()
			return m
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		_ = cmd
		m.Palette.Input = m.commandInput.Value()
	}
	return m
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	m = m.closePalette()
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}
	if m.store == nil {
		m.Status = StatusBar{Text: "no workspace loaded", IsError: true}
		return m
	}

	ctx := context.Background()
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			b, err := m.store.CreateBlock(ctx, a.Name, "")
			if err != nil {
				return commands.Result{}, err
			}
			m.SelectedID = b.ID
			if m.CurrentView == ViewHistory {
				m.CurrentView = ViewBlocks
			}
			return commands.Result{Message: fmt.Sprintf("added %s (%s)", b.Title(), shortID(b.ID))}, nil
		},
		Top3: func(a commands.Top3Args) (commands.Result, error) {
			b, err := m.resolve(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			ok, err := m.store.AddToTop3(ctx, b.ID, a.Slot)
			if err != nil {
				return commands.Result{}, err
			}
			if !ok {
				return commands.Result{Message: fmt.Sprintf("TOP-3 unchanged for %s", b.Title())}, nil
			}
			return commands.Result{Message: fmt.Sprintf("added %s to TOP-3", b.Title())}, nil
		},
		Untop: func(a commands.TargetArgs) (commands.Result, error) {
			b, err := m.resolve(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			ok, err := m.store.RemoveFromTop3(ctx, b.ID)
			if err != nil {
				return commands.Result{}, err
			}
			if !ok {
				return commands.Result{Message: fmt.Sprintf("%s is not in TOP-3", b.Title())}, nil
			}
			return commands.Result{Message: fmt.Sprintf("removed %s from TOP-3", b.Title())}, nil
		},
		Check: func(a commands.TargetArgs) (commands.Result, error) {
			b, err := m.resolve(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			next, err := m.store.ToggleChecked(ctx, b.ID)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: checkedMessage(next)}, nil
		},
		Show: func(a commands.ShowArgs) (commands.Result, error) {
			return m.show(a)
		},
		Archive: func() (commands.Result, error) {
			res := m.store.ArchiveTop3(ctx)
			if !res.Changed() {
				return commands.Result{Message: "nothing to archive"}, nil
			}
			return commands.Result{Message: fmt.Sprintf("archived %d block(s) for %s", len(res.Archived), res.Date)}, nil
		},
		Prop: func(a commands.PropArgs) (commands.Result, error) {
			b, err := m.resolve(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			p, err := m.store.AddProperty(ctx, b.ID, a.Type, a.Name)
			if err != nil {
				return commands.Result{}, err
			}
			if p.ID == "" {
				return commands.Result{Message: fmt.Sprintf("%s already has a %s property", b.Title(), a.Type)}, nil
			}
			return commands.Result{Message: fmt.Sprintf("added %s to %s", p.Name, b.Title())}, nil
		},
		Pin: func(a commands.TargetArgs) (commands.Result, error) {
			b, err := m.resolve(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			next, err := m.store.SetPinned(ctx, b.ID, !b.IsPinned)
			if err != nil {
				return commands.Result{}, err
			}
			if next.IsPinned {
				return commands.Result{Message: fmt.Sprintf("pinned %s", next.Title())}, nil
			}
			return commands.Result{Message: fmt.Sprintf("unpinned %s", next.Title())}, nil
		},
		Delete: func(a commands.TargetArgs) (commands.Result, error) {
			b, err := m.resolve(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			if _, err := m.store.SoftDelete(ctx, b.ID); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("deleted %s (restore %s)", b.Title(), shortID(b.ID))}, nil
		},
		Restore: func(a commands.TargetArgs) (commands.Result, error) {
			b, err := m.resolve(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			if _, err := m.store.Restore(ctx, b.ID); err != nil {
				return commands.Result{}, err
			}
			m.SelectedID = b.ID
			return commands.Result{Message: fmt.Sprintf("restored %s", b.Title())}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.LastError = err
		m.notify("Command Failed", err.Error(), "error", false)
		m.log.Debug("palette command failed", slog.String("command", raw), slog.Any("error", err))
	} else {
		m.Status = StatusBar{Text: res.Message, IsError: false}
		m.notify("Command", res.Message, "info", false)
	}
	m.clampCursor()
	return m
}

func (m Model) resolve(ref string) (model.Block, error) {
	if ref == selectedRef {
		ref = m.SelectedID
	}
	return m.store.Resolve(ref)
}

func (m *Model) show(a commands.ShowArgs) (commands.Result, error) {
	switch a.Subject {
	case commands.SubjectToday:
		m.switchView(ViewToday)
	case commands.SubjectWeek:
		m.WeekOffset = 0
		m.switchView(ViewWeek)
	case commands.SubjectBlocks:
		m.switchView(ViewBlocks)
	case commands.SubjectHistory:
		m.switchView(ViewHistory)
	case commands.SubjectAll:
		m.openList("all blocks", projection.View{Kind: projection.ViewAll})
	case commands.SubjectCalendar:
		m.openList("calendar", projection.View{Kind: projection.ViewCalendar})
	case commands.SubjectDate:
		m.openList("calendar "+a.Date.String(), projection.View{Kind: projection.ViewCalendar, Date: a.Date})
	case commands.SubjectTag:
		title := "tag " + a.Ref
		if t, ok := m.store.Tags().ResolveTag(a.Ref); ok {
			title = "tag " + t.Name
		}
		m.openList(title, projection.View{Kind: projection.ViewTag, Tag: a.Ref})
	case commands.SubjectView:
		title := "view " + a.Ref
		for _, cv := range m.store.CustomViews() {
			if cv.ID == a.Ref || strings.EqualFold(cv.Name, a.Ref) {
				title = "view " + cv.Name
				a.Ref = cv.ID
				break
			}
		}
		m.openList(title, projection.View{Kind: projection.ViewCustom, CustomViewID: a.Ref})
	default:
		return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown subject: %s", a.Subject)}
	}
	return commands.Result{Message: fmt.Sprintf("showing %s", strings.ToLower(m.screenTitle()))}, nil
}

func (m *Model) openList(title string, v projection.View) {
	m.List = ListState{Title: title, View: v}
	m.switchView(ViewList)
}

func checkedMessage(b model.Block) string {
	if b.Checked() {
		return fmt.Sprintf("checked %s", b.Title())
	}
	return fmt.Sprintf("unchecked %s", b.Title())
}
