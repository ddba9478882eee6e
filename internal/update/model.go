package update

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/sandeepkv93/tutord/internal/classify"
	"github.com/sandeepkv93/tutord/internal/model"
	"github.com/sandeepkv93/tutord/internal/projection"
	"github.com/sandeepkv93/tutord/internal/scheduler"
	"github.com/sandeepkv93/tutord/internal/store"
)

type View string

const (
	ViewToday   View = "Today"
	ViewBlocks  View = "Blocks"
	ViewWeek    View = "Week"
	ViewHistory View = "History"
	ViewList    View = "List"
)

// ViewFromConfig maps the ui.default_view setting to a View.
func ViewFromConfig(name string) View {
	switch name {
	case "blocks":
		return ViewBlocks
	case "week":
		return ViewWeek
	case "history":
		return ViewHistory
	default:
		return ViewToday
	}
}

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Today   string
	Blocks  string
	Week    string
	History string
	Help    string
	Quit    string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

// ListState is the filtered projection opened from the palette.
type ListState struct {
	Title string
	View  projection.View
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type Model struct {
	CurrentView   View
	SelectedID    string
	Cursor        int
	WeekOffset    int
	List          ListState
	Palette       CommandPaletteState
	HelpVisible   bool
	Notifications []Notification
	Status        StatusBar
	Keys          GlobalKeyMap
	Quitting      bool
	LastError     error
	Width         int

	store         *store.Store
	sorter        *classify.Sorter
	engine        *scheduler.Engine
	rollover      func(context.Context) model.Day
	notifier      DesktopNotifier
	log           *slog.Logger
	markdownStyle string

	commandInput textinput.Model
	helpModel    help.Model
}

// Deps wires the model to the running application.
type Deps struct {
	Store  *store.Store
	Sorter *classify.Sorter
	// Engine may be nil; scheduler events are then never delivered.
	Engine *scheduler.Engine
	// Rollover archives the finished day and replans the engine. When nil the
	// model archives through the store directly.
	Rollover      func(context.Context) model.Day
	Notifier      DesktopNotifier
	Logger        *slog.Logger
	MarkdownStyle string
	DefaultView   View
}

type DesktopNotifier interface {
	Send(Notification) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Notification) error { return nil }

type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// SchedulerEventMsg carries a fired timer event into the update loop.
type SchedulerEventMsg struct {
	Event scheduler.Event
}

func NewModel(deps Deps) Model {
	m := Model{
		CurrentView: deps.DefaultView,
		Keys: GlobalKeyMap{
			Today:   "1",
			Blocks:  "2",
			Week:    "3",
			History: "4",
			Help:    "?",
			Quit:    "q",
		},
		store:         deps.Store,
		sorter:        deps.Sorter,
		engine:        deps.Engine,
		rollover:      deps.Rollover,
		notifier:      deps.Notifier,
		log:           deps.Logger,
		markdownStyle: deps.MarkdownStyle,
	}
	if !isKnownView(m.CurrentView) || m.CurrentView == ViewList {
		m.CurrentView = ViewToday
	}
	if m.sorter == nil {
		m.sorter = classify.NewSorter("")
	}
	if m.notifier == nil {
		m.notifier = NoopDesktopNotifier{}
	}
	if m.log == nil {
		m.log = slog.Default()
	}
	if m.rollover == nil && deps.Store != nil {
		st := deps.Store
		m.rollover = func(ctx context.Context) model.Day {
			return st.ArchiveTop3(ctx).Date
		}
	}
	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.Placeholder = "add, top3, untop, check, show, prop, pin, delete, restore, archive"
	m.commandInput.CharLimit = 256
	m.helpModel = help.New()
	m.clampCursor()
	return m
}
