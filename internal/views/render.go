package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const defaultPaneWidth = 58

type AppData struct {
	Header       string
	Tabs         []string
	ActiveTab    int
	LeftPane     string
	RightPane    string
	StatusLine   string
	StatusError  bool
	Palette      string
	Footer       string
	Notification string
	// Width is the terminal width; zero keeps the default pane size.
	Width int
}

var (
	headerStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	tabStyle         = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("8"))
	activeTabStyle   = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("12"))
	statusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	paletteStyle     = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("12")).Padding(0, 1)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	sectionStyle     = lipgloss.NewStyle().Bold(true).Underline(true)
	cursorStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	doneStyle        = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("8"))
	dimStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	pinnedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	todayColumnStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
)

func RenderApp(data AppData) string {
	width := paneWidth(data.Width)
	var row string
	if strings.TrimSpace(data.RightPane) == "" {
		// a single pane takes both columns and the gap between them
		row = panelStyle.Width(2*width + 4).Render(data.LeftPane)
	} else {
		left := panelStyle.Width(width).Render(data.LeftPane)
		right := panelStyle.Width(width).Render(data.RightPane)
		row = lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	}

	status := statusStyle.Render(data.StatusLine)
	if data.StatusError {
		status = errorStyle.Render(data.StatusLine)
	}

	lines := []string{headerStyle.Render(data.Header)}
	if len(data.Tabs) > 0 {
		lines = append(lines, RenderTabs(data.Tabs, data.ActiveTab))
	}
	lines = append(lines, row)
	if data.Palette != "" {
		lines = append(lines, paletteStyle.Render(data.Palette))
	}
	if data.StatusLine != "" {
		lines = append(lines, status)
	}
	if data.Notification != "" {
		lines = append(lines, panelStyle.Render(data.Notification))
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

func RenderTabs(tabs []string, active int) string {
	out := make([]string, 0, len(tabs))
	for i, t := range tabs {
		if i == active {
			out = append(out, activeTabStyle.Render(t))
			continue
		}
		out = append(out, tabStyle.Render(t))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, out...)
}

// paneWidth splits the terminal between two bordered panes.
func paneWidth(total int) int {
	if total <= 0 {
		return defaultPaneWidth
	}
	w := total/2 - 4
	if w < 24 {
		return 24
	}
	return w
}

// RenderMarkdown renders block content with a built-in glamour style. On any
// renderer error the raw text is returned.
func RenderMarkdown(md, style string, width int) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	if style == "" {
		style = "dark"
	}
	opts := []glamour.TermRendererOption{glamour.WithStandardStyle(style)}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
