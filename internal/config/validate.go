package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour/styles"
	"golang.org/x/text/language"
)

// Validate checks the loaded values. Load calls it automatically.
func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("db_path is required")
	}
	if _, err := language.Parse(c.Locale); err != nil {
		return fmt.Errorf("locale %q: %w", c.Locale, err)
	}
	if err := c.Log.validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if c.Scheduler.Buffer <= 0 {
		return fmt.Errorf("scheduler.buffer must be > 0 (got %d)", c.Scheduler.Buffer)
	}
	if c.Scheduler.LessonLeadMinutes < 0 {
		return fmt.Errorf("scheduler.lesson_lead_minutes must be >= 0 (got %d)", c.Scheduler.LessonLeadMinutes)
	}
	switch c.UI.DefaultView {
	case "today", "blocks", "week", "history":
	default:
		return fmt.Errorf("ui.default_view %q is not one of today, blocks, week, history", c.UI.DefaultView)
	}
	if _, ok := styles.DefaultStyles[c.UI.MarkdownStyle]; !ok && c.UI.MarkdownStyle != styles.AutoStyle {
		return fmt.Errorf("ui.markdown_style %q is not a built-in glamour style", c.UI.MarkdownStyle)
	}
	return nil
}

func (l LogConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(l.Level)) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("level %q is not one of debug, info, warn, error", l.Level)
	}
	switch strings.ToLower(strings.TrimSpace(l.Format)) {
	case "json", "text":
	default:
		return fmt.Errorf("format %q is not one of json, text", l.Format)
	}
	return nil
}
