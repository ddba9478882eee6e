package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/tutord/internal/app"
	"github.com/sandeepkv93/tutord/internal/model"
	"github.com/sandeepkv93/tutord/internal/update"
)

func runTUI(cmd *cobra.Command, _ []string, a *app.App) error {
	engine := a.StartScheduler()
	defer engine.Stop()

	var notifier update.DesktopNotifier = update.NoopDesktopNotifier{}
	if a.Config.UI.DesktopNotifications {
		notifier = update.ExecDesktopNotifier{}
	}
	m := update.NewModel(update.Deps{
		Store:  a.Store,
		Sorter: a.Sorter,
		Engine: engine,
		Rollover: func(ctx context.Context) model.Day {
			return a.Rollover(ctx, engine)
		},
		Notifier:      notifier,
		Logger:        a.Logger,
		MarkdownStyle: a.Config.UI.MarkdownStyle,
		DefaultView:   update.ViewFromConfig(a.Config.UI.DefaultView),
	})

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if ctx := cmd.Context(); ctx != nil {
		opts = append(opts, tea.WithContext(ctx))
	}
	if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
