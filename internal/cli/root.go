// Package cli wires the tutord command tree. The bare command launches the
// TUI; subcommands print to stdout and exit.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/tutord/internal/app"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersion sets the build information printed by `tutord version`.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

type rootOptions struct {
	configPath string
	// newApp is swapped in tests.
	newApp func(ctx context.Context, opts app.Options) (*app.App, error)
}

// NewRootCmd builds a fresh command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&rootOptions{newApp: app.New})
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:   "tutord",
		Short: "A block-based planner for private tutors",
		Long: `tutord keeps students, lessons, todos and routines as typed blocks.
Run it without arguments for the terminal UI, or use a subcommand for
scripted access to the same workspace.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         withApp(opts, true, runTUI),
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default $TUTORD_CONFIG or the user config dir)")

	top3Cmd := &cobra.Command{
		Use:   "top3",
		Short: "Manage today's TOP-3 priorities",
	}
	top3Cmd.AddCommand(
		newTop3AddCmd(opts),
		newTop3RemoveCmd(opts),
		newTop3ListCmd(opts),
	)

	root.AddCommand(
		newTodayCmd(opts),
		newWeekCmd(opts),
		newListCmd(opts),
		newClassifyCmd(opts),
		newAddCmd(opts),
		newCheckCmd(opts),
		newEditCmd(opts),
		newPinCmd(opts),
		newRemoveCmd(opts),
		newRestoreCmd(opts),
		newDateCmd(opts),
		newPropCmd(opts),
		newNextCmd(opts),
		newTagCmd(opts),
		newViewCmd(opts),
		top3Cmd,
		newArchiveCmd(opts),
		newHistoryCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
		newSeedCmd(opts),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().ExecuteContext(context.Background())
}

// withApp boots the application before fn and closes it afterwards.
func withApp(opts *rootOptions, interactive bool, fn func(*cobra.Command, []string, *app.App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
			cmd.SetContext(ctx)
		}
		a, err := opts.newApp(ctx, app.Options{ConfigPath: opts.configPath, Interactive: interactive})
		if err != nil {
			return fmt.Errorf("start tutord: %w", err)
		}
		defer a.Close()
		return fn(cmd, args, a)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tutord %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
