package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/tutord/internal/app"
	"github.com/sandeepkv93/tutord/internal/storage"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		history bool
		all     bool
		output  string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write blocks, history or the whole workspace as JSON",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, false, func(cmd *cobra.Command, _ []string, a *app.App) error {
			if history && all {
				return fmt.Errorf("--history and --all are mutually exclusive")
			}
			var (
				raw []byte
				err error
			)
			switch {
			case all:
				raw, err = storage.EncodeWorkspace(a.Store.Workspace())
			case history:
				raw, err = storage.EncodeHistory(a.Store.History())
			default:
				raw, err = storage.EncodeBlocks(a.Store.Blocks())
			}
			if err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			raw = append(raw, '\n')
			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(raw)
				return err
			}
			if err := os.WriteFile(output, raw, 0o600); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", output)
			return nil
		}),
	}
	cmd.Flags().BoolVar(&history, "history", false, "export the TOP-3 history instead of blocks")
	cmd.Flags().BoolVar(&all, "all", false, "export blocks, tags, custom views and history")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Replace the workspace from an export file",
		Long: `Replace the workspace from a JSON export. A bare block array replaces
only the blocks and keeps the current tags, custom views and history.`,
		Args: cobra.ExactArgs(1),
		RunE: withApp(opts, false, func(cmd *cobra.Command, args []string, a *app.App) error {
			raw, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			ws, err := storage.DecodeWorkspace(raw)
			if err != nil {
				return fmt.Errorf("decode %s: %w", args[0], err)
			}
			if firstNonSpace(raw) == '[' {
				cur := a.Store.Workspace()
				ws.Tags = cur.Tags
				ws.CustomViews = cur.CustomViews
				ws.History = cur.History
			}
			if err := a.Store.Replace(cmd.Context(), ws); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d block(s), %d tag(s), %d history day(s)\n",
				len(ws.Blocks), len(ws.Tags), len(ws.History))
			return nil
		}),
	}
}

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Reset blocks, tags and views to the starter examples",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, false, func(cmd *cobra.Command, _ []string, a *app.App) error {
			if len(a.Store.Blocks()) > 0 && !force {
				return fmt.Errorf("workspace already has blocks; pass --force to replace them")
			}
			ws := storage.Seed(a.Store.Today(), a.Store.Now())
			ws.History = a.Store.History()
			if err := a.Store.Replace(cmd.Context(), ws); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d block(s)\n", len(ws.Blocks))
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "replace existing blocks")
	return cmd
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return raw, nil
}

func firstNonSpace(raw []byte) byte {
	for _, c := range raw {
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return c
	}
	return 0
}
