package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/tutord/internal/app"
	"github.com/sandeepkv93/tutord/internal/top3"
)

func newTop3AddCmd(opts *rootOptions) *cobra.Command {
	var slot int
	cmd := &cobra.Command{
		Use:   "add <id>",
		Short: "Put a block into a TOP-3 slot",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, false, func(cmd *cobra.Command, args []string, a *app.App) error {
			b, err := a.Store.Resolve(args[0])
			if err != nil {
				return err
			}
			var want *int
			if slot != 0 {
				if slot < 1 || slot > top3.Slots {
					return fmt.Errorf("--slot must be between 1 and %d", top3.Slots)
				}
				idx := slot - 1
				want = &idx
			}
			ok, err := a.Store.AddToTop3(cmd.Context(), b.ID, want)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if !ok {
				fmt.Fprintf(w, "TOP-3 unchanged: %s is already listed, deleted, or no matching slot is free\n", b.Title())
				return nil
			}
			fmt.Fprintf(w, "Added %s to TOP-3\n", b.Title())
			printTop3(w, a.Store.Top3())
			return nil
		}),
	}
	cmd.Flags().IntVarP(&slot, "slot", "s", 0, "slot 1-3 (default: lowest free)")
	return cmd
}

func newTop3RemoveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Take a block out of TOP-3",
		Args:    cobra.ExactArgs(1),
		RunE: withApp(opts, false, func(cmd *cobra.Command, args []string, a *app.App) error {
			b, err := a.Store.Resolve(args[0])
			if err != nil {
				return err
			}
			ok, err := a.Store.RemoveFromTop3(cmd.Context(), b.ID)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is not in TOP-3\n", b.Title())
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from TOP-3\n", b.Title())
			return nil
		}),
	}
}

func newTop3ListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show the current TOP-3",
		Args:    cobra.NoArgs,
		RunE: withApp(opts, false, func(cmd *cobra.Command, _ []string, a *app.App) error {
			printTop3(cmd.OutOrStdout(), a.Store.Top3())
			return nil
		}),
	}
}
