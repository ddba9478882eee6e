package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/tutord/internal/app"
	"github.com/sandeepkv93/tutord/internal/classify"
	"github.com/sandeepkv93/tutord/internal/model"
	"github.com/sandeepkv93/tutord/internal/projection"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	var (
		view   string
		tag    string
		date   string
		custom string
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List blocks through a view filter",
		Long:    "List blocks through one of the all, tag, calendar or custom views. Soft-deleted blocks are never shown.",
		Args:    cobra.NoArgs,
		RunE: withApp(opts, false, func(cmd *cobra.Command, _ []string, a *app.App) error {
			v := projection.View{Kind: projection.ViewKind(strings.ToLower(view)), Tag: tag, CustomViewID: custom}
			if !v.Kind.IsValid() {
				return fmt.Errorf("unknown view %q (want all, tag, calendar or custom)", view)
			}
			if date != "" {
				d, err := model.ParseDay(date)
				if err != nil {
					return err
				}
				v.Date = d
			}
			if v.Kind == projection.ViewCustom {
				v.CustomViewID = resolveCustomView(a, custom)
			}
			blocks := projection.FilterForView(a.Store.Blocks(), v, a.Store.Tags(), a.Store.CustomViews())
			if v.Kind == projection.ViewCalendar {
				projection.SortAgenda(blocks)
			} else {
				blocks = projection.PinnedFirst(blocks)
			}
			printBlocks(cmd.OutOrStdout(), blocks, a.Store.Tags(), "No matching blocks.")
			return nil
		}),
	}
	cmd.Flags().StringVarP(&view, "view", "v", string(projection.ViewAll), "view kind: all, tag, calendar, custom")
	cmd.Flags().StringVarP(&tag, "tag", "t", "", "tag id or name for --view tag")
	cmd.Flags().StringVarP(&date, "date", "d", "", "day (YYYY-MM-DD) for --view calendar")
	cmd.Flags().StringVar(&custom, "custom", "", "custom view id or name for --view custom")
	return cmd
}

// resolveCustomView accepts a custom view id or a case-insensitive name.
func resolveCustomView(a *app.App, ref string) string {
	for _, cv := range a.Store.CustomViews() {
		if cv.ID == ref || strings.EqualFold(cv.Name, ref) {
			return cv.ID
		}
	}
	return ref
}

func newClassifyCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "classify",
		Short: "Group blocks by derived category",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, false, func(cmd *cobra.Command, _ []string, a *app.App) error {
			w := cmd.OutOrStdout()
			groups := a.Sorter.Group(a.Store.Blocks())
			tags := a.Store.Tags()
			for i, c := range classify.Categories() {
				if i > 0 {
					fmt.Fprintln(w)
				}
				fmt.Fprintf(w, "%s (%d)\n", c.Label(), len(groups[c]))
				for _, b := range projection.PinnedFirst(groups[c]) {
					fmt.Fprintf(w, "  %-8s %s", shortID(b.ID), displayTitle(b))
					if d := blockDetail(b, tags); d != "" {
						fmt.Fprintf(w, "  %s", d)
					}
					fmt.Fprintln(w)
				}
			}
			return nil
		}),
	}
}

func newAddCmd(opts *rootOptions) *cobra.Command {
	var content string
	cmd := &cobra.Command{
		Use:   "add <name...>",
		Short: "Create a block",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(opts, false, func(cmd *cobra.Command, args []string, a *app.App) error {
			b, err := a.Store.CreateBlock(cmd.Context(), strings.Join(args, " "), content)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s\n", shortID(b.ID), b.Title())
			return nil
		}),
	}
	cmd.Flags().StringVar(&content, "content", "", "markdown body")
	return cmd
}

func newCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <id>",
		Short: "Toggle a block's checkbox",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, false, func(cmd *cobra.Command, args []string, a *app.App) error {
			b, err := a.Store.Resolve(args[0])
			if err != nil {
				return err
			}
			next, err := a.Store.ToggleChecked(cmd.Context(), b.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", displayTitle(next))
			return nil
		}),
	}
}
