package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/tutord/internal/app"
	"github.com/sandeepkv93/tutord/internal/model"
)

func newTagCmd(opts *rootOptions) *cobra.Command {
	var color string
	add := &cobra.Command{
		Use:   "add <name...>",
		Short: "Create a tag",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(opts, false, func(cmd *cobra.Command, args []string, a *app.App) error {
			name := strings.Join(args, " ")
			if _, ok := a.Store.Tags().ResolveTag(name); ok {
				return fmt.Errorf("tag %q already exists", name)
			}
			t, err := a.Store.UpsertTag(cmd.Context(), model.Tag{Name: name, Color: color})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added tag #%s (%s)\n", t.Name, shortID(t.ID))
			return nil
		}),
	}
	add.Flags().StringVar(&color, "color", "", "display color, e.g. #ff8800")

	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage tags",
	}
	cmd.AddCommand(
		add,
		&cobra.Command{
			Use:     "list",
			Aliases: []string{"ls"},
			Short:   "List tags",
			Args:    cobra.NoArgs,
			RunE: withApp(opts, false, func(cmd *cobra.Command, _ []string, a *app.App) error {
				w := cmd.OutOrStdout()
				tags := a.Store.Tags()
				if len(tags) == 0 {
					fmt.Fprintln(w, "No tags.")
					return nil
				}
				for _, t := range tags {
					fmt.Fprintf(w, "%-8s #%s", shortID(t.ID), t.Name)
					if t.Color != "" {
						fmt.Fprintf(w, "  %s", t.Color)
					}
					fmt.Fprintln(w)
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "rm <tag>",
			Short: "Delete a tag and strip it from every block",
			Args:  cobra.ExactArgs(1),
			RunE: withApp(opts, false, func(cmd *cobra.Command, args []string, a *app.App) error {
				t, ok := a.Store.Tags().ResolveTag(args[0])
				if !ok {
					return fmt.Errorf("unknown tag %q", args[0])
				}
				if err := a.Store.DeleteTag(cmd.Context(), t.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted tag #%s\n", t.Name)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "set <id> [tag...]",
			Short: "Replace a block's tags; no tags clears them",
			Args:  cobra.MinimumNArgs(1),
			RunE: withApp(opts, false, func(cmd *cobra.Command, args []string, a *app.App) error {
				b, err := a.Store.Resolve(args[0])
				if err != nil {
					return err
				}
				tags := a.Store.Tags()
				ids := make([]string, 0, len(args)-1)
				for _, ref := range args[1:] {
					t, ok := tags.ResolveTag(strings.TrimPrefix(ref, "#"))
					if !ok {
						return fmt.Errorf("unknown tag %q", ref)
					}
					ids = append(ids, t.ID)
				}
				p, ok := b.PropertyOf(model.PropertyTag)
				if !ok {
					if p, err = a.Store.AddProperty(cmd.Context(), b.ID, model.PropertyTag, ""); err != nil {
						return err
					}
				}
				next, err := a.Store.UpdateProperty(cmd.Context(), b.ID, p.ID, model.TagValue{TagIDs: ids})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", displayTitle(next), blockDetail(next, tags))
				return nil
			}),
		},
	)
	return cmd
}

func newViewCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Manage custom views",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <name> <type...>",
			Short: "Create a view of blocks carrying any of the property types",
			Args:  cobra.MinimumNArgs(2),
			RunE: withApp(opts, false, func(cmd *cobra.Command, args []string, a *app.App) error {
				types := make([]model.PropertyType, 0, len(args)-1)
				for _, s := range args[1:] {
					t, err := parsePropertyType(s)
					if err != nil {
						return err
					}
					types = append(types, t)
				}
				v, err := a.Store.UpsertCustomView(cmd.Context(), model.CustomView{Name: args[0], PropertyIDs: types})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added view %s (%s)\n", v.Name, shortID(v.ID))
				return nil
			}),
		},
		&cobra.Command{
			Use:     "list",
			Aliases: []string{"ls"},
			Short:   "List custom views",
			Args:    cobra.NoArgs,
			RunE: withApp(opts, false, func(cmd *cobra.Command, _ []string, a *app.App) error {
				w := cmd.OutOrStdout()
				views := a.Store.CustomViews()
				if len(views) == 0 {
					fmt.Fprintln(w, "No custom views.")
					return nil
				}
				for _, v := range views {
					types := make([]string, len(v.PropertyIDs))
					for i, t := range v.PropertyIDs {
						types[i] = string(t)
					}
					fmt.Fprintf(w, "%-8s %-16s %s\n", shortID(v.ID), v.Name, strings.Join(types, ","))
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "rm <view>",
			Short: "Delete a custom view",
			Args:  cobra.ExactArgs(1),
			RunE: withApp(opts, false, func(cmd *cobra.Command, args []string, a *app.App) error {
				id := resolveCustomView(a, args[0])
				if err := a.Store.DeleteCustomView(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted view %s\n", args[0])
				return nil
			}),
		},
	)
	return cmd
}
