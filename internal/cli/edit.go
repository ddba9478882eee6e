package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/tutord/internal/app"
	"github.com/sandeepkv93/tutord/internal/model"
)

func newEditCmd(opts *rootOptions) *cobra.Command {
	var name, content string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a block's name or markdown body",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, false, func(cmd *cobra.Command, args []string, a *app.App) error {
			b, err := a.Store.Resolve(args[0])
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if !flags.Changed("name") && !flags.Changed("content") {
				return fmt.Errorf("nothing to change; pass --name and/or --content")
			}
			if !flags.Changed("name") {
				name = b.Name
			}
			if !flags.Changed("content") {
				content = b.Content
			}
			next, err := a.Store.UpdateBlock(cmd.Context(), b.ID, name, content)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %s\n", shortID(next.ID), next.Title())
			return nil
		}),
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&content, "content", "", "new markdown body")
	return cmd
}

func newPinCmd(opts *rootOptions) *cobra.Command {
	var off bool
	cmd := &cobra.Command{
		Use:   "pin <id>",
		Short: "Pin a block to the top of its group",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, false, func(cmd *cobra.Command, args []string, a *app.App) error {
			b, err := a.Store.Resolve(args[0])
			if err != nil {
				return err
			}
			next, err := a.Store.SetPinned(cmd.Context(), b.ID, !off)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), displayTitle(next))
			return nil
		}),
	}
	cmd.Flags().BoolVar(&off, "off", false, "unpin instead")
	return cmd
}

func newRemoveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Soft-delete a block",
		Args:    cobra.ExactArgs(1),
		RunE: withApp(opts, false, func(cmd *cobra.Command, args []string, a *app.App) error {
			b, err := a.Store.Resolve(args[0])
			if err != nil {
				return err
			}
			if _, err := a.Store.SoftDelete(cmd.Context(), b.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s (tutord restore %s)\n", b.Title(), shortID(b.ID))
			return nil
		}),
	}
}

func newRestoreCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <id>",
		Short: "Bring back a soft-deleted block",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, false, func(cmd *cobra.Command, args []string, a *app.App) error {
			b, err := a.Store.Resolve(args[0])
			if err != nil {
				return err
			}
			if _, err := a.Store.Restore(cmd.Context(), b.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %s\n", b.Title())
			return nil
		}),
	}
}

func newDateCmd(opts *rootOptions) *cobra.Command {
	var until string
	cmd := &cobra.Command{
		Use:   "date <id> <YYYY-MM-DD> [HH:MM[-HH:MM]]",
		Short: "Set a block's date, adding the property when missing",
		Args:  cobra.RangeArgs(2, 3),
		RunE: withApp(opts, false, func(cmd *cobra.Command, args []string, a *app.App) error {
			b, err := a.Store.Resolve(args[0])
			if err != nil {
				return err
			}
			day, err := model.ParseDay(args[1])
			if err != nil {
				return err
			}
			v := model.DateValue{Date: day}
			if len(args) == 3 {
				v.Time, v.EndTime, _ = strings.Cut(args[2], "-")
			}
			if until != "" {
				if v.EndDate, err = model.ParseDay(until); err != nil {
					return err
				}
			}
			if err := v.Validate(); err != nil {
				return err
			}

			p, ok := b.PropertyOf(model.PropertyDate)
			if !ok {
				if p, err = a.Store.AddProperty(cmd.Context(), b.ID, model.PropertyDate, ""); err != nil {
					return err
				}
			}
			next, err := a.Store.UpdateProperty(cmd.Context(), b.ID, p.ID, v)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", displayTitle(next), blockDetail(next, a.Store.Tags()))
			return nil
		}),
	}
	cmd.Flags().StringVar(&until, "until", "", "end day for multi-day ranges")
	return cmd
}

func newPropCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prop",
		Short: "Add or remove block properties",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <id> <type> [name...]",
			Short: "Attach a property with its default value",
			Args:  cobra.MinimumNArgs(2),
			RunE: withApp(opts, false, func(cmd *cobra.Command, args []string, a *app.App) error {
				b, err := a.Store.Resolve(args[0])
				if err != nil {
					return err
				}
				t, err := parsePropertyType(args[1])
				if err != nil {
					return err
				}
				p, err := a.Store.AddProperty(cmd.Context(), b.ID, t, strings.Join(args[2:], " "))
				if err != nil {
					return err
				}
				if p.ID == "" {
					fmt.Fprintf(cmd.OutOrStdout(), "%s already has a %s property\n", b.Title(), t)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s property %q to %s\n", t, p.Name, b.Title())
				return nil
			}),
		},
		&cobra.Command{
			Use:   "rm <id> <type|property-id>",
			Short: "Remove a property by type or id",
			Args:  cobra.ExactArgs(2),
			RunE: withApp(opts, false, func(cmd *cobra.Command, args []string, a *app.App) error {
				b, err := a.Store.Resolve(args[0])
				if err != nil {
					return err
				}
				p, ok := b.PropertyByID(args[1])
				if !ok {
					p, ok = b.PropertyOf(model.PropertyType(strings.ToLower(args[1])))
				}
				if !ok {
					return fmt.Errorf("%s has no property %q", b.Title(), args[1])
				}
				if p.Type == model.PropertyUrgent {
					return fmt.Errorf("the urgent marker is managed by TOP-3; use tutord top3 remove")
				}
				if _, err := a.Store.RemoveProperty(cmd.Context(), b.ID, p.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from %s\n", p.Name, b.Title())
				return nil
			}),
		},
	)
	return cmd
}

func newNextCmd(opts *rootOptions) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "next <id>",
		Short: "List the upcoming days a block appears on",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, false, func(cmd *cobra.Command, args []string, a *app.App) error {
			if days < 1 {
				return fmt.Errorf("--days must be at least 1")
			}
			b, err := a.Store.Resolve(args[0])
			if err != nil {
				return err
			}
			from := a.Store.Today()
			w := cmd.OutOrStdout()
			occ := model.Occurrences(b, from, from.AddDays(days-1))
			if len(occ) == 0 {
				fmt.Fprintf(w, "%s does not appear in the next %d days\n", b.Title(), days)
				return nil
			}
			for _, d := range occ {
				fmt.Fprintf(w, "%s %s\n", d.Weekday().String()[:3], d)
			}
			return nil
		}),
	}
	cmd.Flags().IntVar(&days, "days", 14, "how many days ahead to look, today included")
	return cmd
}

func parsePropertyType(s string) (model.PropertyType, error) {
	t := model.PropertyType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", model.ErrUnknownPropertyType, s)
	}
	return t, nil
}
