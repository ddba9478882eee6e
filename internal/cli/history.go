package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/tutord/internal/app"
	"github.com/sandeepkv93/tutord/internal/model"
	"github.com/sandeepkv93/tutord/internal/storage"
	"github.com/sandeepkv93/tutord/internal/top3"
)

func newArchiveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "archive",
		Short: "Archive TOP-3 markers left over from previous days",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, false, func(cmd *cobra.Command, _ []string, a *app.App) error {
			// app.New already archives on startup; this reports what is left.
			res := a.Store.ArchiveTop3(cmd.Context())
			if !res.Changed() {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to archive.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Archived %d block(s) for %s\n", len(res.Archived), res.Date)
			return nil
		}),
	}
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var (
		since  string
		day    string
		limit  int
		offset int
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived TOP-3 days, newest first",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, false, func(cmd *cobra.Command, _ []string, a *app.App) error {
			w := cmd.OutOrStdout()
			if day != "" {
				d, err := model.ParseDay(day)
				if err != nil {
					return err
				}
				h, ok := top3.HistoryFor(a.Store.History(), d)
				if !ok {
					fmt.Fprintf(w, "No TOP-3 archived for %s.\n", d)
					return nil
				}
				printHistoryDay(w, h)
				return nil
			}
			if since != "" {
				if _, err := model.ParseDay(since); err != nil {
					return err
				}
			}
			history, err := a.Repo.ListHistory(cmd.Context(), storage.HistoryListFilter{Since: since, Limit: limit, Offset: offset})
			if err != nil {
				return fmt.Errorf("list history: %w", err)
			}
			if len(history) == 0 {
				fmt.Fprintln(w, "No archived TOP-3 yet.")
				return nil
			}
			for _, h := range history {
				printHistoryDay(w, h)
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&since, "since", "", "only days on or after YYYY-MM-DD")
	cmd.Flags().StringVar(&day, "date", "", "show a single day")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of days")
	cmd.Flags().IntVar(&offset, "offset", 0, "days to skip")
	return cmd
}

func printHistoryDay(w io.Writer, h model.Top3History) {
	done := 0
	for _, hb := range h.Blocks {
		if hb.Completed {
			done++
		}
	}
	fmt.Fprintf(w, "%s  %d/%d done\n", h.Date, done, len(h.Blocks))
	for _, hb := range h.Blocks {
		mark := "[ ]"
		if hb.Completed {
			mark = "[x]"
		}
		fmt.Fprintf(w, "  %s %s\n", mark, firstLine(hb.Content))
	}
}
