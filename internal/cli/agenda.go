package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/tutord/internal/app"
	"github.com/sandeepkv93/tutord/internal/model"
	"github.com/sandeepkv93/tutord/internal/projection"
	"github.com/sandeepkv93/tutord/internal/top3"
)

func newTodayCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's TOP-3, lessons and deadlines",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, false, func(cmd *cobra.Command, _ []string, a *app.App) error {
			w := cmd.OutOrStdout()
			today := a.Store.Today()
			blocks := a.Store.Blocks()
			tags := a.Store.Tags()

			fmt.Fprintf(w, "Today: %s (%s)\n\n", today, today.Weekday())
			fmt.Fprintln(w, "TOP-3")
			printTop3(w, a.Store.Top3())

			fmt.Fprintln(w, "\nLessons")
			printBlocks(w, projection.Lessons(blocks, today), tags, "  no lessons today")
			fmt.Fprintln(w, "\nDeadlines")
			printBlocks(w, projection.Deadlines(blocks, today), tags, "  nothing due")
			return nil
		}),
	}
}

func newWeekCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "week [YYYY-MM-DD]",
		Short: "Show the Sunday-based week containing a day (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: withApp(opts, false, func(cmd *cobra.Command, args []string, a *app.App) error {
			day := a.Store.Today()
			if len(args) == 1 {
				d, err := model.ParseDay(args[0])
				if err != nil {
					return err
				}
				day = d
			}
			w := cmd.OutOrStdout()
			grid := projection.Week(a.Store.Blocks(), day)
			fmt.Fprintf(w, "Week of %s\n", grid.Start)
			for _, col := range grid.Columns {
				fmt.Fprintf(w, "\n%s %s\n", col.Day.Weekday().String()[:3], col.Day)
				if len(col.Lessons)+len(col.Deadlines) == 0 {
					fmt.Fprintln(w, "  -")
					continue
				}
				for _, b := range col.Lessons {
					fmt.Fprintf(w, "  @ %s %s\n", clockOf(b), displayTitle(b))
				}
				for _, b := range col.Deadlines {
					fmt.Fprintf(w, "  - %s %s\n", clockOf(b), displayTitle(b))
				}
			}
			return nil
		}),
	}
}

func printTop3(w io.Writer, items []top3.Item) {
	slots := make([]*top3.Item, top3.Slots)
	for i := range items {
		slots[items[i].Slot] = &items[i]
	}
	for i, it := range slots {
		if it == nil {
			fmt.Fprintf(w, "  %d. (empty)\n", i+1)
			continue
		}
		fmt.Fprintf(w, "  %d. %s %s\n", i+1, displayTitle(it.Block), shortID(it.Block.ID))
	}
}

func clockOf(b model.Block) string {
	d, ok := model.Lookup[model.DateValue](b)
	if !ok || d.Time == "" {
		return "all-day"
	}
	return d.Clock()
}
