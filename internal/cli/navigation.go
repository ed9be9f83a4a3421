package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/faizmokh/pacli/internal/events"
)

func newEventsCommand(ctx context.Context, a *app) *cobra.Command {
	var (
		fromFlag   string
		toFlag     string
		weekFlag   string
		publicFlag bool
		jsonFlag   bool
	)

	cmd := &cobra.Command{
		Use:     "events",
		Aliases: []string{"list"},
		Short:   "List events in a date range (default: this week).",
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to, err := resolveRange(a.now(), fromFlag, toFlag, weekFlag)
			if err != nil {
				return err
			}

			list, err := events.Range(ctx, a.store, from, to)
			if err != nil {
				return err
			}
			if publicFlag {
				kept := list[:0]
				for _, e := range list {
					if e.Public {
						kept = append(kept, e)
					}
				}
				list = kept
			}

			if jsonFlag {
				return writeJSON(cmd, list)
			}
			out := cmd.OutOrStdout()
			if len(list) == 0 {
				printInfo(out, "No events scheduled from %s to %s.", from, to)
				return nil
			}
			printInfo(out, "Events from %s to %s:", from, to)
			printEvents(cmd, list)
			return nil
		},
	}

	cmd.Flags().StringVar(&fromFlag, "from", "", "Start date, inclusive")
	cmd.Flags().StringVar(&toFlag, "to", "", "End date, inclusive")
	cmd.Flags().StringVar(&weekFlag, "week", "this", "Week to show when no range is given: this or next")
	cmd.Flags().BoolVar(&publicFlag, "public", false, "Only show public events")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Print JSON")

	return cmd
}

// resolveRange picks the canonical start and end dates from the flags.
func resolveRange(now time.Time, from, to, week string) (string, string, error) {
	switch {
	case from != "" && to != "":
		return from, to, nil
	case from != "" || to != "":
		return "", "", fmt.Errorf("--from and --to must be given together")
	}

	switch strings.ToLower(week) {
	case "", "this":
		start := events.WeekStart(now)
		return events.FormatDate(start), events.FormatDate(events.WeekEnd(now)), nil
	case "next":
		start, end := events.NextWeek(now)
		return events.FormatDate(start), events.FormatDate(end), nil
	default:
		return "", "", fmt.Errorf("invalid --week %q (expected this or next)", week)
	}
}

func newFindCommand(ctx context.Context, a *app) *cobra.Command {
	var (
		dateFlag string
		timeFlag string
		jsonFlag bool
	)

	cmd := &cobra.Command{
		Use:   "find [approximate name ...]",
		Short: "Find events by approximate name, date and time.",
		Long: "find resolves an approximate name to the single best-matching event. " +
			"Without a name, every event on --date (and at --time) is listed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.matcher.Find(ctx, events.NewQuery(joinArgs(args), dateFlag, timeFlag))
			if err != nil {
				return explainMiss(cmd, err)
			}

			if jsonFlag {
				if res.Kind == events.SingleMatch {
					return writeJSON(cmd, res.Matches[0].Event)
				}
				list := make([]events.Event, 0, len(res.Matches))
				for _, m := range res.Matches {
					list = append(list, m.Event)
				}
				return writeJSON(cmd, list)
			}

			out := cmd.OutOrStdout()
			if res.Kind == events.SingleMatch {
				best := res.Matches[0]
				printSuccess(out, "Found event (score %d):", best.Score)
				printEventDetails(cmd, best.Event)
				return nil
			}
			printSuccess(out, "Found %d event%s:", len(res.Matches), pluralS(len(res.Matches)))
			for i, m := range res.Matches {
				fmt.Fprintf(out, "%d. %s\n", i+1, formatEvent(m.Event))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Event date")
	cmd.Flags().StringVar(&timeFlag, "time", "", "Event time")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Print JSON")

	return cmd
}

func newDayCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "day [date]",
		Short: "Print the weekday of a date (default: today).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := events.FormatDate(a.now())
			if len(args) == 1 {
				date = args[0]
			}
			day, err := events.Weekday(date)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), day)
			return nil
		},
	}

	return cmd
}

func newSortCommand(ctx context.Context, a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sort",
		Short: "Rewrite the event store in chronological order.",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := events.Sort(ctx, a.store)
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Sorted %d event%s in %s", n, pluralS(n), a.store.Path())
			return nil
		},
	}

	return cmd
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
