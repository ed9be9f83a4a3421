package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/faizmokh/pacli/internal/events"
)

func newScheduleCommand(ctx context.Context, a *app) *cobra.Command {
	var (
		dateFlag    string
		timeFlag    string
		infoFlag    string
		privateFlag bool
		repeatFlag  string
	)

	cmd := &cobra.Command{
		Use:   "schedule <event name ...>",
		Short: "Schedule a new event.",
		Long: "schedule appends an event to the store. Dates accept DD-MM-YYYY, YYYY-MM-DD, DD/MM/YYYY or YYYY/MM/DD. " +
			"--repeat takes an RRULE such as FREQ=WEEKLY;COUNT=4 and stores one event per occurrence.",
		RunE: func(cmd *cobra.Command, args []string) error {
			name := joinArgs(args)
			if name == "" {
				return fmt.Errorf("event name is required")
			}

			date, err := resolveDate(dateFlag, a.now())
			if err != nil {
				return err
			}

			in := events.NewEvent{
				Name:      name,
				Date:      date,
				Time:      timeFlag,
				ExtraInfo: infoFlag,
			}
			if privateFlag {
				public := false
				in.Public = &public
			}

			out := cmd.OutOrStdout()
			if repeatFlag != "" {
				added, err := a.scheduler.ScheduleRecurring(ctx, in, repeatFlag)
				if err != nil {
					return err
				}
				printSuccess(out, "Scheduled %d occurrence%s of %s from %s to %s",
					len(added), pluralS(len(added)), name, added[0].Date, added[len(added)-1].Date)
				return nil
			}

			e, err := a.scheduler.Schedule(ctx, in)
			if err != nil {
				return err
			}
			printSuccess(out, "Scheduled %s", formatEvent(e))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Event date, e.g. 10-06-2025 (default: today)")
	cmd.Flags().StringVar(&timeFlag, "time", "", "Display time, e.g. 10:00am")
	cmd.Flags().StringVar(&infoFlag, "info", "", "Extra information")
	cmd.Flags().BoolVar(&privateFlag, "private", false, "Leave the event out of shared digests")
	cmd.Flags().StringVar(&repeatFlag, "repeat", "", "Recurrence rule, e.g. FREQ=WEEKLY;COUNT=4")

	return cmd
}

func newEditCommand(ctx context.Context, a *app) *cobra.Command {
	var (
		nameFlag string
		dateFlag string
		timeFlag string
	)

	cmd := &cobra.Command{
		Use:   "edit <field> [value]",
		Short: "Edit events by exact name and date.",
		Long: "edit changes one field on every event whose name and date match exactly (and time, when given). " +
			"Fields: event_name, date, time, extra_info, public. Use the field delete to remove the events.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := resolveDate(dateFlag, a.now())
			if err != nil {
				return err
			}
			value := ""
			if len(args) == 2 {
				value = args[1]
			}

			target := events.Target{Name: nameFlag, Date: date, Time: timeFlag}
			applied, err := a.mutator.Apply(ctx, target, args[0], value)
			if err != nil {
				return err
			}

			res := events.EditResult{Event: events.Event{Name: nameFlag, Date: date}, Applied: applied}
			printSuccess(cmd.OutOrStdout(), "%s (%d record%s)", res.String(), applied.Count, pluralS(applied.Count))
			return nil
		},
	}

	cmd.Flags().StringVar(&nameFlag, "name", "", "Exact event name")
	cmd.Flags().StringVar(&dateFlag, "date", "", "Event date")
	cmd.Flags().StringVar(&timeFlag, "time", "", "Exact event time (default: any)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

func newFindEditCommand(ctx context.Context, a *app) *cobra.Command {
	var (
		fieldFlag string
		valueFlag string
		dateFlag  string
		timeFlag  string
	)

	cmd := &cobra.Command{
		Use:   "find-edit <approximate name ...>",
		Short: "Find events by approximate name and edit a field on each match.",
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := a.editor.ResolveAndEdit(ctx, events.EditRequest{
				Name:  joinArgs(args),
				Field: fieldFlag,
				Value: valueFlag,
				Date:  dateFlag,
				Time:  timeFlag,
			})
			printResults(cmd, results)
			if err != nil {
				return explainMiss(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fieldFlag, "field", "", "Field to edit, or delete")
	cmd.Flags().StringVar(&valueFlag, "value", "", "New value")
	cmd.Flags().StringVar(&dateFlag, "date", "", "Only consider events on this date")
	cmd.Flags().StringVar(&timeFlag, "time", "", "Only consider events at this time")
	_ = cmd.MarkFlagRequired("field")

	return cmd
}

func newDeleteCommand(ctx context.Context, a *app) *cobra.Command {
	var (
		dateFlag string
		timeFlag string
		yesFlag  bool
	)

	cmd := &cobra.Command{
		Use:   "delete <approximate name ...>",
		Short: "Delete the events an approximate name refers to.",
		RunE: func(cmd *cobra.Command, args []string) error {
			name := joinArgs(args)
			res, err := a.matcher.Find(ctx, events.NewQuery(name, dateFlag, timeFlag))
			if err != nil {
				return explainMiss(cmd, err)
			}

			out := cmd.OutOrStdout()
			if !yesFlag {
				fmt.Fprintln(out, "This will delete:")
				for _, m := range res.Matches {
					fmt.Fprintf(out, "  %s\n", formatEvent(m.Event))
				}
				fmt.Fprint(out, "Continue? [y/N] ")
				line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if answer := strings.ToLower(strings.TrimSpace(line)); answer != "y" && answer != "yes" {
					printInfo(out, "Delete cancelled.")
					return nil
				}
			}

			results, err := a.editor.ApplyMatches(ctx, res.Matches, events.FieldDelete, "")
			printResults(cmd, results)
			return err
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Only consider events on this date")
	cmd.Flags().StringVar(&timeFlag, "time", "", "Only consider events at this time")
	cmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func printResults(cmd *cobra.Command, results []events.EditResult) {
	out := cmd.OutOrStdout()
	for _, r := range results {
		if r.Err != nil {
			printError(out, "%s", r.String())
			continue
		}
		printSuccess(out, "%s", r.String())
	}
}

func pluralS(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
