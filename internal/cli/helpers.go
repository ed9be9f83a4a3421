package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/faizmokh/pacli/internal/events"
)

// resolveDate turns a date flag into a canonical DD-MM-YYYY string,
// defaulting to today.
func resolveDate(dateFlag string, now time.Time) (string, error) {
	if dateFlag == "" {
		return events.FormatDate(now), nil
	}
	canonical, ok := events.NormalizeDate(dateFlag)
	if !ok {
		return "", fmt.Errorf("%w: %q (use DD-MM-YYYY)", events.ErrInvalidDate, dateFlag)
	}
	return canonical, nil
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func formatEvent(e events.Event) string {
	var b strings.Builder
	b.Grow(48 + len(e.Name) + len(e.ExtraInfo))

	fmt.Fprintf(&b, "%s %-9s", e.Date, e.Day())
	if e.Time != "" {
		fmt.Fprintf(&b, " %-7s", e.Time)
	} else {
		b.WriteString("        ")
	}
	b.WriteByte(' ')
	b.WriteString(e.Name)

	if e.ExtraInfo != "" && e.ExtraInfo != events.DefaultExtraInfo {
		b.WriteString(" (")
		b.WriteString(e.ExtraInfo)
		b.WriteByte(')')
	}
	if !e.Public {
		b.WriteString(" [private]")
	}
	return b.String()
}

func printEvents(cmd *cobra.Command, list []events.Event) {
	out := cmd.OutOrStdout()
	for i, e := range list {
		fmt.Fprintf(out, "%d. %s\n", i+1, formatEvent(e))
	}
}

func printEventDetails(cmd *cobra.Command, e events.Event) {
	out := cmd.OutOrStdout()
	for _, f := range e.Fields() {
		label := strings.ReplaceAll(f.Key, "_", " ")
		fmt.Fprintf(out, "  %-11s %v\n", label+":", f.Value)
	}
}

// explainMiss prints suggestions for a failed name lookup and returns err.
func explainMiss(cmd *cobra.Command, err error) error {
	var miss *events.MatchError
	if errors.As(err, &miss) && len(miss.Candidates) > 0 {
		names := make([]string, 0, len(miss.Candidates))
		for _, c := range miss.Candidates {
			names = append(names, fmt.Sprintf("%s (%d)", c.Choice, c.Score))
		}
		printWarning(cmd.ErrOrStderr(), "Closest names: %s", strings.Join(names, ", "))
	}
	return err
}
