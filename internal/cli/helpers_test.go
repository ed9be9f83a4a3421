package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/faizmokh/pacli/internal/config"
	"github.com/faizmokh/pacli/internal/events"
	"github.com/faizmokh/pacli/internal/files"
)

// Wednesday; this week runs 09-06-2025 to 15-06-2025.
var fixedNow = time.Date(2025, time.June, 11, 9, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T, seed ...events.Event) *app {
	t.Helper()
	mgr, err := files.NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	a := &app{now: func() time.Time { return fixedNow }}
	a.wire(mgr, config.DefaultConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)), time.UTC)

	if len(seed) > 0 {
		if err := a.store.Save(context.Background(), seed); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	return a
}

func seedEvents() []events.Event {
	return []events.Event{
		{Name: "Offsite", Date: "17-06-2025", Time: "", ExtraInfo: "Room 4", Public: true},
		{Name: "Team Sync", Date: "10-06-2025", Time: "10:00am", ExtraInfo: "None", Public: true},
		{Name: "Dentist Appointment", Date: "12-06-2025", Time: "09:30am", ExtraInfo: "None", Public: false},
	}
}

func executeCommand(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()
	out, err := executeCommandErr(cmd, "", args...)
	if err != nil {
		t.Fatalf("Execute %v: %v\noutput: %s", args, err, out)
	}
	return out
}

func executeCommandErr(cmd *cobra.Command, stdin string, args ...string) (string, error) {
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func loadEvents(t *testing.T, a *app) []events.Event {
	t.Helper()
	all, err := a.store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return all
}

func assertContains(t *testing.T, got, want string) {
	t.Helper()
	if !strings.Contains(got, want) {
		t.Fatalf("expected output to contain %q, got:\n%s", want, got)
	}
}

func assertNotContains(t *testing.T, got, unwanted string) {
	t.Helper()
	if strings.Contains(got, unwanted) {
		t.Fatalf("expected output not to contain %q, got:\n%s", unwanted, got)
	}
}
