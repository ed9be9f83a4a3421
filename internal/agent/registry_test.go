package agent

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faizmokh/pacli/internal/events"
)

func newRegistry(t *testing.T, seed ...events.Event) (*Registry, *events.FileStore) {
	t.Helper()
	store := events.NewFileStore(filepath.Join(t.TempDir(), "events", "event_data.json"))
	if len(seed) > 0 {
		require.NoError(t, store.Save(context.Background(), seed))
	}
	matcher := events.NewMatcher(store)
	mutator := events.NewMutator(store)
	reg := New(Deps{
		Store:     store,
		Matcher:   matcher,
		Mutator:   mutator,
		Editor:    events.NewEditor(matcher, mutator),
		Scheduler: events.NewScheduler(store),
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return reg, store
}

func call(t *testing.T, reg *Registry, name, args string) string {
	t.Helper()
	out, err := reg.Call(context.Background(), name, json.RawMessage(args))
	require.NoError(t, err)
	return out
}

func seedEvents() []events.Event {
	return []events.Event{
		{Name: "Team Sync", Date: "10-06-2025", Time: "10:00am", ExtraInfo: "None", Public: true},
		{Name: "Dentist Appointment", Date: "12-06-2025", Time: "", ExtraInfo: "None", Public: false},
		{Name: "Offsite", Date: "17-06-2025", Time: "", ExtraInfo: "Room 4", Public: true},
	}
}

func TestToolsAreListedByName(t *testing.T) {
	reg, _ := newRegistry(t)
	var names []string
	for _, tool := range reg.Tools() {
		names = append(names, tool.Name)
	}
	assert.Equal(t, []string{
		"edit_event",
		"find_and_edit_event",
		"find_event",
		"get_event_schedule",
		"resolve_day_from_date",
		"schedule_event",
	}, names)
}

func TestCallUnknownTool(t *testing.T) {
	reg, _ := newRegistry(t)
	_, err := reg.Call(context.Background(), "get_codeforces_contests", nil)
	require.ErrorIs(t, err, ErrUnknownTool)
}

func TestCallBadArguments(t *testing.T) {
	reg, _ := newRegistry(t)

	_, err := reg.Call(context.Background(), "schedule_event", json.RawMessage(`{"date": "10-06-2025"}`))
	require.ErrorIs(t, err, ErrBadArguments)
	assert.Contains(t, err.Error(), "event_name")

	_, err = reg.Call(context.Background(), "resolve_day_from_date", json.RawMessage(`{"date": "10-06-2025"}`))
	require.ErrorIs(t, err, ErrBadArguments)

	_, err = reg.Call(context.Background(), "find_event", json.RawMessage(`[1,2]`))
	require.ErrorIs(t, err, ErrBadArguments)
}

func TestScheduleEvent(t *testing.T) {
	reg, store := newRegistry(t)

	out := call(t, reg, "schedule_event", `{"date": "2025-06-10", "time": "10:00 AM", "event_name": "Team Sync", "public": false}`)
	assert.Equal(t, "Event scheduled: Team Sync on 10-06-2025 at 10:00 AM", out)

	all, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].Public)
	assert.Equal(t, events.DefaultExtraInfo, all[0].ExtraInfo)

	out = call(t, reg, "schedule_event", `{"date": "31-02-2025", "event_name": "Nope"}`)
	assert.Equal(t, "Invalid date format. Use DD-MM-YYYY.", out)
}

func TestGetEventSchedule(t *testing.T) {
	reg, _ := newRegistry(t, seedEvents()...)

	out := call(t, reg, "get_event_schedule", `{"start_date": "09-06-2025", "end_date": "15-06-2025"}`)
	assert.Equal(t, "Events from Monday, June 09 to Sunday, June 15:\n"+
		"- Team Sync (Tuesday, 10-06-2025) at 10:00am\n"+
		"- Dentist Appointment (Thursday, 12-06-2025)", out)

	out = call(t, reg, "get_event_schedule", `{"start_date": "01-01-2030", "end_date": "02-01-2030"}`)
	assert.Contains(t, out, "No events scheduled from")

	out = call(t, reg, "get_event_schedule", `{"start_date": "soon", "end_date": "later"}`)
	assert.Equal(t, "Invalid date format. Please use DD-MM-YYYY.", out)
}

func TestFindEventSingle(t *testing.T) {
	reg, _ := newRegistry(t, seedEvents()...)

	out := call(t, reg, "find_event", `{"event_name": "dentist"}`)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Dentist Appointment", got["event_name"])
	assert.Equal(t, "Thursday", got["day"])
	assert.Equal(t, false, got["public"])
	score, ok := got["score"].(float64)
	require.True(t, ok, "missing score in %s", out)
	assert.GreaterOrEqual(t, score, 60.0)

	out = call(t, reg, "find_event", `{"event_name": "Team Sync", "date": "10-06-2025"}`)
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Team Sync", got["event_name"])
	assert.Equal(t, 100.0, got["score"])
}

func TestFindEventByDateListsAll(t *testing.T) {
	reg, _ := newRegistry(t, seedEvents()...)

	out := call(t, reg, "find_event", `{"date": "2025-06-10"}`)
	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Team Sync", got[0]["event_name"])
}

func TestFindEventErrorsAreJSON(t *testing.T) {
	reg, _ := newRegistry(t, seedEvents()...)

	for _, args := range []string{
		`{}`,
		`{"event_name": "zzzzqqq"}`,
		`{"event_name": "Team Sync", "date": "01-01-2030"}`,
	} {
		out := call(t, reg, "find_event", args)
		var got map[string]string
		require.NoError(t, json.Unmarshal([]byte(out), &got), args)
		assert.NotEmpty(t, got["error"], args)
	}
}

func TestEditEventExactKeys(t *testing.T) {
	reg, store := newRegistry(t, seedEvents()...)

	out := call(t, reg, "edit_event", `{"event_name": "Team Sync", "date": "2025-06-10", "field_to_edit": "time", "new_value": "11:00am"}`)
	assert.Equal(t, `Updated time of event "Team Sync" on 10-06-2025 to "11:00am".`, out)

	out = call(t, reg, "edit_event", `{"event_name": "team sync", "date": "10-06-2025", "field_to_edit": "time", "new_value": "x"}`)
	assert.Contains(t, out, "found to edit")

	out = call(t, reg, "edit_event", `{"event_name": "Offsite", "date": "17-06-2025", "field_to_edit": "public", "new_value": false}`)
	assert.Contains(t, out, "Updated public")

	all, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "11:00am", all[0].Time)
	assert.False(t, all[2].Public)
}

func TestEditEventDelete(t *testing.T) {
	reg, store := newRegistry(t, seedEvents()...)

	out := call(t, reg, "edit_event", `{"event_name": "Offsite", "date": "17-06-2025", "field_to_edit": "delete"}`)
	assert.Equal(t, `Deleted event "Offsite" on 17-06-2025.`, out)

	all, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestFindAndEditEvent(t *testing.T) {
	reg, store := newRegistry(t, seedEvents()...)

	out := call(t, reg, "find_and_edit_event", `{"event_name": "dentist apointment", "field_to_edit": "date", "new_value": "2025-06-13"}`)
	assert.Equal(t, `Updated date of event "Dentist Appointment" on 12-06-2025 to "13-06-2025".`, out)

	all, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "13-06-2025", all[1].Date)
	assert.Equal(t, "Friday", all[1].Day())
}

func TestFindAndEditEventMisses(t *testing.T) {
	reg, store := newRegistry(t, seedEvents()...)

	out := call(t, reg, "find_and_edit_event", `{"event_name": "quarterly taxes", "field_to_edit": "time", "new_value": "9am"}`)
	assert.Contains(t, out, "Event not found")

	out = call(t, reg, "find_and_edit_event", `{"event_name": "Team Sync", "field_to_edit": "date", "new_value": "someday"}`)
	assert.Contains(t, out, "Please use DD-MM-YYYY.")

	all, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, seedEvents(), all)
}

func TestResolveDayFromDate(t *testing.T) {
	reg, _ := newRegistry(t)
	assert.Equal(t, "Tuesday", call(t, reg, "resolve_day_from_date", `{"date_str": "10-06-2025"}`))
	assert.Equal(t, "Tuesday", call(t, reg, "resolve_day_from_date", `{"date_str": "2025-06-10"}`))
	assert.Equal(t, "Invalid date format. Please use DD-MM-YYYY or YYYY-MM-DD.",
		call(t, reg, "resolve_day_from_date", `{"date_str": "tomorrow"}`))
}

func TestCallHonorsCancelledContext(t *testing.T) {
	reg, _ := newRegistry(t, seedEvents()...)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := reg.Call(ctx, "get_event_schedule", json.RawMessage(`{"start_date": "09-06-2025", "end_date": "15-06-2025"}`))
	require.ErrorIs(t, err, context.Canceled)
}
