package ui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/faizmokh/pacli/internal/events"
)

// Wednesday of the week 09-06-2025 to 15-06-2025.
var now = time.Date(2025, time.June, 11, 9, 0, 0, 0, time.Local)

func newTestModel(t *testing.T) (Model, *events.FileStore) {
	t.Helper()
	store := events.NewFileStore(filepath.Join(t.TempDir(), "events", "event_data.json"))
	seed := []events.Event{
		{Name: "Dentist", Date: "12-06-2025", Time: "09:30am", ExtraInfo: "None", Public: false},
		{Name: "Team Sync", Date: "10-06-2025", Time: "10:00am", ExtraInfo: "None", Public: true},
		{Name: "Offsite", Date: "17-06-2025", Time: "", ExtraInfo: "Room 4", Public: true},
	}
	if err := store.Save(context.Background(), seed); err != nil {
		t.Fatalf("Save: %v", err)
	}
	m := NewModel(context.Background(), store, events.NewMutator(store), now)
	return settle(t, m, m.Init()), store
}

// settle runs cmd and feeds its message back until the model is idle.
func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for i := 0; cmd != nil && i < 5; i++ {
		msg := cmd()
		switch msg.(type) {
		case weekLoadedMsg, mutationResultMsg:
		default:
			return m
		}
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m
}

func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, c := m.Update(msg)
		m = next.(Model)
		cmd = c
	}
	return m, cmd
}

func names(list []events.Event) string {
	out := make([]string, 0, len(list))
	for _, e := range list {
		out = append(out, e.Name)
	}
	return strings.Join(out, ",")
}

func TestModelLoadsCurrentWeekChronologically(t *testing.T) {
	m, _ := newTestModel(t)

	if m.loading {
		t.Fatalf("model still loading")
	}
	if got := names(m.week); got != "Team Sync,Dentist" {
		t.Fatalf("week = %q, want Team Sync,Dentist", got)
	}
	view := m.View()
	if !strings.Contains(view, "Week of Mon 09 Jun 2025 to Sun 15 Jun 2025") {
		t.Fatalf("unexpected header in view:\n%s", view)
	}
	if !strings.Contains(view, "[private]") {
		t.Fatalf("private marker missing:\n%s", view)
	}
}

func TestModelNavigatesWeeks(t *testing.T) {
	m, _ := newTestModel(t)

	m, cmd := press(t, m, "n")
	if !m.loading {
		t.Fatalf("expected loading after moving to next week")
	}
	m = settle(t, m, cmd)
	if got := names(m.week); got != "Offsite" {
		t.Fatalf("next week = %q, want Offsite", got)
	}

	m, cmd = press(t, m, "p", "p")
	m = settle(t, m, cmd)
	if len(m.week) != 0 {
		t.Fatalf("expected empty week, got %q", names(m.week))
	}
	if m.statusLine != "No events this week." {
		t.Fatalf("status = %q", m.statusLine)
	}
}

func TestModelIgnoresStaleWeek(t *testing.T) {
	m, _ := newTestModel(t)
	next, _ := m.Update(weekLoadedMsg{weekStart: m.weekStart.AddDate(0, 0, 7), events: []events.Event{{Name: "Stale"}}})
	m = next.(Model)
	if got := names(m.week); got != "Team Sync,Dentist" {
		t.Fatalf("week = %q after stale message", got)
	}
}

func TestModelDeleteWithConfirmation(t *testing.T) {
	m, store := newTestModel(t)

	m, _ = press(t, m, "j", "d")
	if m.mode != modeConfirmDelete {
		t.Fatalf("mode = %v, want modeConfirmDelete", m.mode)
	}
	if !strings.Contains(m.View(), `Delete "Dentist" on 12-06-2025?`) {
		t.Fatalf("confirmation prompt missing:\n%s", m.View())
	}

	m, cmd := press(t, m, "y")
	m = settle(t, m, cmd)

	if got := names(m.week); got != "Team Sync" {
		t.Fatalf("week after delete = %q", got)
	}
	all, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("store len = %d, want 2", len(all))
	}
}

func TestModelDeleteUntimedKeepsTimedLookalike(t *testing.T) {
	store := events.NewFileStore(filepath.Join(t.TempDir(), "events", "event_data.json"))
	seed := []events.Event{
		{Name: "Offsite", Date: "17-06-2025", Time: "", ExtraInfo: "Room 4", Public: true},
		{Name: "Offsite", Date: "17-06-2025", Time: "03:00pm", ExtraInfo: "Room 5", Public: true},
	}
	if err := store.Save(context.Background(), seed); err != nil {
		t.Fatalf("Save: %v", err)
	}
	m := NewModel(context.Background(), store, events.NewMutator(store), now)
	m = settle(t, m, m.Init())

	m, cmd := press(t, m, "n")
	m = settle(t, m, cmd)
	if len(m.week) != 2 {
		t.Fatalf("next week = %q, want both Offsite records", names(m.week))
	}
	if m.week[0].Time != "" {
		m, _ = press(t, m, "j")
	}

	m, _ = press(t, m, "d")
	m, cmd = press(t, m, "y")
	m = settle(t, m, cmd)

	all, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(all) != 1 || all[0].Time != "03:00pm" {
		t.Fatalf("store after delete = %+v, want only the 03:00pm record", all)
	}
}

func TestModelDeleteCancelled(t *testing.T) {
	m, store := newTestModel(t)
	m, cmd := press(t, m, "d", "n")
	if cmd != nil || m.mode != modeNormal {
		t.Fatalf("expected cancel without command")
	}
	if m.statusLine != "Delete cancelled." {
		t.Fatalf("status = %q", m.statusLine)
	}
	all, _ := store.Load(context.Background())
	if len(all) != 3 {
		t.Fatalf("store len = %d, want 3", len(all))
	}
}

func TestModelEditField(t *testing.T) {
	m, store := newTestModel(t)

	m, _ = press(t, m, "e")
	if m.mode != modeEdit {
		t.Fatalf("mode = %v, want modeEdit", m.mode)
	}
	m, cmd := press(t, m, "time=11:15am", "enter")
	m = settle(t, m, cmd)

	if m.errorLine != "" {
		t.Fatalf("unexpected error: %s", m.errorLine)
	}
	if !strings.Contains(m.statusLine, `Updated time of event "Team Sync"`) {
		t.Fatalf("status = %q", m.statusLine)
	}
	all, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if all[1].Time != "11:15am" {
		t.Fatalf("time = %q, want 11:15am", all[1].Time)
	}
}

func TestModelEditRejectsMalformedInput(t *testing.T) {
	m, _ := newTestModel(t)

	m, cmd := press(t, m, "e", "tomorrow", "enter")
	if cmd != nil {
		t.Fatalf("expected no command for malformed input")
	}
	if m.mode != modeEdit || !strings.Contains(m.errorLine, "expected field=value") {
		t.Fatalf("mode = %v, error = %q", m.mode, m.errorLine)
	}

	m, _ = press(t, m, "esc")
	if m.mode != modeNormal {
		t.Fatalf("esc did not leave edit mode")
	}
}

func TestModelEditInvalidDate(t *testing.T) {
	m, _ := newTestModel(t)
	m, cmd := press(t, m, "e", "date=someday", "enter")
	m = settle(t, m, cmd)
	if !strings.Contains(m.errorLine, "Please use DD-MM-YYYY.") {
		t.Fatalf("error = %q", m.errorLine)
	}
}

func TestParseAssignment(t *testing.T) {
	field, value, err := parseAssignment(" extra_info = bring snacks = maybe ")
	if err != nil {
		t.Fatalf("parseAssignment: %v", err)
	}
	if field != "extra_info" || value != "bring snacks = maybe" {
		t.Fatalf("got %q=%q", field, value)
	}
	if _, _, err := parseAssignment("=x"); err == nil {
		t.Fatalf("expected error for empty field")
	}
}
