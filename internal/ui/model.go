package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/faizmokh/pacli/internal/events"
)

// Model owns Bubble Tea state for the week browser.
type Model struct {
	ctx     context.Context
	store   events.Loader
	mutator *events.Mutator

	weekStart time.Time
	week      []events.Event
	selected  int

	mode    mode
	input   textinput.Model
	target  events.Event
	loading bool

	statusLine string
	errorLine  string
}

type mode uint8

const (
	modeNormal mode = iota
	modeEdit
	modeConfirmDelete
)

type weekLoadedMsg struct {
	weekStart time.Time
	events    []events.Event
	err       error
}

type mutationResultMsg struct {
	applied events.Applied
	err     error
}

// NewModel seeds a Bubble Tea model showing the week containing now.
func NewModel(ctx context.Context, store events.Loader, mutator *events.Mutator, now time.Time) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "field=value"
	ti.CharLimit = 256

	start := events.WeekStart(now)
	return Model{
		ctx:        ctx,
		store:      store,
		mutator:    mutator,
		weekStart:  start,
		mode:       modeNormal,
		input:      ti,
		loading:    true,
		statusLine: "Loading this week's events...",
	}
}

// Init loads the initial week.
func (m Model) Init() tea.Cmd {
	return m.loadWeekCmd(m.weekStart)
}

// Update wires TUI state transitions from user input and async commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case weekLoadedMsg:
		return m.handleWeekLoaded(msg)
	case mutationResultMsg:
		return m.handleMutationResult(msg)
	default:
		if m.mode == modeEdit {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeEdit:
		return m.handleEditKey(msg)
	case modeConfirmDelete:
		return m.handleConfirmKey(msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Down):
		if m.selected < len(m.week)-1 {
			m.selected++
			m.statusLine = fmt.Sprintf("Selected event %d of %d", m.selected+1, len(m.week))
			m.errorLine = ""
		}
	case key.Matches(msg, keys.Up):
		if m.selected > 0 {
			m.selected--
			m.statusLine = fmt.Sprintf("Selected event %d of %d", m.selected+1, len(m.week))
			m.errorLine = ""
		}
	case key.Matches(msg, keys.Prev):
		return m.gotoWeek(m.weekStart.AddDate(0, 0, -7))
	case key.Matches(msg, keys.Next):
		return m.gotoWeek(m.weekStart.AddDate(0, 0, 7))
	case key.Matches(msg, keys.Today):
		return m.gotoWeek(events.WeekStart(time.Now().In(m.weekStart.Location())))
	case key.Matches(msg, keys.Reload):
		return m.reload()
	case key.Matches(msg, keys.Edit):
		return m.beginEdit()
	case key.Matches(msg, keys.Delete):
		return m.beginDelete()
	}
	return m, nil
}

func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		return m.cancelInput("Cancelled.")
	case tea.KeyEnter:
		return m.submitEdit()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		target := m.target
		m.mode = modeNormal
		m.statusLine = fmt.Sprintf("Deleting %s...", target.Name)
		m.errorLine = ""
		return m, m.mutateCmd(target, events.FieldDelete, "")
	case "n", "N", "esc":
		return m.cancelInput("Delete cancelled.")
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) beginEdit() (tea.Model, tea.Cmd) {
	if len(m.week) == 0 || m.loading {
		return m, nil
	}
	m.target = m.week[m.selected]
	m.mode = modeEdit
	m.input.SetValue("")
	m.statusLine = ""
	m.errorLine = ""
	return m, m.input.Focus()
}

func (m Model) beginDelete() (tea.Model, tea.Cmd) {
	if len(m.week) == 0 || m.loading {
		return m, nil
	}
	m.target = m.week[m.selected]
	m.mode = modeConfirmDelete
	m.statusLine = ""
	m.errorLine = ""
	return m, nil
}

func (m Model) submitEdit() (tea.Model, tea.Cmd) {
	field, value, err := parseAssignment(m.input.Value())
	if err != nil {
		m.errorLine = err.Error()
		return m, nil
	}
	target := m.target
	m.mode = modeNormal
	m.input.Blur()
	m.input.SetValue("")
	m.statusLine = fmt.Sprintf("Updating %s...", target.Name)
	m.errorLine = ""
	return m, m.mutateCmd(target, field, value)
}

func (m Model) cancelInput(message string) (tea.Model, tea.Cmd) {
	m.mode = modeNormal
	m.input.Blur()
	m.input.SetValue("")
	m.target = events.Event{}
	if message != "" {
		m.statusLine = message
	}
	m.errorLine = ""
	return m, nil
}

func (m Model) handleWeekLoaded(msg weekLoadedMsg) (tea.Model, tea.Cmd) {
	// Ignore stale results for weeks we no longer display.
	if !msg.weekStart.Equal(m.weekStart) {
		return m, nil
	}
	m.loading = false
	if msg.err != nil {
		m.errorLine = fmt.Sprintf("Failed to load week of %s: %v", events.FormatDate(msg.weekStart), msg.err)
		m.statusLine = ""
		return m, nil
	}
	m.errorLine = ""
	m.week = msg.events
	if len(m.week) == 0 {
		m.selected = 0
		m.statusLine = "No events this week."
		return m, nil
	}
	if m.selected >= len(m.week) {
		m.selected = len(m.week) - 1
	}
	m.statusLine = fmt.Sprintf("Loaded %d event%s.", len(m.week), plural(len(m.week)))
	return m, nil
}

func (m Model) handleMutationResult(msg mutationResultMsg) (tea.Model, tea.Cmd) {
	m.target = events.Event{}
	if msg.err != nil {
		if errors.Is(msg.err, events.ErrInvalidDate) {
			m.errorLine = fmt.Sprintf("%v. Please use DD-MM-YYYY.", msg.err)
		} else {
			m.errorLine = fmt.Sprintf("Update failed: %v", msg.err)
		}
		m.statusLine = ""
		return m, nil
	}
	m.errorLine = ""
	res := events.EditResult{
		Event:   events.Event{Name: msg.applied.Target.Name, Date: msg.applied.Target.Date},
		Applied: msg.applied,
	}
	m.statusLine = res.String()
	m.loading = true
	return m, m.loadWeekCmd(m.weekStart)
}

func (m Model) gotoWeek(start time.Time) (tea.Model, tea.Cmd) {
	if start.Equal(m.weekStart) {
		return m.reload()
	}
	m.weekStart = start
	m.week = nil
	m.selected = 0
	m.loading = true
	m.statusLine = fmt.Sprintf("Loading week of %s...", events.FormatDate(start))
	m.errorLine = ""
	return m, m.loadWeekCmd(start)
}

func (m Model) reload() (tea.Model, tea.Cmd) {
	m.loading = true
	m.statusLine = fmt.Sprintf("Refreshing week of %s...", events.FormatDate(m.weekStart))
	m.errorLine = ""
	return m, m.loadWeekCmd(m.weekStart)
}

func (m Model) loadWeekCmd(start time.Time) tea.Cmd {
	store := m.store
	ctx := m.ctx
	return func() tea.Msg {
		list, err := events.Range(ctx, store, events.FormatDate(start), events.FormatDate(start.AddDate(0, 0, 6)))
		return weekLoadedMsg{weekStart: start, events: list, err: err}
	}
}

func (m Model) mutateCmd(e events.Event, field, value string) tea.Cmd {
	mutator := m.mutator
	ctx := m.ctx
	target := events.Target{Name: e.Name, Date: e.Date, Time: e.Time, ExactTime: true}
	return func() tea.Msg {
		applied, err := mutator.Apply(ctx, target, field, value)
		return mutationResultMsg{applied: applied, err: err}
	}
}

// View renders the frame.
func (m Model) View() string {
	var b strings.Builder

	end := m.weekStart.AddDate(0, 0, 6)
	b.WriteString(headerStyle.Render(fmt.Sprintf("Week of %s to %s", m.weekStart.Format("Mon 02 Jan 2006"), end.Format("Mon 02 Jan 2006"))))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString("Loading...\n")
	case len(m.week) == 0:
		b.WriteString("(no events)\n")
	default:
		lastDate := ""
		for i, e := range m.week {
			if e.Date != lastDate {
				b.WriteString(dayStyle.Render(fmt.Sprintf("%s %s", e.Day(), e.Date)))
				b.WriteByte('\n')
				lastDate = e.Date
			}
			line := formatEvent(e)
			if !e.Public {
				line = privateStyle.Render(line)
			}
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> ") + line)
			} else {
				b.WriteString("  " + line)
			}
			b.WriteByte('\n')
		}
	}

	if m.errorLine != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("! " + m.errorLine))
		b.WriteByte('\n')
	} else if m.statusLine != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.statusLine))
		b.WriteByte('\n')
	}

	switch m.mode {
	case modeEdit:
		fmt.Fprintf(&b, "\nEdit %q (field=value, e.g. time=10:00am or date=12-06-2025; Enter to save, Esc to cancel):\n", m.target.Name)
		b.WriteString(m.input.View())
		b.WriteByte('\n')
	case modeConfirmDelete:
		fmt.Fprintf(&b, "\nDelete %q on %s? (y/n, Esc to cancel)\n", m.target.Name, m.target.Date)
	}

	b.WriteString("\n")
	b.WriteString(renderHelp("Navigation", keys.navigationHelp()))
	b.WriteByte('\n')
	b.WriteString(renderHelp("Actions", keys.actionHelp()))
	b.WriteByte('\n')

	return b.String()
}

func plural(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}

func formatEvent(e events.Event) string {
	var b strings.Builder
	if e.Time != "" {
		b.WriteString(e.Time)
		b.WriteByte(' ')
	}
	b.WriteString(e.Name)
	if e.ExtraInfo != "" && e.ExtraInfo != events.DefaultExtraInfo {
		fmt.Fprintf(&b, " (%s)", e.ExtraInfo)
	}
	if !e.Public {
		b.WriteString(" [private]")
	}
	return b.String()
}

// parseAssignment splits "field=value". The value may be empty.
func parseAssignment(input string) (string, string, error) {
	field, value, ok := strings.Cut(input, "=")
	field = strings.TrimSpace(field)
	if !ok || field == "" {
		return "", "", fmt.Errorf("expected field=value, got %q", strings.TrimSpace(input))
	}
	return field, strings.TrimSpace(value), nil
}
