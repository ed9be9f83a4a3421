package events

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

const (
	// MaxOccurrences caps how many records one recurring schedule creates.
	MaxOccurrences = 366
	recurHorizon   = 1 // years
)

// NewEvent is the input for scheduling. Public defaults to true when nil.
type NewEvent struct {
	Name      string
	Date      string
	Time      string
	ExtraInfo string
	Public    *bool
}

// Scheduler appends fully populated events to the store.
type Scheduler struct {
	store Store
}

// NewScheduler wires a scheduler writing through store.
func NewScheduler(store Store) *Scheduler {
	return &Scheduler{store: store}
}

// Schedule validates in and appends one event.
func (s *Scheduler) Schedule(ctx context.Context, in NewEvent) (Event, error) {
	e, err := in.build()
	if err != nil {
		return Event{}, err
	}
	if err := s.append(ctx, []Event{e}); err != nil {
		return Event{}, err
	}
	slog.Debug("event scheduled", "name", e.Name, "date", e.Date)
	return e, nil
}

// ScheduleRecurring appends one event per occurrence of rule, an RFC 5545
// RRULE value such as "FREQ=WEEKLY;COUNT=4", starting on in.Date.
// Occurrences are limited to one year after the start and to MaxOccurrences.
func (s *Scheduler) ScheduleRecurring(ctx context.Context, in NewEvent, rule string) ([]Event, error) {
	first, err := in.build()
	if err != nil {
		return nil, err
	}

	r, err := rrule.StrToRRule(strings.TrimPrefix(strings.TrimSpace(rule), "RRULE:"))
	if err != nil {
		return nil, fmt.Errorf("%w: recurrence %q: %w", ErrInvalidEvent, rule, err)
	}
	start, _ := first.When()
	r.DTStart(start)

	horizon := start.AddDate(recurHorizon, 0, 0)
	var created []Event
	next := r.Iterator()
	for len(created) < MaxOccurrences {
		d, ok := next()
		if !ok || d.After(horizon) {
			break
		}
		e := first
		e.Date = FormatDate(d)
		created = append(created, e)
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("%w: recurrence %q has no occurrences", ErrInvalidEvent, rule)
	}
	if err := s.append(ctx, created); err != nil {
		return nil, err
	}
	slog.Debug("recurring event scheduled", "name", first.Name, "count", len(created))
	return created, nil
}

func (s *Scheduler) append(ctx context.Context, added []Event) error {
	return s.store.Update(ctx, func(current []Event) ([]Event, bool, error) {
		return append(current, added...), true, nil
	})
}

func (in NewEvent) build() (Event, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Event{}, fmt.Errorf("%w: event name is required", ErrInvalidEvent)
	}
	date, ok := NormalizeDate(in.Date)
	if !ok {
		return Event{}, fmt.Errorf("%w: %q (use DD-MM-YYYY)", ErrInvalidDate, in.Date)
	}

	e := Event{
		Name:      name,
		Date:      date,
		Time:      strings.TrimSpace(in.Time),
		ExtraInfo: strings.TrimSpace(in.ExtraInfo),
		Public:    true,
	}
	if e.ExtraInfo == "" {
		e.ExtraInfo = DefaultExtraInfo
	}
	if in.Public != nil {
		e.Public = *in.Public
	}
	return e, nil
}

// Weekday resolves the weekday name of a date in any recognized layout.
func Weekday(date string) (string, error) {
	t, ok := ParseDate(date)
	if !ok {
		return "", fmt.Errorf("%w: %q (use DD-MM-YYYY or YYYY-MM-DD)", ErrInvalidDate, date)
	}
	return t.Weekday().String(), nil
}

// Today returns midnight of now's calendar day in now's location.
func Today(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
