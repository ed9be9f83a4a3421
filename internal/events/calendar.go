package events

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// Between returns the events whose date falls within [start, end] inclusive,
// in store order. Events with unparseable dates are skipped.
func Between(events []Event, start, end time.Time) []Event {
	from, to := dayKey(start), dayKey(end)
	out := make([]Event, 0)
	for _, e := range events {
		t, ok := e.When()
		if !ok {
			continue
		}
		if k := dayKey(t); k >= from && k <= to {
			out = append(out, e)
		}
	}
	return out
}

// Range loads the store and returns the events between start and end, both
// given in any recognized date layout, sorted chronologically.
func Range(ctx context.Context, store Loader, start, end string) ([]Event, error) {
	from, ok := ParseDate(start)
	if !ok {
		return nil, fmt.Errorf("%w: start %q", ErrInvalidDate, start)
	}
	to, ok := ParseDate(end)
	if !ok {
		return nil, fmt.Errorf("%w: end %q", ErrInvalidDate, end)
	}

	all, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	found := Between(all, from, to)
	SortChronologically(found)
	return found, nil
}

// SortChronologically orders events by date, keeping store order for equal
// dates. Events with unparseable dates sort last.
func SortChronologically(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		ti, oki := events[i].When()
		tj, okj := events[j].When()
		switch {
		case !oki:
			return false
		case !okj:
			return true
		default:
			return ti.Before(tj)
		}
	})
}

// Sort rewrites the store in chronological order.
func Sort(ctx context.Context, store Store) (int, error) {
	var count int
	err := store.Update(ctx, func(current []Event) ([]Event, bool, error) {
		sorted := append([]Event(nil), current...)
		SortChronologically(sorted)
		count = len(sorted)
		return sorted, true, nil
	})
	return count, err
}

// NextWeek returns the Monday and Sunday of the week after now's week.
func NextWeek(now time.Time) (time.Time, time.Time) {
	today := Today(now)
	monday := today.AddDate(0, 0, 7-mondayOffset(today))
	return monday, monday.AddDate(0, 0, 6)
}

// WeekEnd returns the Sunday closing now's week.
func WeekEnd(now time.Time) time.Time {
	today := Today(now)
	return today.AddDate(0, 0, 6-mondayOffset(today))
}

// WeekStart returns the Monday opening now's week.
func WeekStart(now time.Time) time.Time {
	today := Today(now)
	return today.AddDate(0, 0, -mondayOffset(today))
}

// mondayOffset counts days since Monday (Monday = 0, Sunday = 6).
func mondayOffset(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func dayKey(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}
