package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// EditRequest is a fuzzy reference to one or more events plus the change to
// make. Date and Time are optional.
type EditRequest struct {
	Name  string
	Field string
	Value string
	Date  string
	Time  string
}

// EditResult is the outcome for one resolved record.
type EditResult struct {
	Event   Event
	Applied Applied
	Err     error
}

// String renders the result as one line for the user.
func (r EditResult) String() string {
	if r.Err != nil {
		switch {
		case errors.Is(r.Err, ErrInvalidDate):
			return fmt.Sprintf("Invalid date for %q on %s: %v. Please use DD-MM-YYYY.", r.Event.Name, r.Event.Date, r.Err)
		default:
			return fmt.Sprintf("Could not update %q on %s: %v", r.Event.Name, r.Event.Date, r.Err)
		}
	}
	if r.Applied.Deleted {
		return fmt.Sprintf("Deleted event %q on %s.", r.Event.Name, r.Event.Date)
	}
	return fmt.Sprintf("Updated %s of event %q on %s to %q.", r.Applied.Field, r.Event.Name, r.Event.Date, r.Applied.Value)
}

// Editor bridges fuzzy references to exact mutations: it resolves with a
// Matcher, then hands the matched records' own keys to a Mutator.
type Editor struct {
	matcher *Matcher
	mutator *Mutator
}

// NewEditor composes matcher and mutator.
func NewEditor(matcher *Matcher, mutator *Mutator) *Editor {
	return &Editor{matcher: matcher, mutator: mutator}
}

// ResolveAndEdit finds the records req refers to and applies the change to
// each. Lookup misses come back wrapped in ErrNotFound with the specific
// matcher error still reachable through errors.Is. Failures for one record
// are reported in its EditResult and do not stop the others.
func (ed *Editor) ResolveAndEdit(ctx context.Context, req EditRequest) ([]EditResult, error) {
	res, err := ed.matcher.Find(ctx, NewQuery(req.Name, req.Date, req.Time))
	if err != nil {
		if IsNoMatch(err) {
			return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return nil, err
	}

	return ed.ApplyMatches(ctx, res.Matches, req.Field, req.Value)
}

// ApplyMatches applies the change to each matched record by its own exact
// keys, time included, so records the lookup filtered out stay untouched.
// Matches without a name or date are skipped; ErrNoMatchingEvents is
// returned when nothing was left to edit.
func (ed *Editor) ApplyMatches(ctx context.Context, matches []Match, field, value string) ([]EditResult, error) {
	field = strings.ToLower(strings.TrimSpace(field))
	var valueErr error
	if field == FieldDate {
		if canonical, ok := NormalizeDate(value); ok {
			value = canonical
		} else {
			valueErr = fmt.Errorf("%w: %q", ErrInvalidDate, value)
		}
	}

	results := make([]EditResult, 0, len(matches))
	done := make(map[Target]bool, len(matches))
	for _, match := range matches {
		e := match.Event
		if e.Name == "" || e.Date == "" {
			continue
		}
		if valueErr != nil {
			results = append(results, EditResult{Event: e, Err: valueErr})
			continue
		}

		target := Target{Name: e.Name, Date: e.Date, Time: e.Time, ExactTime: true}
		// Exact duplicates were all handled by the first Apply on their keys.
		if done[target] {
			continue
		}
		done[target] = true

		applied, err := ed.mutator.Apply(ctx, target, field, value)
		if err != nil && !isRecordLevel(err) {
			return results, err
		}
		results = append(results, EditResult{Event: e, Applied: applied, Err: err})
	}

	if len(results) == 0 {
		return nil, ErrNoMatchingEvents
	}
	return results, nil
}

// isRecordLevel reports whether err concerns only the record being edited,
// as opposed to the store as a whole.
func isRecordLevel(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidField) ||
		errors.Is(err, ErrInvalidValue)
}

// Summary joins results one line each.
func Summary(results []EditResult) string {
	lines := make([]string, 0, len(results))
	for _, r := range results {
		lines = append(lines, r.String())
	}
	return strings.Join(lines, "\n")
}
