package events

import (
	"errors"
	"fmt"
	"strings"

	"github.com/faizmokh/pacli/internal/fuzzy"
)

var (
	// ErrStoreUnavailable is returned when the event file exists but cannot be read.
	ErrStoreUnavailable = errors.New("event store unavailable")
	// ErrStoreCorrupted is returned when the event file is not a valid event list.
	ErrStoreCorrupted = errors.New("event store corrupted")
	// ErrPersistFailure wraps write errors; the previous file content is left intact.
	ErrPersistFailure = errors.New("failed to save events")

	// ErrDateNoMatch means no event falls on the requested date.
	ErrDateNoMatch = errors.New("no events on that date")
	// ErrTimeNoMatch means events exist on the date but none at the requested time.
	ErrTimeNoMatch = errors.New("no events at that time")
	// ErrNoNameMatch means no event name scored above the acceptance threshold.
	ErrNoNameMatch = errors.New("no event name matched")
	// ErrMissingCriteria means neither a name nor a date was supplied.
	ErrMissingCriteria = errors.New("an event name or a date is required")

	// ErrNotFound means no record matched the exact mutation keys.
	ErrNotFound = errors.New("event not found")
	// ErrNoMatchingEvents means resolution succeeded but produced nothing to edit.
	ErrNoMatchingEvents = errors.New("no matching events found to edit")

	// ErrInvalidDate is returned for date values no recognized format accepts.
	ErrInvalidDate = errors.New("invalid date")
	// ErrInvalidField is returned for fields that cannot be edited directly.
	ErrInvalidField = errors.New("invalid field")
	// ErrInvalidValue is returned when a value cannot be stored in the target field.
	ErrInvalidValue = errors.New("invalid value")
	// ErrInvalidEvent is returned when a new event is missing required fields.
	ErrInvalidEvent = errors.New("invalid event")
)

// IsNoMatch reports whether err is one of the matcher-level "no such record"
// outcomes.
func IsNoMatch(err error) bool {
	return errors.Is(err, ErrDateNoMatch) ||
		errors.Is(err, ErrTimeNoMatch) ||
		errors.Is(err, ErrNoNameMatch) ||
		errors.Is(err, ErrMissingCriteria)
}

// MatchError describes a rejected name lookup together with the closest
// names that were considered.
type MatchError struct {
	Query      Query
	Threshold  int
	Candidates []fuzzy.Match
}

func (e *MatchError) Error() string {
	if len(e.Candidates) == 0 {
		return fmt.Sprintf("%s: %q", ErrNoNameMatch, e.Query.Name)
	}
	names := make([]string, 0, len(e.Candidates))
	for _, c := range e.Candidates {
		names = append(names, fmt.Sprintf("%q (%d)", c.Choice, c.Score))
	}
	return fmt.Sprintf("%s: %q below %d, closest %s",
		ErrNoNameMatch, e.Query.Name, e.Threshold, strings.Join(names, ", "))
}

// Unwrap lets errors.Is match ErrNoNameMatch.
func (e *MatchError) Unwrap() error {
	return ErrNoNameMatch
}
