package events

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// FieldDelete is the pseudo field that removes matching records.
const FieldDelete = "delete"

// Target identifies records by exact keys. An empty Time matches any time
// unless ExactTime is set, in which case it matches only untimed records.
type Target struct {
	Name      string
	Date      string
	Time      string
	ExactTime bool
}

// Applied reports a completed mutation.
type Applied struct {
	Target  Target
	Field   string
	Value   string
	Count   int
	Deleted bool
}

// Mutator applies keyed edits and deletions to the store.
type Mutator struct {
	store Store
}

// NewMutator wires a mutator writing through store.
func NewMutator(store Store) *Mutator {
	return &Mutator{store: store}
}

// Apply edits field on every record matching target exactly (case-sensitive
// name, canonical date, and time when target.Time is set), or removes them
// when field is "delete". The store is re-read inside the write lock, so a
// snapshot taken by an earlier lookup is never written back.
//
// A "date" value is normalized and rejected with ErrInvalidDate when no
// layout accepts it. "public" must parse as a boolean. day, month and year
// are derived from date and cannot be edited. Field names the record does not
// carry leave it untouched, which surfaces as ErrNotFound.
func (m *Mutator) Apply(ctx context.Context, target Target, field, value string) (Applied, error) {
	field = strings.ToLower(strings.TrimSpace(field))
	applied := Applied{Target: target, Field: field, Value: value}

	set, err := setterFor(field, value)
	if err != nil {
		return applied, err
	}
	if field == FieldDate {
		applied.Value, _ = NormalizeDate(value)
	}

	err = m.store.Update(ctx, func(current []Event) ([]Event, bool, error) {
		rebuilt := make([]Event, 0, len(current))
		for _, e := range current {
			if !target.matches(e) {
				rebuilt = append(rebuilt, e)
				continue
			}
			if field == FieldDelete {
				applied.Count++
				continue
			}
			if set != nil {
				set(&e)
				applied.Count++
			}
			rebuilt = append(rebuilt, e)
		}
		return rebuilt, applied.Count > 0, nil
	})
	if err != nil {
		return applied, err
	}

	if applied.Count == 0 {
		return applied, fmt.Errorf("%w: no event named %q on %s%s with field %q",
			ErrNotFound, target.Name, target.Date, target.timeSuffix(), field)
	}

	applied.Deleted = field == FieldDelete
	slog.Debug("events mutated", "name", target.Name, "date", target.Date, "field", field, "count", applied.Count)
	return applied, nil
}

func (t Target) matches(e Event) bool {
	if e.Name != t.Name || e.Date != t.Date {
		return false
	}
	if t.Time == "" && !t.ExactTime {
		return true
	}
	return e.Time == t.Time
}

func (t Target) timeSuffix() string {
	if t.Time == "" {
		if t.ExactTime {
			return " without a time"
		}
		return ""
	}
	return " at " + t.Time
}

// setterFor validates value once and returns the per-record update. A nil
// setter with a nil error means the field is unknown or is the delete marker.
func setterFor(field, value string) (func(*Event), error) {
	switch field {
	case "":
		return nil, fmt.Errorf("%w: field is required", ErrInvalidField)
	case FieldDelete:
		return nil, nil
	case FieldDate:
		if strings.TrimSpace(value) == "" {
			return nil, fmt.Errorf("%w: new date is empty", ErrInvalidDate)
		}
		canonical, ok := NormalizeDate(value)
		if !ok {
			return nil, fmt.Errorf("%w: %q (use DD-MM-YYYY)", ErrInvalidDate, value)
		}
		return func(e *Event) { e.Date = canonical }, nil
	case FieldName:
		return func(e *Event) { e.Name = value }, nil
	case FieldTime:
		return func(e *Event) { e.Time = value }, nil
	case FieldExtraInfo:
		return func(e *Event) { e.ExtraInfo = value }, nil
	case FieldPublic:
		public, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("%w: public must be true or false, got %q", ErrInvalidValue, value)
		}
		return func(e *Event) { e.Public = public }, nil
	case FieldDay, FieldMonth, FieldYear:
		return nil, fmt.Errorf("%w: %s is derived from date", ErrInvalidField, field)
	default:
		return nil, nil
	}
}
