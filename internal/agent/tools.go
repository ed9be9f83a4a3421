package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/faizmokh/pacli/internal/events"
)

type handlers struct {
	deps Deps
}

func (h *handlers) tools() []Tool {
	return []Tool{
		{
			Name:        "schedule_event",
			Description: "Schedule an event and store it.",
			Params: []Param{
				{Name: "date", Type: "string", Required: true, Description: "event date, DD-MM-YYYY"},
				{Name: "time", Type: "string", Description: "display time, e.g. 10:00 AM"},
				{Name: "event_name", Type: "string", Required: true, Description: "title of the event"},
				{Name: "extra_info", Type: "string", Description: "additional notes"},
				{Name: "public", Type: "boolean", Description: "visible in shared digests (default true)"},
			},
			call: h.scheduleEvent,
		},
		{
			Name:        "get_event_schedule",
			Description: "List events between two dates, inclusive. For next week use next Monday to Sunday.",
			Params: []Param{
				{Name: "start_date", Type: "string", Required: true, Description: "DD-MM-YYYY"},
				{Name: "end_date", Type: "string", Required: true, Description: "DD-MM-YYYY"},
			},
			call: h.getEventSchedule,
		},
		{
			Name:        "find_event",
			Description: "Find events by approximate name and optional date and time. Returns JSON; a single match carries its score.",
			Params: []Param{
				{Name: "event_name", Type: "string", Description: "approximate event name"},
				{Name: "date", Type: "string", Description: "DD-MM-YYYY"},
				{Name: "time", Type: "string", Description: "event time"},
			},
			call: h.findEvent,
		},
		{
			Name:        "edit_event",
			Description: "Edit or delete events identified by their exact name, date and optional time.",
			Params: []Param{
				{Name: "event_name", Type: "string", Required: true, Description: "exact event name"},
				{Name: "date", Type: "string", Required: true, Description: "DD-MM-YYYY"},
				{Name: "time", Type: "string", Description: "exact time; empty matches any"},
				{Name: "field_to_edit", Type: "string", Required: true, Description: "field name, or delete"},
				{Name: "new_value", Type: "string", Description: "new value for the field"},
			},
			call: h.editEvent,
		},
		{
			Name:        "find_and_edit_event",
			Description: "Find events by approximate name and edit a field on each match.",
			Params: []Param{
				{Name: "event_name", Type: "string", Required: true, Description: "approximate event name"},
				{Name: "field_to_edit", Type: "string", Required: true, Description: "field name, or delete"},
				{Name: "new_value", Type: "string", Description: "new value for the field"},
				{Name: "date", Type: "string", Description: "DD-MM-YYYY"},
				{Name: "time", Type: "string", Description: "event time"},
			},
			call: h.findAndEditEvent,
		},
		{
			Name:        "resolve_day_from_date",
			Description: "Return the weekday of a date.",
			Params: []Param{
				{Name: "date_str", Type: "string", Required: true, Description: "DD-MM-YYYY or YYYY-MM-DD"},
			},
			call: h.resolveDayFromDate,
		},
	}
}

func (h *handlers) scheduleEvent(ctx context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		Date      string `json:"date"`
		Time      text   `json:"time"`
		EventName string `json:"event_name"`
		ExtraInfo string `json:"extra_info"`
		Public    *bool  `json:"public"`
	}
	if err := decode(raw, &args, "date", "event_name"); err != nil {
		return "", err
	}

	e, err := h.deps.Scheduler.Schedule(ctx, events.NewEvent{
		Name:      args.EventName,
		Date:      args.Date,
		Time:      string(args.Time),
		ExtraInfo: args.ExtraInfo,
		Public:    args.Public,
	})
	if err != nil {
		if errors.Is(err, events.ErrInvalidDate) {
			return "Invalid date format. Use DD-MM-YYYY.", nil
		}
		return failure(ctx, err)
	}
	if e.Time == "" {
		return fmt.Sprintf("Event scheduled: %s on %s", e.Name, e.Date), nil
	}
	return fmt.Sprintf("Event scheduled: %s on %s at %s", e.Name, e.Date, e.Time), nil
}

func (h *handlers) getEventSchedule(ctx context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
	}
	if err := decode(raw, &args, "start_date", "end_date"); err != nil {
		return "", err
	}

	found, err := events.Range(ctx, h.deps.Store, args.StartDate, args.EndDate)
	if err != nil {
		if errors.Is(err, events.ErrInvalidDate) {
			return "Invalid date format. Please use DD-MM-YYYY.", nil
		}
		return failure(ctx, err)
	}

	from, _ := events.ParseDate(args.StartDate)
	to, _ := events.ParseDate(args.EndDate)
	span := fmt.Sprintf("%s to %s", from.Format("Monday, January 02"), to.Format("Monday, January 02"))
	if len(found) == 0 {
		return "No events scheduled from " + span + ".", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Events from %s:", span)
	for _, e := range found {
		fmt.Fprintf(&b, "\n- %s (%s, %s)", e.Name, e.Day(), e.Date)
		if e.Time != "" {
			fmt.Fprintf(&b, " at %s", e.Time)
		}
	}
	return b.String(), nil
}

func (h *handlers) findEvent(ctx context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		EventName string `json:"event_name"`
		Date      string `json:"date"`
		Time      text   `json:"time"`
	}
	if err := decode(raw, &args); err != nil {
		return "", err
	}

	res, err := h.deps.Matcher.Find(ctx, events.NewQuery(args.EventName, args.Date, string(args.Time)))
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return jsonText(map[string]string{"error": err.Error()})
	}

	if res.Kind == events.SingleMatch {
		best, err := withScore(res.Matches[0])
		if err != nil {
			return "", err
		}
		return jsonText(best)
	}
	list := make([]events.Event, 0, len(res.Matches))
	for _, m := range res.Matches {
		list = append(list, m.Event)
	}
	return jsonText(list)
}

func (h *handlers) editEvent(ctx context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		EventName   string `json:"event_name"`
		Date        string `json:"date"`
		Time        text   `json:"time"`
		FieldToEdit string `json:"field_to_edit"`
		NewValue    text   `json:"new_value"`
	}
	if err := decode(raw, &args, "event_name", "date", "field_to_edit"); err != nil {
		return "", err
	}

	date := args.Date
	if canonical, ok := events.NormalizeDate(date); ok {
		date = canonical
	}
	target := events.Target{Name: args.EventName, Date: date, Time: string(args.Time)}
	applied, err := h.deps.Mutator.Apply(ctx, target, args.FieldToEdit, string(args.NewValue))
	switch {
	case errors.Is(err, events.ErrNotFound):
		return fmt.Sprintf("No event named %q on %s found to edit.", args.EventName, date), nil
	case err != nil && ctx.Err() != nil:
		return "", ctx.Err()
	}
	res := events.EditResult{
		Event:   events.Event{Name: args.EventName, Date: date},
		Applied: applied,
		Err:     err,
	}
	return res.String(), nil
}

func (h *handlers) findAndEditEvent(ctx context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		EventName   string `json:"event_name"`
		FieldToEdit string `json:"field_to_edit"`
		NewValue    text   `json:"new_value"`
		Date        string `json:"date"`
		Time        text   `json:"time"`
	}
	if err := decode(raw, &args, "event_name", "field_to_edit"); err != nil {
		return "", err
	}

	results, err := h.deps.Editor.ResolveAndEdit(ctx, events.EditRequest{
		Name:  args.EventName,
		Field: args.FieldToEdit,
		Value: string(args.NewValue),
		Date:  args.Date,
		Time:  string(args.Time),
	})
	switch {
	case err == nil:
		return events.Summary(results), nil
	case errors.Is(err, events.ErrNoMatchingEvents):
		return "No matching events found to edit.", nil
	case errors.Is(err, events.ErrNotFound) && len(results) == 0:
		return fmt.Sprintf("Event not found. Please check the event name or date. (%v)", err), nil
	}
	out, ferr := failure(ctx, err)
	if ferr != nil || len(results) == 0 {
		return out, ferr
	}
	return events.Summary(results) + "\n" + out, nil
}

func (h *handlers) resolveDayFromDate(_ context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		DateStr string `json:"date_str"`
	}
	if err := decode(raw, &args, "date_str"); err != nil {
		return "", err
	}
	day, err := events.Weekday(args.DateStr)
	if err != nil {
		return "Invalid date format. Please use DD-MM-YYYY or YYYY-MM-DD.", nil
	}
	return day, nil
}

// failure turns a store-level error into text unless ctx was cancelled.
func failure(ctx context.Context, err error) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	switch {
	case errors.Is(err, events.ErrStoreCorrupted):
		return "Error: the event file is corrupted.", nil
	case errors.Is(err, events.ErrStoreUnavailable):
		return "Error: the event file could not be read.", nil
	case errors.Is(err, events.ErrPersistFailure):
		return "Error: the change could not be saved.", nil
	}
	return "Error: " + err.Error(), nil
}

// withScore appends a "score" key after the event's own fields.
func withScore(m events.Match) (json.RawMessage, error) {
	data, err := json.Marshal(m.Event)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSuffix(bytes.TrimSpace(data), []byte("}"))
	return fmt.Appendf(data, `,"score":%d}`, m.Score), nil
}

func jsonText(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
