// Package calexport writes events as an iCalendar (RFC 5545) feed.
package calexport

import (
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/faizmokh/pacli/internal/events"
)

const productID = "-//pacli//events//EN"

// defaultDuration is used for events with a clock time, since the store has
// no end time.
const defaultDuration = time.Hour

// Options tune the export.
type Options struct {
	// Location interprets stored dates and times. Nil means time.Local.
	Location *time.Location
	// PublicOnly leaves out events marked private.
	PublicOnly bool
	// Now stamps DTSTAMP. Zero means time.Now.
	Now time.Time
}

// Calendar builds a VCALENDAR holding one VEVENT per exportable event.
// Events whose date cannot be parsed are skipped and counted in the second
// return value.
func Calendar(evs []events.Event, opts Options) (*ical.Calendar, int) {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	stamp := opts.Now
	if stamp.IsZero() {
		stamp = time.Now()
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	skipped := 0
	seen := make(map[string]int, len(evs))
	for _, e := range evs {
		if opts.PublicOnly && !e.Public {
			continue
		}
		day, ok := e.When()
		if !ok {
			skipped++
			continue
		}

		key := e.Name + "|" + e.Date + "|" + e.Time
		uid := UID(key, seen[key])
		seen[key]++

		ve := cal.AddEvent(uid)
		ve.SetSummary(e.Name)
		ve.SetDtStampTime(stamp)
		if info := strings.TrimSpace(e.ExtraInfo); info != "" && info != events.DefaultExtraInfo {
			ve.SetDescription(info)
		}
		if e.Public {
			ve.SetProperty(ical.ComponentPropertyClass, "PUBLIC")
		} else {
			ve.SetProperty(ical.ComponentPropertyClass, "PRIVATE")
		}

		if clock, ok := clockTime(e.Time); ok {
			start := time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, loc)
			ve.SetStartAt(start)
			ve.SetEndAt(start.Add(defaultDuration))
			continue
		}
		start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
		ve.SetAllDayStartAt(start)
		ve.SetAllDayEndAt(start.AddDate(0, 0, 1))
	}
	return cal, skipped
}

// Write serializes the feed for evs to w.
func Write(w io.Writer, evs []events.Event, opts Options) (int, error) {
	cal, skipped := Calendar(evs, opts)
	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return skipped, fmt.Errorf("write calendar: %w", err)
	}
	return skipped, nil
}

// UID derives a stable identifier from an event's keys. n separates exact
// duplicates, which the store allows.
func UID(key string, n int) string {
	if n > 0 {
		key = fmt.Sprintf("%s#%d", key, n)
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("pacli:"+key)).String() + "@pacli"
}

// clockTime parses a stored display time such as "10:00am" or "14:30".
func clockTime(s string) (time.Time, bool) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("03:04pm", events.NormalizeTime(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
