// Package digest builds and mails summaries of upcoming events.
package digest

import (
	"fmt"
	"time"

	"github.com/faizmokh/pacli/internal/events"
)

// Section is one titled window of events.
type Section struct {
	Title  string
	From   time.Time
	To     time.Time
	Events []events.Event
}

// Digest is a full summary ready to render.
type Digest struct {
	Subject  string
	Sections []Section
}

// Empty reports whether no section has any events.
func (d Digest) Empty() bool {
	for _, s := range d.Sections {
		if len(s.Events) > 0 {
			return false
		}
	}
	return true
}

// Build groups all into the next day, the rest of this week, next week and
// the rest of this month, relative to now. When publicOnly is set, private
// events are left out.
func Build(all []events.Event, now time.Time, publicOnly bool, subject string) Digest {
	pool := all
	if publicOnly {
		pool = make([]events.Event, 0, len(all))
		for _, e := range all {
			if e.Public {
				pool = append(pool, e)
			}
		}
	}

	today := events.Today(now)
	tomorrow := today.AddDate(0, 0, 1)
	sunday := events.WeekEnd(now)
	nextMonday, nextSunday := events.NextWeek(now)
	monthEnd := time.Date(today.Year(), today.Month()+1, 0, 0, 0, 0, 0, today.Location())

	sections := []Section{
		section(fmt.Sprintf("Next Day (%s)", events.FormatDate(tomorrow)), pool, tomorrow, tomorrow),
		section(fmt.Sprintf("This Week Remaining (%s to %s)", events.FormatDate(today), events.FormatDate(sunday)), pool, today, sunday),
		section(fmt.Sprintf("Next Week (%s to %s)", events.FormatDate(nextMonday), events.FormatDate(nextSunday)), pool, nextMonday, nextSunday),
		section(fmt.Sprintf("Remaining Events for %s", today.Format("January 2006")), pool, today, monthEnd),
	}

	kind := "Upcoming Events"
	if publicOnly {
		kind = "Upcoming Public Events"
	}
	return Digest{
		Subject: fmt.Sprintf("%s: %s (%s, This Week: %s to %s, Next Week: %s to %s, %s)",
			subject, kind,
			events.FormatDate(tomorrow),
			events.FormatDate(today), events.FormatDate(sunday),
			events.FormatDate(nextMonday), events.FormatDate(nextSunday),
			today.Format("January 2006")),
		Sections: sections,
	}
}

func section(title string, pool []events.Event, from, to time.Time) Section {
	found := events.Between(pool, from, to)
	events.SortChronologically(found)
	return Section{Title: title, From: from, To: to, Events: found}
}
