package events

import (
	"encoding/json"
	"strings"
	"time"
)

// DefaultExtraInfo is stored when an event is scheduled without extra info.
const DefaultExtraInfo = "None"

// Event is a single scheduled item. Day, Month and Year are derived from
// Date whenever they are read or written and are never stored separately.
type Event struct {
	Name      string
	Date      string
	Time      string
	ExtraInfo string
	Public    bool
}

// When returns the parsed date, or false when Date is not a recognized date.
func (e Event) When() (time.Time, bool) {
	return ParseDate(e.Date)
}

// Day returns the weekday name of Date, e.g. "Tuesday".
func (e Event) Day() string {
	if t, ok := e.When(); ok {
		return t.Weekday().String()
	}
	return ""
}

// Month returns the month name of Date, e.g. "June".
func (e Event) Month() string {
	if t, ok := e.When(); ok {
		return t.Month().String()
	}
	return ""
}

// Year returns the year of Date, or 0 when Date cannot be parsed.
func (e Event) Year() int {
	if t, ok := e.When(); ok {
		return t.Year()
	}
	return 0
}

// record is the on-disk shape; field order is the serialized key order.
type record struct {
	EventName string `json:"event_name"`
	Date      string `json:"date"`
	Day       string `json:"day"`
	Month     string `json:"month"`
	Year      int    `json:"year"`
	Time      string `json:"time"`
	ExtraInfo string `json:"extra_info"`
	Public    bool   `json:"public"`
}

// MarshalJSON writes the event with its derived fields recomputed from Date.
func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(record{
		EventName: e.Name,
		Date:      e.Date,
		Day:       e.Day(),
		Month:     e.Month(),
		Year:      e.Year(),
		Time:      e.Time,
		ExtraInfo: e.ExtraInfo,
		Public:    e.Public,
	})
}

// UnmarshalJSON reads an event, ignoring any stored day/month/year and
// canonicalizing the date when it is in another recognized layout.
// Missing public defaults to true and missing extra_info to "None".
func (e *Event) UnmarshalJSON(data []byte) error {
	var raw struct {
		EventName string  `json:"event_name"`
		Date      string  `json:"date"`
		Time      *string `json:"time"`
		ExtraInfo *string `json:"extra_info"`
		Public    *bool   `json:"public"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*e = Event{
		Name:      raw.EventName,
		Date:      strings.TrimSpace(raw.Date),
		ExtraInfo: DefaultExtraInfo,
		Public:    true,
	}
	if canonical, ok := NormalizeDate(e.Date); ok {
		e.Date = canonical
	}
	if raw.Time != nil {
		e.Time = *raw.Time
	}
	if raw.ExtraInfo != nil {
		e.ExtraInfo = *raw.ExtraInfo
	}
	if raw.Public != nil {
		e.Public = *raw.Public
	}
	return nil
}

// Fields returns the event as the ordered key/value mapping callers present
// to users and to the agent layer.
func (e Event) Fields() []Field {
	return []Field{
		{Key: FieldName, Value: e.Name},
		{Key: FieldDate, Value: e.Date},
		{Key: FieldDay, Value: e.Day()},
		{Key: FieldMonth, Value: e.Month()},
		{Key: FieldYear, Value: e.Year()},
		{Key: FieldTime, Value: e.Time},
		{Key: FieldExtraInfo, Value: e.ExtraInfo},
		{Key: FieldPublic, Value: e.Public},
	}
}

// Field is one named attribute of an event.
type Field struct {
	Key   string
	Value any
}

// Field names as they appear in the store.
const (
	FieldName      = "event_name"
	FieldDate      = "date"
	FieldDay       = "day"
	FieldMonth     = "month"
	FieldYear      = "year"
	FieldTime      = "time"
	FieldExtraInfo = "extra_info"
	FieldPublic    = "public"
)
