package calexport

import (
	"bytes"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faizmokh/pacli/internal/events"
)

var stamp = time.Date(2025, time.June, 1, 8, 0, 0, 0, time.UTC)

func sample() []events.Event {
	return []events.Event{
		{Name: "Team Sync", Date: "10-06-2025", Time: "10:00am", ExtraInfo: "None", Public: true},
		{Name: "Dentist", Date: "12-06-2025", Time: "", ExtraInfo: "bring card", Public: false},
		{Name: "Broken", Date: "someday", Time: "", ExtraInfo: "None", Public: true},
		{Name: "Team Sync", Date: "10-06-2025", Time: "10:00am", ExtraInfo: "None", Public: true},
	}
}

func TestWriteProducesParseableFeed(t *testing.T) {
	var buf bytes.Buffer
	skipped, err := Write(&buf, sample(), Options{Location: time.UTC, Now: stamp})
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)

	raw := buf.String()
	assert.Contains(t, raw, "PRODID:"+productID)
	assert.Contains(t, raw, "DTSTART;VALUE=DATE:20250612")
	assert.Contains(t, raw, "CLASS:PRIVATE")

	cal, err := ical.ParseCalendar(strings.NewReader(raw))
	require.NoError(t, err)
	evs := cal.Events()
	require.Len(t, evs, 3)

	assert.Equal(t, "Team Sync", evs[0].GetProperty(ical.ComponentPropertySummary).Value)
	start, err := evs[0].GetStartAt()
	require.NoError(t, err)
	assert.True(t, start.Equal(time.Date(2025, time.June, 10, 10, 0, 0, 0, time.UTC)))

	assert.Equal(t, "bring card", evs[1].GetProperty(ical.ComponentPropertyDescription).Value)
	assert.Nil(t, evs[0].GetProperty(ical.ComponentPropertyDescription))

	uid0 := evs[0].GetProperty(ical.ComponentPropertyUniqueId).Value
	uid2 := evs[2].GetProperty(ical.ComponentPropertyUniqueId).Value
	assert.NotEqual(t, uid0, uid2)
}

func TestCalendarPublicOnly(t *testing.T) {
	cal, skipped := Calendar(sample(), Options{Location: time.UTC, Now: stamp, PublicOnly: true})
	assert.Equal(t, 1, skipped)
	for _, ve := range cal.Events() {
		assert.NotEqual(t, "Dentist", ve.GetProperty(ical.ComponentPropertySummary).Value)
	}
	assert.Len(t, cal.Events(), 2)
}

func TestUIDIsStable(t *testing.T) {
	assert.Equal(t, UID("a|b|c", 0), UID("a|b|c", 0))
	assert.NotEqual(t, UID("a|b|c", 0), UID("a|b|c", 1))
	assert.True(t, strings.HasSuffix(UID("x", 0), "@pacli"))
}

func TestClockTime(t *testing.T) {
	tm, ok := clockTime("14:30")
	require.True(t, ok)
	assert.Equal(t, 14, tm.Hour())
	assert.Equal(t, 30, tm.Minute())

	_, ok = clockTime("after lunch")
	assert.False(t, ok)
	_, ok = clockTime("")
	assert.False(t, ok)
}
