package events

import (
	"strings"
	"time"
	"unicode"
)

// DateLayout is the canonical DD-MM-YYYY layout every stored date uses.
const DateLayout = "02-01-2006"

// dateLayouts are tried in order; the first successful parse wins. Go's
// single-digit day and month verbs also accept zero-padded input.
var dateLayouts = []string{
	"2-1-2006", // DD-MM-YYYY
	"2006-1-2", // YYYY-MM-DD
	"2/1/2006", // DD/MM/YYYY
	"2006/1/2", // YYYY/MM/DD
}

var timeLayouts12 = []string{"3:04pm", "3pm"}

var timeLayouts24 = []string{"15:04", "1504", "15"}

// ParseDate parses input using the recognized date layouts.
func ParseDate(input string) (time.Time, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, input); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// NormalizeDate returns input in canonical DD-MM-YYYY form. It reports false
// when input is empty or no recognized layout accepts it.
func NormalizeDate(input string) (string, bool) {
	parsed, ok := ParseDate(input)
	if !ok {
		return "", false
	}
	return FormatDate(parsed), true
}

// FormatDate renders the calendar day of t in canonical form.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// NormalizeTime canonicalizes a display time to a zero-padded 12-hour form
// such as "09:30am". Input that is neither 12-hour nor 24-hour comes back
// lowercased with spaces and punctuation other than ':' removed.
func NormalizeTime(input string) string {
	cleaned := cleanTime(input)
	if cleaned == "" {
		return ""
	}
	for _, layout := range timeLayouts12 {
		if parsed, err := time.Parse(layout, cleaned); err == nil {
			return parsed.Format("03:04pm")
		}
	}
	for _, layout := range timeLayouts24 {
		if parsed, err := time.Parse(layout, cleaned); err == nil {
			return parsed.Format("03:04pm")
		}
	}
	return cleaned
}

func cleanTime(input string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(input) {
		switch {
		case r == ':':
			b.WriteRune(r)
		case unicode.IsSpace(r), unicode.IsPunct(r), unicode.IsSymbol(r):
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
