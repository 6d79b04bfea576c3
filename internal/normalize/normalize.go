package normalize

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var monthsByName = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// Matches "21 Feb", "21st February 2026", "21Feb" — day, month name,
// optional year. A leading weekday token ("Sat", "SATURDAY") is ignored
// because the pattern anchors on the day number.
var dayMonthRe = regexp.MustCompile(`(?i)(\d{1,2})(?:st|nd|rd|th)?\s*(?:of\s+)?([a-z]{3,9})\.?,?\s*(\d{4})?`)

// InferYear resolves a day/month fragment with no explicit year: try the
// current year, and if the resulting date is more than 60 days in the past
// relative to today, roll forward to next year. This handles year-end
// listings such as "3 Jan" scraped in December.
func InferYear(month time.Month, day int, today time.Time) time.Time {
	candidate := time.Date(today.Year(), month, day, 0, 0, 0, 0, time.UTC)
	if candidate.Month() != month || candidate.Day() != day {
		return time.Time{} // e.g. "31 Feb"
	}
	ref := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if ref.Sub(candidate) > 60*24*time.Hour {
		candidate = time.Date(today.Year()+1, month, day, 0, 0, 0, 0, time.UTC)
	}
	return candidate
}

// ParseDate parses human-readable date text like "Sat 21 Feb", "sat21feb",
// "21 Feb 2026", "Saturday 21st February", or "WED 25TH FEBRUARY 2026".
// When the year is absent it is inferred with InferYear. Returns the zero
// time when the text has no recognisable day/month.
func ParseDate(text string, today time.Time) time.Time {
	m := dayMonthRe.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}
	}
	day := atoi(m[1])
	name := strings.ToLower(m[2])
	if len(name) > 3 {
		name = name[:3]
	}
	month, ok := monthsByName[name]
	if !ok {
		return time.Time{}
	}
	if m[3] != "" {
		t := time.Date(atoi(m[3]), month, day, 0, 0, 0, 0, time.UTC)
		if t.Month() != month || t.Day() != day {
			return time.Time{}
		}
		return t
	}
	return InferYear(month, day, today)
}

var isoLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseISO parses an ISO 8601 datetime (the shape found in JSON-LD
// startDate values and <time datetime> attributes) into a calendar date
// and an optional "HH:MM" clock. A midnight timestamp is treated as "date
// only", matching how venues emit all-day events.
func ParseISO(text string) (date time.Time, clock string, ok bool) {
	text = strings.TrimSpace(text)
	for _, layout := range isoLayouts {
		t, err := time.Parse(layout, text)
		if err != nil {
			continue
		}
		date = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		if t.Hour() != 0 || t.Minute() != 0 {
			clock = fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
		}
		return date, clock, true
	}
	return time.Time{}, "", false
}

var clockRe = regexp.MustCompile(`(?i)(\d{1,2})(?::(\d{2}))?\s*(am|pm)?`)

// ClockTime extracts the start time from text like "19:00 - 23:00",
// "19:00", "7pm", or "7:00 PM" as a 24-hour "HH:MM" string. A trailing
// end time after a dash is discarded. Returns "" when no time is found.
func ClockTime(text string) string {
	// Keep only the start of a "start - end" range.
	for _, sep := range []string{"–", "—", "-"} {
		if i := strings.Index(text, sep); i >= 0 {
			text = text[:i]
		}
	}
	m := clockRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return ""
	}
	hour := atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute = atoi(m[2])
	}
	switch strings.ToLower(m[3]) {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	default:
		// Bare "7" with no am/pm or minutes is too ambiguous to keep.
		if m[2] == "" {
			return ""
		}
	}
	if hour > 23 || minute > 59 {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// Price renders a set of numeric amounts found for one event: a single
// amount verbatim ("£25"), several amounts as the minimum prefixed "From".
// Returns "" for no amounts.
func Price(amounts []float64) string {
	if len(amounts) == 0 {
		return ""
	}
	min := amounts[0]
	for _, a := range amounts[1:] {
		if a < min {
			min = a
		}
	}
	if len(amounts) > 1 {
		return fmt.Sprintf("From £%.0f", min)
	}
	return fmt.Sprintf("£%.0f", min)
}

// PriceRange renders a low–high pair, collapsing to "From" when equal.
func PriceRange(low, high float64) string {
	if high == low {
		return fmt.Sprintf("From £%.0f", low)
	}
	return fmt.Sprintf("£%.0f–£%.0f", low, high)
}

var soldOutRe = regexp.MustCompile(`(?i)sold.?out|waiting.?list`)

// SoldOut reports whether availability text signals a sold-out event.
// "Sold out" and "waiting list" both count; anything naming a working
// purchase action ("Get tickets", "Find tickets") does not.
func SoldOut(text string) bool {
	return soldOutRe.MatchString(text)
}

// Cancelled reports whether a source status string marks the event as
// cancelled or postponed. Such candidates are dropped entirely rather
// than stored.
func Cancelled(status string) bool {
	s := strings.ToLower(status)
	return strings.Contains(s, "cancelled") || strings.Contains(s, "canceled") ||
		strings.Contains(s, "postponed")
}

// Free reports whether text carries an explicit free-entry signal, which
// overrides any numeric price with the literal "Free".
func Free(text string) bool {
	return strings.Contains(strings.ToLower(text), "free")
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
