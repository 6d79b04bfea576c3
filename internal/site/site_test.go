package site

import (
	"strings"
	"testing"
	"time"

	"github.com/concertvenues/concertvenues/internal/config"
	"github.com/concertvenues/concertvenues/internal/event"
)

func TestMonthWeeks(t *testing.T) {
	// February 2026 starts on a Sunday and has 28 days.
	weeks := monthWeeks(2026, time.February)
	if len(weeks) != 5 {
		t.Fatalf("expected 5 weeks, got %d", len(weeks))
	}

	// First row: Mon-Sat are outside the month, Sunday is the 1st.
	if weeks[0] != [7]int{0, 0, 0, 0, 0, 0, 1} {
		t.Errorf("first week = %v", weeks[0])
	}
	// Second row runs Monday the 2nd through Sunday the 8th.
	if weeks[1] != [7]int{2, 3, 4, 5, 6, 7, 8} {
		t.Errorf("second week = %v", weeks[1])
	}
	// Last row ends on Saturday the 28th with a padded Sunday.
	if weeks[4] != [7]int{23, 24, 25, 26, 27, 28, 0} {
		t.Errorf("last week = %v", weeks[4])
	}
}

func TestBuildMonthsCoversWindow(t *testing.T) {
	now := time.Date(2026, time.February, 10, 12, 0, 0, 0, time.UTC)
	months := buildMonths(now, 62)

	// 10 Feb + 62 days lands in April: three month grids.
	if len(months) != 3 {
		t.Fatalf("expected 3 months, got %d", len(months))
	}
	if months[0].Name != "February 2026" {
		t.Errorf("first month = %q", months[0].Name)
	}
	if months[2].Name != "April 2026" {
		t.Errorf("last month = %q", months[2].Name)
	}
}

func TestBuildMonthsTrimsPastWeeks(t *testing.T) {
	now := time.Date(2026, time.February, 10, 12, 0, 0, 0, time.UTC)
	months := buildMonths(now, 30)

	// Weeks fully before the 10th are dropped; the week containing the 10th
	// survives intact.
	first := months[0]
	if len(first.Weeks) != 3 {
		t.Fatalf("expected 3 remaining weeks, got %d", len(first.Weeks))
	}
	if first.Weeks[0] != [7]int{9, 10, 11, 12, 13, 14, 15} {
		t.Errorf("first remaining week = %v", first.Weeks[0])
	}

	// Later months keep all their weeks.
	if len(months[1].Weeks) != 6 {
		t.Errorf("March 2026 weeks = %d, expected 6", len(months[1].Weeks))
	}
}

func TestTimeOfDay(t *testing.T) {
	tests := []struct {
		clock    string
		expected string
	}{
		{"19:00", "evening"},
		{"17:00", "evening"},
		{"16:59", "daytime"},
		{"09:30", "daytime"},
		{"", "unknown"},
	}

	for _, tt := range tests {
		if got := timeOfDay(tt.clock); got != tt.expected {
			t.Errorf("timeOfDay(%q) = %q, expected %q", tt.clock, got, tt.expected)
		}
	}
}

func TestNewEventView(t *testing.T) {
	venues := map[string]event.Venue{
		"jazzcafe": {Key: "jazzcafe", Name: "Jazz Cafe", URL: "https://thejazzcafelondon.com"},
	}
	e := event.Event{
		ID:       7,
		VenueKey: "jazzcafe",
		Title:    "Ezra Collective",
		Date:     event.NewDate(2026, time.February, 21),
		Time:     "19:00",
		URL:      "https://thejazzcafelondon.com/event/ezra-collective",
		Price:    "£25",
	}

	view := newEventView(e, venues)
	if view.Date != "2026-02-21" {
		t.Errorf("date = %q", view.Date)
	}
	if view.TimeOfDay != "evening" {
		t.Errorf("time of day = %q", view.TimeOfDay)
	}
	if view.VenueName != "Jazz Cafe" {
		t.Errorf("venue name = %q", view.VenueName)
	}
	if view.VenueURL != "https://thejazzcafelondon.com" {
		t.Errorf("venue url = %q", view.VenueURL)
	}

	// An event whose venue row is missing falls back to the key.
	orphan := newEventView(event.Event{VenueKey: "ghost"}, venues)
	if orphan.VenueName != "ghost" {
		t.Errorf("orphan venue name = %q", orphan.VenueName)
	}
}

func TestBuildPageData(t *testing.T) {
	cfg := &config.Config{}
	cfg.Site.BaseURL = "https://example.com/"

	venues := []event.Venue{
		{Key: "jazzcafe", Name: "Jazz Cafe"},
		{Key: "koko", Name: "KOKO"},
	}
	events := []event.Event{
		{VenueKey: "jazzcafe", Title: "Ezra Collective", Date: event.NewDate(2026, time.February, 21), URL: "https://x/1"},
	}
	now := time.Date(2026, time.February, 10, 12, 0, 0, 0, time.UTC)

	data, err := buildPageData(cfg, events, venues, now, 30)
	if err != nil {
		t.Fatalf("buildPageData failed: %v", err)
	}

	if data.Title != "Upcoming Concerts in London" {
		t.Errorf("default title = %q", data.Title)
	}
	if data.BaseURL != "https://example.com" {
		t.Errorf("base url = %q, expected trailing slash trimmed", data.BaseURL)
	}
	if data.Today != "2026-02-10" {
		t.Errorf("today = %q", data.Today)
	}

	// Only venues that currently have events appear in the filter.
	if len(data.Venues) != 1 || data.Venues[0].Key != "jazzcafe" {
		t.Errorf("venue options = %+v", data.Venues)
	}

	if !strings.Contains(string(data.EventsJSON), `"Ezra Collective"`) {
		t.Errorf("events JSON missing event: %s", data.EventsJSON)
	}
}
