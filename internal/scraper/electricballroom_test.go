package scraper

import (
	"os"
	"testing"
	"time"
)

func TestElectricBallroomParse(t *testing.T) {
	data, err := os.ReadFile("../../testdata/fixtures/electricballroom_listing.html")
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}
	doc := docFromHTML(t, string(data))

	s := &electricBallroom{cfg: Config{URL: "https://electricballroom.co.uk/whats-on/"}}
	now := time.Date(2026, time.February, 1, 12, 0, 0, 0, time.UTC)
	events := s.parse(doc, now)

	// The past event and the titleless card are dropped.
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}

	first := events[0]
	if first.Title != "Dream Wife" {
		t.Errorf("title = %q, expected Dream Wife", first.Title)
	}
	if first.Date.String() != "2026-02-21" {
		t.Errorf("date = %s, expected 2026-02-21", first.Date)
	}
	if first.Time != "19:00" {
		t.Errorf("time = %q, expected 19:00 (end of range discarded)", first.Time)
	}
	if first.URL != "https://electricballroom.co.uk/event/dream-wife/" {
		t.Errorf("url = %q", first.URL)
	}
	if first.Price != "£22.50" {
		t.Errorf("price = %q, expected £22.50", first.Price)
	}
	if first.ImageURL != "https://electricballroom.co.uk/wp-content/uploads/dream-wife.jpg" {
		t.Errorf("imageURL = %q", first.ImageURL)
	}
	if first.SoldOut {
		t.Error("Dream Wife should not be sold out")
	}

	// Sold out via title suffix, which is then stripped from the title.
	second := events[1]
	if second.Title != "The Murder Capital" {
		t.Errorf("title = %q, expected suffix to be stripped", second.Title)
	}
	if !second.SoldOut {
		t.Error("The Murder Capital should be sold out")
	}

	// Sold out via missing buy button.
	third := events[2]
	if third.Title != "Secret Show" {
		t.Errorf("title = %q, expected Secret Show", third.Title)
	}
	if !third.SoldOut {
		t.Error("a card with no buy button should be sold out")
	}
}
