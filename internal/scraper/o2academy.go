package scraper

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/concertvenues/concertvenues/internal/event"
	"github.com/concertvenues/concertvenues/internal/normalize"
)

// O2 Academy Brixton and O2 Forum Kentish Town share the Academy Music
// Group platform (Next.js). Listing cards are
// [data-testid="content-events-module__event-card"] with the title in the
// image alt text, an ISO <time datetime> value, and a relative /events/
// link. No price is published on the listing.
type amgVenue struct {
	cfg      Config
	key      string
	name     string
	renderer Renderer
}

func newO2AcademyBrixton(cfg Config) Scraper {
	return &amgVenue{cfg: cfg, key: "o2academybrixton", name: "O2 Academy Brixton", renderer: NewChromeRenderer()}
}

func newO2ForumKentishTown(cfg Config) Scraper {
	return &amgVenue{cfg: cfg, key: "o2forumkentishtown", name: "O2 Forum Kentish Town", renderer: NewChromeRenderer()}
}

func (s *amgVenue) VenueKey() string  { return s.key }
func (s *amgVenue) VenueName() string { return s.name }

func (s *amgVenue) FetchEvents(ctx context.Context) ([]event.Event, error) {
	doc, err := renderDocument(ctx, s.renderer, s.cfg.URL, RenderOptions{Settle: 3 * time.Second})
	if err != nil {
		return nil, err
	}
	events := s.parse(doc, time.Now())
	event.Sort(events)
	return events, nil
}

func (s *amgVenue) parse(doc *goquery.Document, now time.Time) []event.Event {
	today := event.DateOf(now)
	var events []event.Event

	// The same show can run multiple nights under one URL.
	type showNight struct {
		url  string
		date string
	}
	seen := make(map[showNight]bool)

	doc.Find(`[data-testid="content-events-module__event-card"]`).Each(func(_ int, card *goquery.Selection) {
		title, _ := card.Find("img[alt]").First().Attr("alt")
		title = strings.TrimSpace(title)
		if title == "" {
			return
		}

		dt, _ := card.Find("time[datetime]").First().Attr("datetime")
		date, clock, ok := normalize.ParseISO(dt)
		if !ok || date.Before(today.Time) {
			return
		}

		href, _ := card.Find(`a[href*="/events/"]`).First().Attr("href")
		if href == "" {
			return
		}
		url := absoluteURL(s.cfg.URL, href)

		key := showNight{url: url, date: date.Format("2006-01-02")}
		if seen[key] {
			return
		}
		seen[key] = true

		events = append(events, event.Event{
			VenueKey: s.key,
			Title:    title,
			Date:     event.Date{Time: date},
			Time:     event.Clock(clock),
			URL:      url,
		})
	})
	return events
}
