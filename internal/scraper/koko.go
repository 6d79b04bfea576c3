package scraper

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/concertvenues/concertvenues/internal/event"
	"github.com/concertvenues/concertvenues/internal/normalize"
)

// KOKO's listing is JS-rendered with CSS-module class names, so selectors
// match on class-name prefixes: cards are [class*="Event_component"], the
// date span inside [class*="Event_date"] reads like "sat 21 feb" (no year),
// and a [class*="Event_soldout"] element marks sold-out shows. No price or
// time is published on the listing.
type koko struct {
	cfg      Config
	renderer Renderer
}

func newKoko(cfg Config) Scraper {
	return &koko{cfg: cfg, renderer: NewChromeRenderer()}
}

func (s *koko) VenueKey() string  { return "koko" }
func (s *koko) VenueName() string { return "KOKO" }

func (s *koko) FetchEvents(ctx context.Context) ([]event.Event, error) {
	doc, err := renderDocument(ctx, s.renderer, s.cfg.URL, RenderOptions{Settle: 3 * time.Second})
	if err != nil {
		return nil, err
	}
	events := s.parse(doc, time.Now())
	event.Sort(events)
	return events, nil
}

func (s *koko) parse(doc *goquery.Document, now time.Time) []event.Event {
	today := event.DateOf(now)
	seen := make(map[string]bool)
	var events []event.Event

	doc.Find(`[class*="Event_component"]`).Each(func(_ int, card *goquery.Selection) {
		title, _ := card.Find("img[alt]").First().Attr("alt")
		title = strings.TrimSpace(title)
		if title == "" {
			return
		}

		dateEl := card.Find(`[class*="Event_date"]`).First()
		if dateEl.Length() == 0 {
			return
		}
		dateText := dateEl.Find("span").First().Text()
		if strings.TrimSpace(dateText) == "" {
			dateText = dateEl.Text()
		}
		date := normalize.ParseDate(dateText, now)
		if date.IsZero() || date.Before(today.Time) {
			return
		}

		href, _ := card.Find(`a[href*="/events/"]`).First().Attr("href")
		if href == "" {
			return
		}
		url := absoluteURL(s.cfg.URL, href)
		if seen[url] {
			return
		}
		seen[url] = true

		events = append(events, event.Event{
			VenueKey: s.VenueKey(),
			Title:    title,
			Date:     event.Date{Time: date},
			URL:      url,
			SoldOut:  card.Find(`[class*="Event_soldout"]`).Length() > 0,
		})
	})
	return events
}
