package scraper

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/concertvenues/concertvenues/internal/event"
	"github.com/concertvenues/concertvenues/internal/normalize"
)

// Alexandra Palace's what's-on page is JS-rendered. Cards are
// div.event_card_wrapper (cards also tagged .past-event are skipped), with
// the title under a.event_target > h3, the date in p.dates ("21 Feb 2026"),
// and waiting_list/sold_out card classes marking availability. No time or
// price is published on the listing.
type alexandraPalace struct {
	cfg      Config
	renderer Renderer
}

func newAlexandraPalace(cfg Config) Scraper {
	return &alexandraPalace{cfg: cfg, renderer: NewChromeRenderer()}
}

func (s *alexandraPalace) VenueKey() string  { return "alexandrapalace" }
func (s *alexandraPalace) VenueName() string { return "Alexandra Palace" }

func (s *alexandraPalace) FetchEvents(ctx context.Context) ([]event.Event, error) {
	doc, err := renderDocument(ctx, s.renderer, s.cfg.URL, RenderOptions{})
	if err != nil {
		return nil, err
	}
	events := s.parse(doc, time.Now())
	event.Sort(events)
	return events, nil
}

func (s *alexandraPalace) parse(doc *goquery.Document, now time.Time) []event.Event {
	today := event.DateOf(now)
	var events []event.Event

	doc.Find(".event_card_wrapper").Each(func(_ int, card *goquery.Selection) {
		if card.HasClass("past-event") {
			return
		}

		link := card.Find("a.event_target").First()
		href, _ := link.Attr("href")
		if href == "" {
			return
		}

		title := strings.TrimSpace(link.Find("h3").First().Text())
		if title == "" {
			return
		}

		date := normalize.ParseDate(card.Find("p.dates").First().Text(), now)
		if date.IsZero() || date.Before(today.Time) {
			return
		}

		// Waiting list is a sold-out signal: tickets are gone either way.
		soldOut := card.HasClass("waiting_list") || card.HasClass("sold_out")

		events = append(events, event.Event{
			VenueKey: s.VenueKey(),
			Title:    title,
			Date:     event.Date{Time: date},
			URL:      absoluteURL(s.cfg.URL, href),
			SoldOut:  soldOut,
		})
	})
	return events
}
