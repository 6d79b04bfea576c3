package scraper

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/concertvenues/concertvenues/internal/event"
	"github.com/concertvenues/concertvenues/internal/normalize"
)

// EartH Hackney publishes a static listing: li.list--events__item cards
// with a schema.org <time itemprop="startDate" datetime="..."> stamp, a
// start/end time range in <time class="time"> ("19:00 - 23:00"), and a
// .ticket-note carrying sold-out text. Prices only appear on detail pages,
// which this scraper does not fetch.
type earthHackney struct {
	cfg    Config
	client *Client
}

func newEarthHackney(cfg Config) Scraper {
	return &earthHackney{cfg: cfg, client: NewClient()}
}

func (s *earthHackney) VenueKey() string  { return "earthackney" }
func (s *earthHackney) VenueName() string { return "EartH Hackney" }

func (s *earthHackney) FetchEvents(ctx context.Context) ([]event.Event, error) {
	doc, err := s.client.Get(ctx, s.cfg.URL)
	if err != nil {
		return nil, err
	}
	events := s.parse(doc, time.Now())
	event.Sort(events)
	return events, nil
}

func (s *earthHackney) parse(doc *goquery.Document, now time.Time) []event.Event {
	today := event.DateOf(now)
	var events []event.Event

	doc.Find("li.list--events__item").Each(func(_ int, item *goquery.Selection) {
		title := strings.TrimSpace(item.Find(".list--events__item__title").First().Text())
		if title == "" {
			return
		}

		href, _ := item.Find(".list--events__item__image a").First().Attr("href")
		if href == "" {
			return
		}

		dt, _ := item.Find("time[itemprop=startDate]").First().Attr("datetime")
		date, _, ok := normalize.ParseISO(dt)
		if !ok || date.Before(today.Time) {
			return
		}

		// The visible range "19:00 - 23:00" is more reliable than the
		// startDate stamp, which is often midnight.
		clock := normalize.ClockTime(item.Find("time.time").First().Text())

		soldOut := normalize.SoldOut(item.Find(".ticket-note").First().Text())

		imageURL, _ := item.Find("img.event-image").First().Attr("src")

		events = append(events, event.Event{
			VenueKey: s.VenueKey(),
			Title:    title,
			Date:     event.Date{Time: date},
			Time:     event.Clock(clock),
			URL:      absoluteURL(s.cfg.URL, href),
			ImageURL: imageURL,
			SoldOut:  soldOut,
		})
	})
	return events
}
