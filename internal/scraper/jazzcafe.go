package scraper

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/concertvenues/concertvenues/internal/event"
	"github.com/concertvenues/concertvenues/internal/normalize"
)

// Jazz Cafe listing page structure:
//   - each event block wraps a div.event-date ("Sat21Feb") two levels up
//   - title: .event-title, with a span.host subtitle to strip
//   - link: first a[href] in the block
//
// Detail pages carry price (.price, lowest £ amount), sold-out status
// (.sold-out-div, empty unless sold out), and doors time (.details-grid).
type jazzCafe struct {
	cfg    Config
	client *Client
}

func newJazzCafe(cfg Config) Scraper {
	return &jazzCafe{cfg: cfg, client: NewClient()}
}

func (s *jazzCafe) VenueKey() string  { return "jazzcafe" }
func (s *jazzCafe) VenueName() string { return "Jazz Cafe" }

func (s *jazzCafe) FetchEvents(ctx context.Context) ([]event.Event, error) {
	doc, err := s.client.Get(ctx, s.cfg.URL)
	if err != nil {
		return nil, err
	}

	events := s.parseListing(doc, time.Now())

	// Detail pages fill in price, sold-out, and doors time. A failed detail
	// fetch leaves those fields empty rather than dropping the event.
	var g errgroup.Group
	g.SetLimit(detailWorkers)
	for i := range events {
		g.Go(func() error {
			detail, err := s.client.Get(ctx, events[i].URL)
			if err == nil {
				applyJazzCafeDetail(&events[i], detail)
			}
			return nil
		})
	}
	g.Wait()

	event.Sort(events)
	return events, nil
}

func (s *jazzCafe) parseListing(doc *goquery.Document, now time.Time) []event.Event {
	today := event.DateOf(now)
	var events []event.Event

	doc.Find(".event-date").Each(func(_ int, dateDiv *goquery.Selection) {
		block := dateDiv.Parent().Parent()

		titleEl := block.Find(".event-title").First()
		if titleEl.Length() == 0 {
			return
		}
		// The title element holds a span.host subtitle we don't want.
		host := titleEl.Find(".host").Text()
		title := strings.TrimSpace(strings.Replace(titleEl.Text(), host, "", 1))
		if title == "" {
			return
		}

		link := block.Find("a[href]").First()
		href, _ := link.Attr("href")
		if href == "" {
			return
		}

		// "Sat21Feb" — no year, inferred from today.
		date := normalize.ParseDate(dateDiv.Text(), now)
		if date.IsZero() || date.Before(today.Time) {
			return
		}

		events = append(events, event.Event{
			VenueKey: s.VenueKey(),
			Title:    title,
			Date:     event.Date{Time: date},
			URL:      absoluteURL(s.cfg.URL, href),
		})
	})

	return events
}

var poundRe = regexp.MustCompile(`£([\d.]+)`)

func applyJazzCafeDetail(e *event.Event, doc *goquery.Document) {
	// Price block is "<h2>Price</h2><strong>Standing Tickets: £25</strong> ...";
	// keep the lowest amount, "From"-prefixed when there are several tiers.
	if priceEl := doc.Find(".price").First(); priceEl.Length() > 0 {
		var amounts []float64
		for _, m := range poundRe.FindAllStringSubmatch(priceEl.Text(), -1) {
			if f, err := strconv.ParseFloat(m[1], 64); err == nil {
				amounts = append(amounts, f)
			}
		}
		e.Price = normalize.Price(amounts)
	}

	// .sold-out-div is present on every page but empty unless sold out.
	if strings.TrimSpace(doc.Find(".sold-out-div").Text()) != "" {
		e.SoldOut = true
	}

	// Doors time lives in a details grid: <h2>Doors</h2><p>19:00-22:30</p>.
	doc.Find(".details-grid > div").EachWithBreak(func(_ int, div *goquery.Selection) bool {
		heading := div.Find("h2, h3").First().Text()
		if !strings.Contains(strings.ToLower(heading), "doors") {
			return true
		}
		e.Time = event.Clock(normalize.ClockTime(div.Find("p").First().Text()))
		return false
	})
}
