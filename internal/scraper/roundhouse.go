package scraper

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/concertvenues/concertvenues/internal/event"
	"github.com/concertvenues/concertvenues/internal/normalize"
)

// Roundhouse listing page (WordPress, paginated as /page/N/):
//   - cards: .event-card, link a.event-card__link, title .event-card__title
//
// Detail pages carry an Event JSON-LD block with startDate, offers
// (lowPrice/highPrice/availability), and eventStatus. Cancelled or postponed
// events are dropped.
type roundhouse struct {
	cfg    Config
	client *Client
}

const roundhouseMaxPages = 10

// Slugs containing these strings are not concert events.
var roundhouseNonEventRe = regexp.MustCompile(
	`(?i)backstage-pass|dj-development|poetry|animation|film|workshop|residency|education|talent|programme|drop-in|club-`)

func newRoundhouse(cfg Config) Scraper {
	return &roundhouse{cfg: cfg, client: NewClient()}
}

func (s *roundhouse) VenueKey() string  { return "roundhouse" }
func (s *roundhouse) VenueName() string { return "Roundhouse" }

func (s *roundhouse) FetchEvents(ctx context.Context) ([]event.Event, error) {
	now := time.Now()
	base := strings.TrimRight(s.cfg.URL, "/")

	type stub struct{ url, title string }
	var stubs []stub
	seen := make(map[string]bool)

	for page := 1; page <= roundhouseMaxPages; page++ {
		pageURL := base + "/"
		if page > 1 {
			pageURL = fmt.Sprintf("%s/page/%d/", base, page)
		}
		doc, err := s.client.Get(ctx, pageURL)
		if err != nil {
			if page == 1 {
				return nil, err
			}
			break // past the last page
		}

		cards := doc.Find(".event-card")
		if cards.Length() == 0 {
			break
		}

		newOnPage := 0
		cards.Each(func(_ int, card *goquery.Selection) {
			href, _ := card.Find("a.event-card__link").First().Attr("href")
			if href == "" || seen[href] {
				return
			}
			if roundhouseNonEventRe.MatchString(lastSlug(href)) {
				return
			}
			seen[href] = true
			title := strings.TrimSpace(card.Find(".event-card__title").First().Text())
			if title == "" {
				title = slugTitle(href)
			}
			stubs = append(stubs, stub{url: absoluteURL(base, href), title: title})
			newOnPage++
		})
		if newOnPage == 0 {
			break
		}
	}

	var (
		mu     sync.Mutex
		events []event.Event
	)
	var g errgroup.Group
	g.SetLimit(detailWorkers)
	for _, st := range stubs {
		g.Go(func() error {
			doc, err := s.client.Get(ctx, st.url)
			if err != nil {
				return nil // one unreachable detail page is noise
			}
			e, ok := roundhouseDetail(doc, now)
			if !ok {
				return nil
			}
			e.VenueKey = s.VenueKey()
			e.Title = st.title
			e.URL = st.url
			mu.Lock()
			events = append(events, e)
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	event.Sort(events)
	return events, nil
}

// roundhouseDetail extracts date, time, price, and availability from a
// detail page's JSON-LD block. Returns false for past, cancelled, or
// unparseable events.
func roundhouseDetail(doc *goquery.Document, now time.Time) (event.Event, bool) {
	ld, found := findEventLD(doc)
	if !found {
		return event.Event{}, false
	}
	if normalize.Cancelled(ld.EventStatus) {
		return event.Event{}, false
	}

	date, clock, ok := normalize.ParseISO(ld.StartDate)
	if !ok || date.Before(event.DateOf(now).Time) {
		return event.Event{}, false
	}

	var price string
	if low, ok := ldPrice(ld.Offers.LowPrice); ok {
		high, hasHigh := ldPrice(ld.Offers.HighPrice)
		if !hasHigh {
			high = low
		}
		price = normalize.PriceRange(low, high)
	}

	return event.Event{
		Date:    event.Date{Time: date},
		Time:    event.Clock(clock),
		Price:   price,
		SoldOut: normalize.SoldOut(ld.Offers.Availability),
	}, true
}

func lastSlug(u string) string {
	u = strings.TrimRight(u, "/")
	if i := strings.LastIndex(u, "/"); i >= 0 {
		return u[i+1:]
	}
	return u
}
