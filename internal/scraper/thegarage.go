package scraper

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/concertvenues/concertvenues/internal/event"
	"github.com/concertvenues/concertvenues/internal/normalize"
)

// The Garage serves its listing behind JS and a broken TLS certificate, so
// the listing is rendered headless (ignoring certificate errors) and detail
// pages are fetched with an insecure client. Listing cards are .card with a
// /gigs/ link, the title in .card__heading, and a .card__notification
// reading "Gig Sold Out". Date ("WED 25TH FEBRUARY 2026"), time, and price
// only appear in the free text of the detail pages.
type theGarage struct {
	cfg      Config
	client   *Client
	renderer Renderer
}

var (
	garageDateRe  = regexp.MustCompile(`(?i)\b(?:Mon|Tue|Wed|Thu|Fri|Sat|Sun)\w*\s+\d{1,2}(?:st|nd|rd|th)?\s+\w+\s+\d{4}\b`)
	garageTimeRe  = regexp.MustCompile(`(?i)\b(\d{1,2}:\d{2}\s*(?:AM|PM)?)\b`)
	garagePriceRe = regexp.MustCompile(`£\s*(\d+(?:\.\d{1,2})?)`)
)

func newTheGarage(cfg Config) Scraper {
	return &theGarage{cfg: cfg, client: NewInsecureClient(), renderer: NewChromeRenderer()}
}

func (s *theGarage) VenueKey() string  { return "thegarage" }
func (s *theGarage) VenueName() string { return "The Garage" }

func (s *theGarage) FetchEvents(ctx context.Context) ([]event.Event, error) {
	doc, err := renderDocument(ctx, s.renderer, s.cfg.URL, RenderOptions{IgnoreTLSErrors: true})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	stubs := s.parseListing(doc)

	var (
		mu     sync.Mutex
		events []event.Event
	)
	var g errgroup.Group
	g.SetLimit(detailWorkers)
	for _, st := range stubs {
		g.Go(func() error {
			detail, err := s.client.Get(ctx, st.url)
			if err != nil {
				return nil
			}
			e, ok := garageDetail(detail, now)
			if !ok {
				return nil
			}
			e.VenueKey = s.VenueKey()
			e.Title = st.title
			e.URL = st.url
			e.SoldOut = st.soldOut
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

type garageStub struct {
	url     string
	title   string
	soldOut bool
}

func (s *theGarage) parseListing(doc *goquery.Document) []garageStub {
	seen := make(map[string]bool)
	var stubs []garageStub

	doc.Find(".card").Each(func(_ int, card *goquery.Selection) {
		href, _ := card.Find(`a[href*="/gigs/"]`).First().Attr("href")
		if href == "" {
			return
		}
		url := absoluteURL(s.cfg.URL, href)
		if seen[url] {
			return
		}
		seen[url] = true

		title := strings.TrimSpace(card.Find(".card__heading").First().Text())
		if title == "" {
			title = slugTitle(url)
		}

		soldOut := normalize.SoldOut(card.Find(".card__notification").First().Text())
		stubs = append(stubs, garageStub{url: url, title: title, soldOut: soldOut})
	})
	return stubs
}

// garageDetail scans a detail page's full text for the date, time, and
// price patterns; an event without a recognisable future date is dropped.
func garageDetail(doc *goquery.Document, now time.Time) (event.Event, bool) {
	body := doc.Find("body").Text()

	dateText := garageDateRe.FindString(body)
	if dateText == "" {
		return event.Event{}, false
	}
	date := normalize.ParseDate(dateText, now)
	if date.IsZero() || date.Before(event.DateOf(now).Time) {
		return event.Event{}, false
	}

	var clock string
	if m := garageTimeRe.FindString(body); m != "" {
		clock = normalize.ClockTime(m)
	}

	var price string
	if m := garagePriceRe.FindStringSubmatch(body); m != nil {
		if f, err := strconv.ParseFloat(m[1], 64); err == nil {
			price = normalize.Price([]float64{f})
		}
	}

	return event.Event{
		Date:  event.Date{Time: date},
		Time:  event.Clock(clock),
		Price: price,
	}, true
}
