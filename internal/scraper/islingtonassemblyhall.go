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

// Islington Assembly Hall paginates its listing as ?page=N. Cards are
// li.event__item with the link and title on a.event__item__title. Detail
// pages carry a labelled list (.event__details__list) with "Date"
// ("21/02/2026"), "Time" ("19:00"), and "Total price, inc booking fee"
// lines, plus a ticket CTA whose text distinguishes "Get tickets",
// "Waiting List" (sold out), and "Free".
type islingtonAssemblyHall struct {
	cfg    Config
	client *Client
}

const islingtonMaxPages = 10

var currencyRe = regexp.MustCompile(`[£$€][\d.,]+`)

func newIslingtonAssemblyHall(cfg Config) Scraper {
	return &islingtonAssemblyHall{cfg: cfg, client: NewClient()}
}

func (s *islingtonAssemblyHall) VenueKey() string  { return "islingtonassemblyhall" }
func (s *islingtonAssemblyHall) VenueName() string { return "Islington Assembly Hall" }

func (s *islingtonAssemblyHall) FetchEvents(ctx context.Context) ([]event.Event, error) {
	now := time.Now()

	type stub struct{ url, title string }
	var stubs []stub
	seen := make(map[string]bool)

	for page := 1; page <= islingtonMaxPages; page++ {
		pageURL := s.cfg.URL
		if page > 1 {
			pageURL = fmt.Sprintf("%s?page=%d", s.cfg.URL, page)
		}
		doc, err := s.client.Get(ctx, pageURL)
		if err != nil {
			if page == 1 {
				return nil, err
			}
			break
		}

		newOnPage := 0
		doc.Find("li.event__item").Each(func(_ int, item *goquery.Selection) {
			link := item.Find("a.event__item__title").First()
			href, _ := link.Attr("href")
			title := strings.TrimSpace(link.Text())
			if href == "" || title == "" {
				return
			}
			url := absoluteURL(s.cfg.URL, href)
			if seen[url] {
				return
			}
			seen[url] = true
			stubs = append(stubs, stub{url: url, title: title})
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
				return nil
			}
			e, ok := islingtonDetail(doc, now)
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

func islingtonDetail(doc *goquery.Document, now time.Time) (event.Event, bool) {
	// The details list is label/value line pairs.
	details := make(map[string]string)
	doc.Find(".event__details__list .event__details__list__item").Each(func(_ int, item *goquery.Selection) {
		lines := item.Find(".event__details__list__line")
		if lines.Length() >= 2 {
			label := strings.ToLower(strings.TrimSpace(lines.Eq(0).Text()))
			details[label] = strings.TrimSpace(lines.Eq(1).Text())
		}
	})

	date, err := time.Parse("02/01/2006", details["date"])
	if err != nil || date.Before(event.DateOf(now).Time) {
		return event.Event{}, false
	}

	clock := normalize.ClockTime(details["time"])

	var price string
	if m := currencyRe.FindString(details["total price, inc booking fee"]); m != "" {
		price = m
	}

	var soldOut bool
	cta := doc.Find(".event__details__list__item--tickets .cta__foreground").First().Text()
	if cta != "" {
		soldOut = normalize.SoldOut(cta)
		if normalize.Free(cta) {
			price = "Free"
		}
	}

	return event.Event{
		Date:    event.Date{Time: date},
		Time:    event.Clock(clock),
		Price:   price,
		SoldOut: soldOut,
	}, true
}
