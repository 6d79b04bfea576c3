package scraper

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/concertvenues/concertvenues/internal/event"
	"github.com/concertvenues/concertvenues/internal/normalize"
)

// The O2 listing page is JS-rendered with a "Load More Events" button that
// must be clicked until exhausted, behind a OneTrust cookie banner. Cards
// link to /events/detail/<slug> pages whose MusicEvent JSON-LD carries
// startDate, availability, and eventStatus. No price is published.
type theO2 struct {
	cfg      Config
	client   *Client
	renderer Renderer
}

var oneTrustSelectors = []string{
	"#onetrust-accept-btn-handler",
	"button#accept-recommended-btn-handler",
	".onetrust-accept-btn-handler",
}

func newTheO2(cfg Config) Scraper {
	return &theO2{cfg: cfg, client: NewClient(), renderer: NewChromeRenderer()}
}

func (s *theO2) VenueKey() string  { return "theo2" }
func (s *theO2) VenueName() string { return "The O2" }

func (s *theO2) FetchEvents(ctx context.Context) ([]event.Event, error) {
	doc, err := renderDocument(ctx, s.renderer, s.cfg.URL, RenderOptions{
		DismissAll: oneTrustSelectors,
		ClickAll:   "button.loadMoreEvents",
	})
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
			e, ok := theO2Detail(detail, now)
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

type theO2Stub struct{ url, title string }

func (s *theO2) parseListing(doc *goquery.Document) []theO2Stub {
	seen := make(map[string]bool)
	var stubs []theO2Stub

	doc.Find(`a[href*="/events/detail/"]`).Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if href == "" {
			return
		}
		url := absoluteURL(s.cfg.URL, href)
		if seen[url] {
			return
		}
		seen[url] = true

		// Title: h3 inside the link, else the h3 of the enclosing card,
		// else the URL slug.
		title := strings.TrimSpace(a.Find("h3").First().Text())
		if title == "" {
			title = strings.TrimSpace(a.Closest(":has(h3)").Find("h3").First().Text())
		}
		if title == "" {
			title = strings.TrimSpace(a.Text())
		}
		if title == "" {
			title = slugTitle(url)
		}
		stubs = append(stubs, theO2Stub{url: url, title: title})
	})
	return stubs
}

func theO2Detail(doc *goquery.Document, now time.Time) (event.Event, bool) {
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
	return event.Event{
		Date:    event.Date{Time: date},
		Time:    event.Clock(clock),
		SoldOut: normalize.SoldOut(ld.Offers.Availability),
	}, true
}
