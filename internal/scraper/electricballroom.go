package scraper

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/concertvenues/concertvenues/internal/event"
	"github.com/concertvenues/concertvenues/internal/normalize"
)

// Electric Ballroom's listing is static: .grid-block cards with the link on
// a.grid-link, the title in .event-name a (sometimes suffixed "– SOLD
// OUT!"), the date in .event-date ("Saturday 21st February", no year), time
// in .event-time, price in .event-price, and the image as a CSS background
// on .grid-image. A card with no buy button is also treated as sold out.
type electricBallroom struct {
	cfg    Config
	client *Client
}

var (
	soldOutSuffixRe = regexp.MustCompile(`(?i)\s*[–-]?\s*sold.?out!?\s*$`)
	cssURLRe        = regexp.MustCompile(`url\(['"]?(.+?)['"]?\)`)
)

func newElectricBallroom(cfg Config) Scraper {
	return &electricBallroom{cfg: cfg, client: NewClient()}
}

func (s *electricBallroom) VenueKey() string  { return "electricballroom" }
func (s *electricBallroom) VenueName() string { return "Electric Ballroom" }

func (s *electricBallroom) FetchEvents(ctx context.Context) ([]event.Event, error) {
	doc, err := s.client.Get(ctx, s.cfg.URL)
	if err != nil {
		return nil, err
	}
	events := s.parse(doc, time.Now())
	event.Sort(events)
	return events, nil
}

func (s *electricBallroom) parse(doc *goquery.Document, now time.Time) []event.Event {
	today := event.DateOf(now)
	var events []event.Event

	doc.Find(".grid-block").Each(func(_ int, card *goquery.Selection) {
		href, _ := card.Find("a.grid-link").First().Attr("href")
		if href == "" {
			return
		}

		rawTitle := strings.TrimSpace(card.Find(".event-name a").First().Text())
		if rawTitle == "" {
			return
		}

		// Sold-out shows up as a title suffix, or as a missing buy button.
		soldOut := normalize.SoldOut(rawTitle)
		if !soldOut && card.Find(".buy-share-event .button").Length() == 0 {
			soldOut = true
		}
		title := strings.TrimSpace(soldOutSuffixRe.ReplaceAllString(rawTitle, ""))

		date := normalize.ParseDate(card.Find(".event-date").First().Text(), now)
		if date.IsZero() || date.Before(today.Time) {
			return
		}

		clock := normalize.ClockTime(card.Find(".event-time").First().Text())
		price := strings.TrimSpace(card.Find(".event-price").First().Text())

		var imageURL string
		if style, ok := card.Find(".grid-image").First().Attr("style"); ok {
			if m := cssURLRe.FindStringSubmatch(style); m != nil {
				imageURL = m[1]
			}
		}

		events = append(events, event.Event{
			VenueKey: s.VenueKey(),
			Title:    title,
			Date:     event.Date{Time: date},
			Time:     event.Clock(clock),
			URL:      absoluteURL(s.cfg.URL, href),
			Price:    price,
			ImageURL: imageURL,
			SoldOut:  soldOut,
		})
	})
	return events
}
