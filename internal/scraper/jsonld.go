package scraper

import (
	"encoding/json"
	"strconv"

	"github.com/PuerkitoBio/goquery"
)

// ldEvent is the subset of a schema.org Event/MusicEvent JSON-LD block the
// scrapers care about.
type ldEvent struct {
	Type        string   `json:"@type"`
	StartDate   string   `json:"startDate"`
	EventStatus string   `json:"eventStatus"`
	Offers      ldOffers `json:"offers"`
}

type ldOffers struct {
	// Prices appear as numbers on some sites and strings on others.
	LowPrice      json.RawMessage `json:"lowPrice"`
	HighPrice     json.RawMessage `json:"highPrice"`
	PriceCurrency string          `json:"priceCurrency"`
	Availability  string          `json:"availability"`
}

// findEventLD scans a document's application/ld+json scripts for the first
// block whose @type is Event or MusicEvent.
func findEventLD(doc *goquery.Document) (*ldEvent, bool) {
	var found *ldEvent
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var ld ldEvent
		if err := json.Unmarshal([]byte(s.Text()), &ld); err != nil {
			return true
		}
		if ld.Type != "Event" && ld.Type != "MusicEvent" {
			return true
		}
		found = &ld
		return false
	})
	return found, found != nil
}

// ldPrice decodes a JSON-LD price value that may be a number, a quoted
// number, or absent.
func ldPrice(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	s := string(raw)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
