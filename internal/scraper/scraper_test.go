package scraper

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse HTML: %v", err)
	}
	return doc
}

func TestRegistryCoversAllKeys(t *testing.T) {
	keys := Keys()
	if len(keys) != len(registry) {
		t.Fatalf("Keys() returned %d keys, expected %d", len(keys), len(registry))
	}

	for _, key := range keys {
		sc, ok := New(key, Config{URL: "https://example.com"})
		if !ok {
			t.Fatalf("New(%q) not found despite being listed by Keys()", key)
		}
		if sc.VenueKey() != key {
			t.Errorf("scraper for %q reports VenueKey %q", key, sc.VenueKey())
		}
		if sc.VenueName() == "" {
			t.Errorf("scraper for %q has an empty VenueName", key)
		}
	}

	if _, ok := New("nosuchvenue", Config{}); ok {
		t.Error("New should not find an unregistered key")
	}
}

func TestUnsupportedVenuesFailFast(t *testing.T) {
	for _, key := range []string{"unionchapel", "royalalberthall"} {
		sc, ok := New(key, Config{URL: "https://example.com"})
		if !ok {
			t.Fatalf("New(%q) not found", key)
		}
		events, err := sc.FetchEvents(context.Background())
		if !errors.Is(err, ErrUnsupported) {
			t.Errorf("%s: expected ErrUnsupported, got %v", key, err)
		}
		if events != nil {
			t.Errorf("%s: expected no events, got %d", key, len(events))
		}
	}
}

func TestAbsoluteURL(t *testing.T) {
	tests := []struct {
		base     string
		href     string
		expected string
	}{
		{"https://example.com/whats-on/", "/event/show/", "https://example.com/event/show/"},
		{"https://example.com/whats-on/", "https://other.com/x", "https://other.com/x"},
		{"https://example.com/whats-on/", "detail/show", "https://example.com/whats-on/detail/show"},
		{"https://example.com", "  /event/show ", "https://example.com/event/show"},
		{"https://example.com", "", ""},
	}

	for _, tt := range tests {
		if got := absoluteURL(tt.base, tt.href); got != tt.expected {
			t.Errorf("absoluteURL(%q, %q) = %q, expected %q", tt.base, tt.href, got, tt.expected)
		}
	}
}

func TestSlugTitle(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://example.com/events/detail/the-lathums/", "The Lathums"},
		{"https://example.com/events/detail/nick-cave", "Nick Cave"},
		{"plain", "Plain"},
	}

	for _, tt := range tests {
		if got := slugTitle(tt.url); got != tt.expected {
			t.Errorf("slugTitle(%q) = %q, expected %q", tt.url, got, tt.expected)
		}
	}
}

func TestFindEventLD(t *testing.T) {
	html := `<html><head>
		<script type="application/ld+json">{"@type":"BreadcrumbList"}</script>
		<script type="application/ld+json">not json at all</script>
		<script type="application/ld+json">
			{"@type":"MusicEvent","startDate":"2026-02-21T19:00:00+00:00",
			 "eventStatus":"https://schema.org/EventScheduled",
			 "offers":{"lowPrice":27.5,"highPrice":"45","availability":"https://schema.org/InStock"}}
		</script>
	</head><body></body></html>`

	ld, found := findEventLD(docFromHTML(t, html))
	if !found {
		t.Fatal("expected to find a MusicEvent block")
	}
	if ld.StartDate != "2026-02-21T19:00:00+00:00" {
		t.Errorf("startDate = %q", ld.StartDate)
	}

	low, ok := ldPrice(ld.Offers.LowPrice)
	if !ok || low != 27.5 {
		t.Errorf("lowPrice = %v (ok=%v), expected 27.5", low, ok)
	}
	// String-typed prices decode the same as numeric ones.
	high, ok := ldPrice(ld.Offers.HighPrice)
	if !ok || high != 45 {
		t.Errorf("highPrice = %v (ok=%v), expected 45", high, ok)
	}
	if _, ok := ldPrice(nil); ok {
		t.Error("absent price should not decode")
	}
}

func TestFindEventLDNoEventBlock(t *testing.T) {
	html := `<html><head>
		<script type="application/ld+json">{"@type":"Organization","name":"Venue"}</script>
	</head><body></body></html>`

	if _, found := findEventLD(docFromHTML(t, html)); found {
		t.Error("expected no event block to be found")
	}
}
