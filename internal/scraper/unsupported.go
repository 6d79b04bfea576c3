package scraper

import (
	"context"
	"fmt"

	"github.com/concertvenues/concertvenues/internal/event"
)

// unsupportedVenue is a registered venue whose site cannot currently be
// fetched. It fails fast with ErrUnsupported so a caller can tell the
// difference between "no events" and "source unreachable", and operators
// know a retry will not help.
type unsupportedVenue struct {
	key    string
	name   string
	reason string
}

func (s *unsupportedVenue) VenueKey() string  { return s.key }
func (s *unsupportedVenue) VenueName() string { return s.name }

func (s *unsupportedVenue) FetchEvents(context.Context) ([]event.Event, error) {
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, s.reason)
}

// Union Chapel's listing is an Isotope.js grid populated from an endpoint
// that has not been identified yet; the static HTML holds an empty #items
// container and even a rendered page exposes no event data.
func newUnionChapel(Config) Scraper {
	return &unsupportedVenue{
		key:    "unionchapel",
		name:   "Union Chapel",
		reason: "listing is an empty Isotope.js grid; the backing endpoint is not yet known",
	}
}

// Royal Albert Hall sits behind an Incapsula WAF that blocks automated
// requests and headless browsers alike. A Ticketmaster Discovery API key
// would be an alternative route to its listings.
func newRoyalAlbertHall(Config) Scraper {
	return &unsupportedVenue{
		key:    "royalalberthall",
		name:   "Royal Albert Hall",
		reason: "site is protected by Incapsula bot detection",
	}
}
