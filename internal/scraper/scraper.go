package scraper

import (
	"context"
	"errors"
	"sort"

	"github.com/concertvenues/concertvenues/internal/event"
)

// ErrUnsupported marks a venue whose source cannot currently be fetched at
// all (hostile anti-bot protection, missing credential). It is distinct from
// a transient fetch failure: operators should not expect a retry to help.
var ErrUnsupported = errors.New("venue source not supported")

// Config is the per-venue configuration a scraper is constructed with,
// resolved from the [venues.<key>] config section.
type Config struct {
	// URL is the venue's listing page.
	URL string
	// City is the venue's display city.
	City string
}

// Scraper fetches candidate events for exactly one venue. Implementations
// are stateless between calls; FetchEvents is safe to call repeatedly.
type Scraper interface {
	// VenueKey returns the stable venue identifier. It matches the registry
	// key and the config section name, and tags every returned event.
	VenueKey() string
	// VenueName returns the human-readable venue name.
	VenueName() string
	// FetchEvents returns upcoming events ordered by (date, time), or an
	// error if the venue's listing could not be fetched as a unit.
	FetchEvents(ctx context.Context) ([]event.Event, error)
}

// Constructor builds a scraper from its venue config.
type Constructor func(cfg Config) Scraper

// registry maps venue key to scraper constructor. Adding a venue means
// adding one entry; existing entries are never modified.
var registry = map[string]Constructor{
	"alexandrapalace":       newAlexandraPalace,
	"earthackney":           newEarthHackney,
	"electricballroom":      newElectricBallroom,
	"islingtonassemblyhall": newIslingtonAssemblyHall,
	"jazzcafe":              newJazzCafe,
	"koko":                  newKoko,
	"o2academybrixton":      newO2AcademyBrixton,
	"o2forumkentishtown":    newO2ForumKentishTown,
	"roundhouse":            newRoundhouse,
	"royalalberthall":       newRoyalAlbertHall,
	"thegarage":             newTheGarage,
	"theo2":                 newTheO2,
	"unionchapel":           newUnionChapel,
}

// New returns a scraper for the given venue key, or false if none is
// registered.
func New(key string, cfg Config) (Scraper, bool) {
	ctor, ok := registry[key]
	if !ok {
		return nil, false
	}
	return ctor(cfg), true
}

// Keys returns all registered venue keys, sorted.
func Keys() []string {
	keys := make([]string, 0, len(registry))
	for k := range registry {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
