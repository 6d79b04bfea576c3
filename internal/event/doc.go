// Package event defines the canonical data model shared by the scrapers,
// the store, and the site generator.
//
// A Venue is identified by its key, which doubles as the config section name
// and the scraper registry key. An Event is identified by the (venue_key, url)
// pair; the numeric id is a surrogate assigned by the store on first insert.
// Dates are calendar dates with no timezone and times are local wall-clock
// strings, because every source venue presents local times.
package event
