// Package scraper provides one scraper per venue behind a single Scraper
// interface, plus the shared HTTP fetching, JSON-LD decoding, and headless
// rendering helpers they build on.
//
// Each scraper owns a fixed venue key and name, fetches that venue's public
// listing (and, for some venues, per-event detail pages with a bounded
// concurrent fan-out), applies the normalize package's rules, and returns
// candidate events ordered by date then time. Source items with a missing or
// past date, or missing title/url, are dropped silently; they are noise, not
// errors. Venues whose sites cannot currently be fetched at all return
// ErrUnsupported so callers can tell "no events" from "source unreachable".
//
// To add a venue: create <venuekey>.go implementing Scraper, and register
// its constructor in the registry map in scraper.go under the same key used
// in the [venues.<key>] config section.
package scraper
