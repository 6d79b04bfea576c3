// Package normalize holds the shared rules that turn ambiguous textual
// date/time/price/availability fragments from venue pages into canonical
// values. Every scraper goes through these functions so that the same kind
// of input is always resolved the same way.
//
// All functions are pure and total: unparseable input yields the zero value,
// never an error. Scrapers decide whether a missing value drops the whole
// candidate (date, title, url) or just leaves a field empty.
package normalize
