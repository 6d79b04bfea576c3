// Package store is the SQLite-backed upsert engine for venues and events.
//
// Venues upsert by key and events by (venue_key, url), so re-running
// ingestion any number of times converges to the state of the latest fetch:
// identical input is a no-op, changed input refreshes the mutable fields in
// place, and the surrogate event id never changes. Writes are serialized
// behind a single mutex; reads see committed rows only.
package store
