// Package pipeline orchestrates one ingestion run: it fans the selected
// venue scrapers out concurrently, funnels their results back to a single
// coordinating loop that performs all store writes, and finishes with one
// prune pass over past events.
//
// Venues are isolated from each other: one venue failing, timing out, or
// being declared unsupported never aborts or delays another venue, and
// never touches events previously stored for any venue.
package pipeline
