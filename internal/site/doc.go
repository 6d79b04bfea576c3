// Package site renders the static calendar website from the store.
//
// It is strictly a read-only projection: upcoming events joined with venue
// display data, serialised to JSON for the client-side filter, laid over
// month grids covering today through the configured horizon. It never
// mutates the store and can be recomputed freely.
package site
