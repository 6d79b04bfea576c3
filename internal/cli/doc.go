// Package cli wires the scrape, generate, and run commands. Per-venue
// outcomes and the pruned-event count go to stdout; structured logs go to
// stderr. Partial venue failures never fail the overall run — only a
// configuration or storage failure does.
package cli
