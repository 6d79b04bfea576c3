package pipeline

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/concertvenues/concertvenues/internal/event"
	"github.com/concertvenues/concertvenues/internal/logger"
	"github.com/concertvenues/concertvenues/internal/scraper"
	"github.com/concertvenues/concertvenues/internal/store"
)

// Status is a venue's position in the per-run state machine.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Target is one venue selected for this run: its scraper plus the display
// data for the venue row.
type Target struct {
	Scraper scraper.Scraper
	City    string
	URL     string
}

// Result is the terminal state of one venue's run.
type Result struct {
	VenueKey  string
	VenueName string
	Status    Status
	// Events is the number of candidates upserted; valid when Succeeded.
	Events int
	// Err is the failure reason; valid when Failed.
	Err error
	// Unsupported marks a declared-unsupported venue, as opposed to a
	// transient failure worth retrying on the next scheduled run.
	Unsupported bool
}

// Report summarises one full ingestion run.
type Report struct {
	Results []Result
	// Pruned is the number of past events removed at the end of the run.
	Pruned int64
}

// Failed reports how many venues ended in failure.
func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			n++
		}
	}
	return n
}

// outcome is what a venue worker hands back to the coordinating loop.
type outcome struct {
	target Target
	events []event.Event
	err    error
}

// Run executes one ingestion run over the given targets. All scrapers run
// concurrently; the coordinating loop here is the only writer, upserting
// each venue row before any of its events so the foreign key always
// resolves. Returns when every venue has reached a terminal state and the
// prune pass has completed.
func Run(ctx context.Context, st *store.Store, targets []Target) *Report {
	outcomes := make(chan outcome)

	for _, t := range targets {
		go func() {
			logger.Debug("venue fetch starting", logger.Fields{
				"venue":  t.Scraper.VenueKey(),
				"status": string(StatusRunning),
			})
			events, err := t.Scraper.FetchEvents(ctx)
			outcomes <- outcome{target: t, events: events, err: err}
		}()
	}

	report := &Report{}
	for range targets {
		o := <-outcomes
		report.Results = append(report.Results, commit(st, o))
	}
	sort.Slice(report.Results, func(i, j int) bool {
		return report.Results[i].VenueKey < report.Results[j].VenueKey
	})

	pruned, err := st.PrunePast(time.Now())
	if err != nil {
		logger.Warn("prune pass failed", logger.Fields{"error": err.Error()})
	}
	report.Pruned = pruned

	return report
}

// commit turns one venue's fetch outcome into stored rows and a terminal
// Result. A fetch or write failure leaves that venue's previously stored
// events untouched.
func commit(st *store.Store, o outcome) Result {
	sc := o.target.Scraper
	res := Result{VenueKey: sc.VenueKey(), VenueName: sc.VenueName()}

	if o.err != nil {
		res.Status = StatusFailed
		res.Err = o.err
		res.Unsupported = errors.Is(o.err, scraper.ErrUnsupported)
		logger.Warn("venue fetch failed", logger.Fields{
			"venue":       res.VenueKey,
			"unsupported": res.Unsupported,
			"error":       o.err.Error(),
		})
		return res
	}

	// Venue row first, so events never reference a missing venue.
	venue := event.Venue{
		Key:  sc.VenueKey(),
		Name: sc.VenueName(),
		City: o.target.City,
		URL:  o.target.URL,
	}
	if err := st.UpsertVenue(venue); err != nil {
		res.Status = StatusFailed
		res.Err = err
		return res
	}

	for _, e := range o.events {
		if err := st.UpsertEvent(e); err != nil {
			res.Status = StatusFailed
			res.Err = err
			return res
		}
		res.Events++
	}

	res.Status = StatusSucceeded
	logger.Info("venue fetch succeeded", logger.Fields{
		"venue":  res.VenueKey,
		"events": res.Events,
	})
	return res
}
