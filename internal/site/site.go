package site

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/concertvenues/concertvenues/internal/config"
	"github.com/concertvenues/concertvenues/internal/event"
	"github.com/concertvenues/concertvenues/internal/store"
)

//go:embed templates/index.html
var templatesFS embed.FS

// defaultDaysAhead is the generation horizon when the config leaves
// days_ahead unset.
const defaultDaysAhead = 62

// eventView is the JSON shape handed to the client-side filter.
type eventView struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Date      string `json:"date"`
	Time      string `json:"time,omitempty"`
	TimeOfDay string `json:"time_of_day"`
	Price     string `json:"price,omitempty"`
	SoldOut   bool   `json:"sold_out"`
	VenueKey  string `json:"venue_key"`
	VenueName string `json:"venue_name"`
	VenueURL  string `json:"venue_url,omitempty"`
}

// Month is one calendar-month grid.
type Month struct {
	Year  int
	Month int
	Name  string
	// Weeks are Monday-first rows; 0 marks a day outside the month.
	Weeks [][7]int
}

// venueOption is one entry in the venue filter UI.
type venueOption struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

type pageData struct {
	Title      string
	BaseURL    string
	Today      string
	Generated  string
	Months     []Month
	EventsJSON template.JS
	Venues     []venueOption
}

// Build renders the site into the configured output directory.
func Build(st *store.Store, cfg *config.Config) error {
	days := cfg.Site.DaysAhead
	if days <= 0 {
		days = defaultDaysAhead
	}
	today := time.Now()

	events, err := st.QueryUpcoming(today, days)
	if err != nil {
		return fmt.Errorf("querying events: %w", err)
	}
	venues, err := st.Venues()
	if err != nil {
		return fmt.Errorf("querying venues: %w", err)
	}

	outputDir := cfg.Site.OutputDir
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := copyStatic(outputDir); err != nil {
		return err
	}

	data, err := buildPageData(cfg, events, venues, today, days)
	if err != nil {
		return err
	}

	tmpl, err := template.ParseFS(templatesFS, "templates/index.html")
	if err != nil {
		return fmt.Errorf("parsing template: %w", err)
	}
	out, err := os.Create(filepath.Join(outputDir, "index.html"))
	if err != nil {
		return fmt.Errorf("creating index.html: %w", err)
	}
	defer out.Close()
	if err := tmpl.Execute(out, data); err != nil {
		return fmt.Errorf("rendering index.html: %w", err)
	}
	return nil
}

func buildPageData(cfg *config.Config, events []event.Event, venues []event.Venue, now time.Time, days int) (*pageData, error) {
	byKey := make(map[string]event.Venue, len(venues))
	for _, v := range venues {
		byKey[v.Key] = v
	}

	views := make([]eventView, 0, len(events))
	withEvents := make(map[string]bool)
	for _, e := range events {
		views = append(views, newEventView(e, byKey))
		withEvents[e.VenueKey] = true
	}
	encoded, err := json.Marshal(views)
	if err != nil {
		return nil, fmt.Errorf("encoding events: %w", err)
	}

	// Filter options only list venues that currently have events.
	var options []venueOption
	for _, v := range venues {
		if withEvents[v.Key] {
			options = append(options, venueOption{Key: v.Key, Name: v.Name})
		}
	}
	sort.Slice(options, func(i, j int) bool { return options[i].Name < options[j].Name })

	title := cfg.Site.Title
	if title == "" {
		title = "Upcoming Concerts in London"
	}
	today := event.DateOf(now)

	return &pageData{
		Title:      title,
		BaseURL:    strings.TrimRight(cfg.Site.BaseURL, "/"),
		Today:      today.String(),
		Generated:  today.String(),
		Months:     buildMonths(now, days),
		EventsJSON: template.JS(encoded),
		Venues:     options,
	}, nil
}

func newEventView(e event.Event, venues map[string]event.Venue) eventView {
	view := eventView{
		ID:        e.ID,
		Title:     e.Title,
		URL:       e.URL,
		Date:      e.Date.String(),
		Time:      string(e.Time),
		TimeOfDay: timeOfDay(string(e.Time)),
		Price:     e.Price,
		SoldOut:   e.SoldOut,
		VenueKey:  e.VenueKey,
		VenueName: e.VenueKey,
	}
	if v, ok := venues[e.VenueKey]; ok {
		view.VenueName = v.Name
		view.VenueURL = v.URL
	}
	return view
}

// timeOfDay buckets a clock for the filter UI: evening from 17:00, daytime
// before, unknown when no time is known.
func timeOfDay(clock string) string {
	if clock == "" {
		return "unknown"
	}
	if clock >= "17:00" {
		return "evening"
	}
	return "daytime"
}

// buildMonths returns month grids covering today through today+days. The
// first month drops the weeks that ended before today so the calendar does
// not open with a wall of empty past days.
func buildMonths(now time.Time, days int) []Month {
	from := event.DateOf(now)
	to := event.DateOf(now.AddDate(0, 0, days))

	var months []Month
	y, m := from.Year(), from.Month()
	for y < to.Year() || (y == to.Year() && m <= to.Month()) {
		weeks := monthWeeks(y, m)
		if y == from.Year() && m == from.Month() {
			trimmed := weeks[:0]
			for _, week := range weeks {
				last := 0
				for _, d := range week {
					if d > last {
						last = d
					}
				}
				if last >= from.Day() {
					trimmed = append(trimmed, week)
				}
			}
			weeks = trimmed
		}
		months = append(months, Month{
			Year:  y,
			Month: int(m),
			Name:  fmt.Sprintf("%s %d", m, y),
			Weeks: weeks,
		})
		m++
		if m > time.December {
			m = time.January
			y++
		}
	}
	return months
}

// monthWeeks lays one month out as Monday-first weeks, zero-padded outside
// the month.
func monthWeeks(year int, month time.Month) [][7]int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	// Monday = 0 ... Sunday = 6.
	offset := (int(first.Weekday()) + 6) % 7

	var weeks [][7]int
	var week [7]int
	col := offset
	for day := 1; day <= daysInMonth; day++ {
		week[col] = day
		col++
		if col == 7 {
			weeks = append(weeks, week)
			week = [7]int{}
			col = 0
		}
	}
	if col > 0 {
		weeks = append(weeks, week)
	}
	return weeks
}

// copyStatic mirrors the local static/ directory into the output, if one
// exists.
func copyStatic(outputDir string) error {
	info, err := os.Stat("static")
	if err != nil || !info.IsDir() {
		return nil
	}
	dst := filepath.Join(outputDir, "static")
	if err := os.RemoveAll(dst); err != nil {
		return fmt.Errorf("clearing static dir: %w", err)
	}
	if err := os.CopyFS(dst, os.DirFS("static")); err != nil {
		return fmt.Errorf("copying static dir: %w", err)
	}
	return nil
}
