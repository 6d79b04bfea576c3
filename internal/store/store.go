package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/concertvenues/concertvenues/internal/event"
)

// eventColumns are the mutable fields an upsert refreshes when the
// (venue_key, url) row already exists. The surrogate id and the dedup key
// itself are never touched.
var eventColumns = []string{
	"title", "date", "time", "description", "image_url",
	"on_sale_date", "price", "sold_out",
}

// Store owns one SQLite database of venues and events.
type Store struct {
	db *gorm.DB

	// Single-writer discipline: write volume is low and lost or interleaved
	// upserts would be worse than any throughput gain.
	mu sync.Mutex
}

// Open opens (creating if needed) the SQLite database at path and ensures
// the schema exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.AutoMigrate(&event.Venue{}, &event.Event{}); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}
	return &Store{db: db}, nil
}

// UpsertVenue inserts or replaces a venue by key. The key itself is never
// changed; name, city, and url are overwritten.
func (s *Store) UpsertVenue(v event.Venue) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "city", "url"}),
	}).Create(&v).Error
}

// UpsertEvent inserts or replaces an event by (venue_key, url), refreshing
// every mutable field from the incoming candidate. The venue row must
// already exist.
func (s *Store) UpsertEvent(e event.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = 0 // ids are assigned by the store, never by callers
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "venue_key"}, {Name: "url"}},
		DoUpdates: clause.AssignmentColumns(eventColumns),
	}).Create(&e).Error
}

// Venues returns all venues ordered by name.
func (s *Store) Venues() ([]event.Venue, error) {
	var venues []event.Venue
	err := s.db.Order("name").Find(&venues).Error
	return venues, err
}

// QueryUpcoming returns events with from <= date <= from+daysAhead days,
// ordered by date ascending, then time ascending with "no time" (stored
// NULL) treated as the earliest time of that day.
func (s *Store) QueryUpcoming(from time.Time, daysAhead int) ([]event.Event, error) {
	start := event.DateOf(from)
	end := event.DateOf(from.AddDate(0, 0, daysAhead))

	var events []event.Event
	err := s.db.
		Where("date >= ? AND date <= ?", start.String(), end.String()).
		Order("date, time").
		Find(&events).Error
	return events, err
}

// PrunePast deletes all events dated before today and returns how many
// rows were removed. Calling it with nothing to prune is a no-op.
func (s *Store) PrunePast(today time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.db.Where("date < ?", event.DateOf(today).String()).Delete(&event.Event{})
	return res.RowsAffected, res.Error
}
