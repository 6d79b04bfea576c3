package event

import (
	"database/sql/driver"
	"fmt"
	"sort"
	"time"
)

// Venue is one venue row. Key is immutable once created; re-ingesting the
// same venue overwrites Name/City/URL but never Key.
type Venue struct {
	Key  string `gorm:"column:key;primaryKey" json:"key"`
	Name string `gorm:"column:name;not null" json:"name"`
	City string `gorm:"column:city;not null" json:"city"`
	URL  string `gorm:"column:url;not null" json:"url"`
}

// Event is one event row. The dedup key is (VenueKey, URL); every other
// field except ID is refreshed in place on upsert.
type Event struct {
	ID          int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	VenueKey    string `gorm:"column:venue_key;not null;uniqueIndex:idx_events_venue_url" json:"venue_key"`
	Title       string `gorm:"column:title;not null" json:"title"`
	Date        Date   `gorm:"column:date;type:date;not null" json:"date"`
	Time        Clock  `gorm:"column:time;type:text" json:"time,omitempty"`
	URL         string `gorm:"column:url;not null;uniqueIndex:idx_events_venue_url" json:"url"`
	Description string `gorm:"column:description" json:"description,omitempty"`
	ImageURL    string `gorm:"column:image_url" json:"image_url,omitempty"`
	OnSaleDate  Date   `gorm:"column:on_sale_date;type:date" json:"on_sale_date,omitempty"`
	Price       string `gorm:"column:price" json:"price,omitempty"`
	SoldOut     bool   `gorm:"column:sold_out;not null;default:false" json:"sold_out"`

	Venue *Venue `gorm:"foreignKey:VenueKey;references:Key" json:"-"`
}

// Date is a calendar date, persisted as ISO "YYYY-MM-DD" text. The zero
// value means "no date" and is stored as NULL.
type Date struct {
	time.Time
}

// NewDate builds a Date at UTC midnight.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Format("2006-01-02"), nil
}

// Scan implements sql.Scanner.
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = DateOf(v)
		return nil
	case []byte:
		return d.scanString(string(v))
	case string:
		return d.scanString(v)
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

func (d *Date) scanString(s string) error {
	if s == "" {
		*d = Date{}
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return fmt.Errorf("parsing date %q: %w", s, err)
	}
	*d = Date{t}
	return nil
}

// MarshalJSON renders the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts "YYYY-MM-DD" or the empty string.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	return d.scanString(s)
}

// Clock is an optional wall-clock time as "HH:MM" text. The empty string
// means "no time" and is stored as NULL, which SQLite sorts before any
// timed value on the same date.
type Clock string

// Value implements driver.Valuer.
func (c Clock) Value() (driver.Value, error) {
	if c == "" {
		return nil, nil
	}
	return string(c), nil
}

// Scan implements sql.Scanner.
func (c *Clock) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*c = ""
	case []byte:
		*c = Clock(v)
	case string:
		*c = Clock(v)
	default:
		return fmt.Errorf("cannot scan %T into Clock", src)
	}
	return nil
}

// Less reports whether a sorts before b: date ascending, then time
// ascending with "no time" treated as the earliest time of that day.
func Less(a, b Event) bool {
	if !a.Date.Equal(b.Date.Time) {
		return a.Date.Before(b.Date.Time)
	}
	return a.Time < b.Time
}

// Sort orders events in place by (date, time), no-time first.
func Sort(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return Less(events[i], events[j])
	})
}
