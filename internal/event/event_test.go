package event

import (
	"testing"
	"time"
)

func TestDateValue(t *testing.T) {
	d := NewDate(2026, time.February, 21)
	v, err := d.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	if v != "2026-02-21" {
		t.Errorf("Value() = %v, expected 2026-02-21", v)
	}

	var zero Date
	v, err = zero.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	if v != nil {
		t.Errorf("zero Date Value() = %v, expected nil", v)
	}
}

func TestDateScan(t *testing.T) {
	var d Date
	if err := d.Scan("2026-02-21"); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if d.String() != "2026-02-21" {
		t.Errorf("scanned date = %s, expected 2026-02-21", d)
	}

	if err := d.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) failed: %v", err)
	}
	if !d.IsZero() {
		t.Error("expected zero Date after scanning nil")
	}

	if err := d.Scan([]byte("2026-03-01")); err != nil {
		t.Fatalf("Scan([]byte) failed: %v", err)
	}
	if d.String() != "2026-03-01" {
		t.Errorf("scanned date = %s, expected 2026-03-01", d)
	}

	if err := d.Scan("not a date"); err == nil {
		t.Error("expected error scanning garbage")
	}
}

func TestDateJSON(t *testing.T) {
	d := NewDate(2026, time.February, 21)
	data, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}
	if string(data) != `"2026-02-21"` {
		t.Errorf("MarshalJSON = %s, expected %q", data, "2026-02-21")
	}

	var back Date
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatalf("UnmarshalJSON failed: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Errorf("round trip = %v, expected %v", back, d)
	}
}

func TestClockValue(t *testing.T) {
	v, err := Clock("19:00").Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	if v != "19:00" {
		t.Errorf("Value() = %v, expected 19:00", v)
	}

	v, err = Clock("").Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	if v != nil {
		t.Errorf("empty Clock Value() = %v, expected nil", v)
	}
}

func TestSortOrdersByDateThenTimeWithNoTimeFirst(t *testing.T) {
	events := []Event{
		{Title: "timed later day", Date: NewDate(2026, time.February, 21), Time: "08:00"},
		{Title: "untimed later day", Date: NewDate(2026, time.February, 21)},
		{Title: "earlier day", Date: NewDate(2026, time.February, 20), Time: "23:00"},
	}

	Sort(events)

	want := []string{"earlier day", "untimed later day", "timed later day"}
	for i, title := range want {
		if events[i].Title != title {
			t.Errorf("position %d = %q, expected %q", i, events[i].Title, title)
		}
	}
}
