package scraper

import (
	"fmt"
	"testing"
	"time"
)

func islingtonDetailHTML(date, clock, price, cta string) string {
	return fmt.Sprintf(`<html><body>
<ul class="event__details__list">
	<li class="event__details__list__item">
		<span class="event__details__list__line">Date</span>
		<span class="event__details__list__line">%s</span>
	</li>
	<li class="event__details__list__item">
		<span class="event__details__list__line">Time</span>
		<span class="event__details__list__line">%s</span>
	</li>
	<li class="event__details__list__item">
		<span class="event__details__list__line">Total price, inc booking fee</span>
		<span class="event__details__list__line">%s</span>
	</li>
	<li class="event__details__list__item event__details__list__item--tickets">
		<a href="#"><span class="cta__foreground">%s</span></a>
	</li>
</ul>
</body></html>`, date, clock, price, cta)
}

func TestIslingtonDetail(t *testing.T) {
	now := time.Date(2026, time.February, 1, 12, 0, 0, 0, time.UTC)

	html := islingtonDetailHTML("21/02/2026", "19:00", "£28.60", "Get tickets")
	e, ok := islingtonDetail(docFromHTML(t, html), now)
	if !ok {
		t.Fatal("expected detail page to parse")
	}
	if e.Date.String() != "2026-02-21" {
		t.Errorf("date = %s, expected 2026-02-21", e.Date)
	}
	if e.Time != "19:00" {
		t.Errorf("time = %q, expected 19:00", e.Time)
	}
	if e.Price != "£28.60" {
		t.Errorf("price = %q, expected £28.60", e.Price)
	}
	if e.SoldOut {
		t.Error("a Get tickets CTA must not mark the event sold out")
	}
}

func TestIslingtonDetailWaitingList(t *testing.T) {
	now := time.Date(2026, time.February, 1, 12, 0, 0, 0, time.UTC)

	html := islingtonDetailHTML("27/02/2026", "19:30", "£25.00", "Waiting List")
	e, ok := islingtonDetail(docFromHTML(t, html), now)
	if !ok {
		t.Fatal("expected detail page to parse")
	}
	if !e.SoldOut {
		t.Error("a Waiting List CTA must mark the event sold out")
	}
}

func TestIslingtonDetailFree(t *testing.T) {
	now := time.Date(2026, time.February, 1, 12, 0, 0, 0, time.UTC)

	html := islingtonDetailHTML("28/02/2026", "18:00", "", "Free entry")
	e, ok := islingtonDetail(docFromHTML(t, html), now)
	if !ok {
		t.Fatal("expected detail page to parse")
	}
	if e.Price != "Free" {
		t.Errorf("price = %q, expected Free", e.Price)
	}
}

func TestIslingtonDetailDropsPastAndUnparseable(t *testing.T) {
	now := time.Date(2026, time.February, 1, 12, 0, 0, 0, time.UTC)

	past := islingtonDetailHTML("15/01/2026", "19:00", "£20.00", "Get tickets")
	if _, ok := islingtonDetail(docFromHTML(t, past), now); ok {
		t.Error("past events must be dropped")
	}

	bad := islingtonDetailHTML("soon", "19:00", "£20.00", "Get tickets")
	if _, ok := islingtonDetail(docFromHTML(t, bad), now); ok {
		t.Error("an unparseable date must drop the event")
	}
}
