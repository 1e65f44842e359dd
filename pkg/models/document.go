package models

import (
	"fmt"
	"time"
)

// DocumentVersion is written into every freshly initialized document.
const DocumentVersion = "1.0.0"

// Document is the durable state: every contact plus bookkeeping. Revision is
// bumped by the store on each successful save and used to detect concurrent
// writers.
type Document struct {
	Contacts    []Contact `json:"contacts"`
	LastUpdated time.Time `json:"lastUpdated"`
	Version     string    `json:"version"`
	Revision    int64     `json:"revision"`
}

// NewDocument returns an empty document stamped with now.
func NewDocument(now time.Time) *Document {
	return &Document{
		Contacts:    []Contact{},
		LastUpdated: now.UTC(),
		Version:     DocumentVersion,
	}
}

// IndexOf returns the position of the contact with the given ID, or -1.
func (d *Document) IndexOf(id string) int {
	for i := range d.Contacts {
		if d.Contacts[i].ID == id {
			return i
		}
	}
	return -1
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate parses a user-supplied ISO-8601 date or timestamp. Values without
// a zone are read as UTC.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC3339", s)
}

// CalendarDay returns midnight, in loc, of the day named by s. A bare
// YYYY-MM-DD is read in loc itself; timestamps are converted into loc first.
func CalendarDay(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return time.Time{}, err
	}
	return StartOfDay(t.In(loc)), nil
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
