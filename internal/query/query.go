// Package query filters, sorts and paginates an in-memory slice of contacts.
// It keeps no state between calls.
package query

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kiranshivaraju/jobtracker/pkg/models"
)

var (
	ErrInvalidSort  = errors.New("invalid sort field")
	ErrInvalidParam = errors.New("invalid query parameter")
)

type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// DateRange keeps contacts whose Field falls on a calendar day between Start
// and End, both inclusive. A zero bound is open.
type DateRange struct {
	Field string
	Start time.Time
	End   time.Time
}

// Options describes one listing. The zero value lists every non-archived
// contact, newest first.
type Options struct {
	Query         string
	Status        []models.Status
	Priority      []models.Priority
	WorkType      []models.WorkType
	ContactMethod []models.ContactMethod

	// HasUpcomingFollowUp keeps only contacts with (true) or without (false)
	// a follow-up dated today or later.
	HasUpcomingFollowUp *bool
	DateRange           *DateRange

	IncludeArchived bool
	ArchivedOnly    bool

	SortBy    string
	SortOrder SortOrder
	Offset    int
	Limit     int
}

// Result is one page of matches. Total counts every match before pagination.
type Result struct {
	Contacts []models.Contact `json:"contacts"`
	Total    int              `json:"total"`
}

// Validate reports the first option Run would reject.
func (o Options) Validate() error {
	if o.SortBy != "" && !IsSortable(o.SortBy) {
		return fmt.Errorf("%w: %q", ErrInvalidSort, o.SortBy)
	}
	switch o.SortOrder {
	case "", Asc, Desc:
	default:
		return fmt.Errorf("%w: sortOrder %q", ErrInvalidParam, o.SortOrder)
	}
	if o.Offset < 0 {
		return fmt.Errorf("%w: offset must not be negative", ErrInvalidParam)
	}
	if o.Limit < 0 {
		return fmt.Errorf("%w: limit must not be negative", ErrInvalidParam)
	}
	if o.DateRange != nil && o.DateRange.Field != "" && !isDateField(o.DateRange.Field) {
		return fmt.Errorf("%w: dateField %q", ErrInvalidParam, o.DateRange.Field)
	}
	return nil
}

// Run returns the page of contacts selected by opts. Calendar comparisons
// (upcoming follow-ups, date ranges) use now's location. The input slice is
// never reordered.
func Run(contacts []models.Contact, opts Options, now time.Time) (Result, error) {
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}

	today := models.StartOfDay(now)
	needle := strings.ToLower(strings.TrimSpace(opts.Query))

	matched := make([]models.Contact, 0, len(contacts))
	for i := range contacts {
		c := &contacts[i]
		if !matchArchived(c, opts) ||
			!matchText(c, needle) ||
			!matchFilters(c, opts) ||
			!matchFollowUp(c, opts.HasUpcomingFollowUp, today) ||
			!matchDateRange(c, opts.DateRange, now.Location()) {
			continue
		}
		matched = append(matched, *c)
	}

	if err := sortContacts(matched, opts.SortBy, opts.SortOrder); err != nil {
		return Result{}, err
	}

	return Result{Contacts: paginate(matched, opts.Offset, opts.Limit), Total: len(matched)}, nil
}

func matchArchived(c *models.Contact, opts Options) bool {
	switch {
	case opts.ArchivedOnly:
		return c.Archived
	case opts.IncludeArchived:
		return true
	default:
		return !c.Archived
	}
}

func matchText(c *models.Contact, needle string) bool {
	if needle == "" {
		return true
	}
	for _, field := range []string{c.CompanyName, c.PositionTitle, c.ContactName, c.Location, c.Notes} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func matchFilters(c *models.Contact, opts Options) bool {
	return in(opts.Status, c.Status) &&
		in(opts.Priority, c.Priority) &&
		in(opts.WorkType, c.WorkType) &&
		in(opts.ContactMethod, c.ContactMethod)
}

// in reports whether v is in set; an empty set admits everything.
func in[T comparable](set []T, v T) bool {
	if len(set) == 0 {
		return true
	}
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// HasUpcomingFollowUp reports whether c has a follow-up dated today or later.
func HasUpcomingFollowUp(c *models.Contact, today time.Time) bool {
	if c.FollowUpDate == "" {
		return false
	}
	day, err := models.CalendarDay(c.FollowUpDate, today.Location())
	if err != nil {
		return false
	}
	return !day.Before(today)
}

func matchFollowUp(c *models.Contact, want *bool, today time.Time) bool {
	if want == nil {
		return true
	}
	return HasUpcomingFollowUp(c, today) == *want
}

func matchDateRange(c *models.Contact, r *DateRange, loc *time.Location) bool {
	if r == nil {
		return true
	}
	field := r.Field
	if field == "" {
		field = "dateAdded"
	}
	day, ok := calendarValue(c, field, loc)
	if !ok {
		return false
	}
	if !r.Start.IsZero() && day.Before(boundDay(r.Start, loc)) {
		return false
	}
	if !r.End.IsZero() && day.After(boundDay(r.End, loc)) {
		return false
	}
	return true
}

// boundDay keeps the calendar date a range bound was written with, so a bound
// parsed in one zone still names the same day when compared in another.
func boundDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func paginate(contacts []models.Contact, offset, limit int) []models.Contact {
	if offset >= len(contacts) {
		return []models.Contact{}
	}
	end := len(contacts)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return contacts[offset:end]
}
