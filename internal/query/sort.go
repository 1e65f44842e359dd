package query

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/kiranshivaraju/jobtracker/pkg/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const defaultSortField = "dateAdded"

type sortKind int

const (
	sortText sortKind = iota
	sortRank
	sortDate
)

type sortField struct {
	kind sortKind
	text func(*models.Contact) string
	rank func(*models.Contact) int
	date string
}

var sortFields = map[string]sortField{
	"companyName":         {kind: sortText, text: func(c *models.Contact) string { return c.CompanyName }},
	"positionTitle":       {kind: sortText, text: func(c *models.Contact) string { return c.PositionTitle }},
	"location":            {kind: sortText, text: func(c *models.Contact) string { return c.Location }},
	"contactName":         {kind: sortText, text: func(c *models.Contact) string { return c.ContactName }},
	"status":              {kind: sortRank, rank: func(c *models.Contact) int { return c.Status.Rank() }},
	"priority":            {kind: sortRank, rank: func(c *models.Contact) int { return c.Priority.Weight() }},
	"dateAdded":           {kind: sortDate, date: "dateAdded"},
	"updatedAt":           {kind: sortDate, date: "updatedAt"},
	"applicationDeadline": {kind: sortDate, date: "applicationDeadline"},
	"followUpDate":        {kind: sortDate, date: "followUpDate"},
	"lastContactDate":     {kind: sortDate, date: "lastContactDate"},
}

// IsSortable reports whether name is an accepted sortBy value.
func IsSortable(name string) bool {
	_, ok := sortFields[name]
	return ok
}

// SortFields returns the accepted sortBy values in a stable order.
func SortFields() []string {
	names := make([]string, 0, len(sortFields))
	for name := range sortFields {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func isDateField(name string) bool {
	f, ok := sortFields[name]
	return ok && f.kind == sortDate
}

// dateValue returns the instant stored in the named date field. Free-form
// dates that do not parse count as missing.
func dateValue(c *models.Contact, field string) (time.Time, bool) {
	var raw string
	switch field {
	case "dateAdded":
		return c.DateAdded, !c.DateAdded.IsZero()
	case "updatedAt":
		return c.UpdatedAt, !c.UpdatedAt.IsZero()
	case "applicationDeadline":
		raw = c.ApplicationDeadline
	case "followUpDate":
		raw = c.FollowUpDate
	case "lastContactDate":
		raw = c.LastContactDate
	default:
		return time.Time{}, false
	}
	if raw == "" {
		return time.Time{}, false
	}
	t, err := models.ParseDate(raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// calendarValue returns the local day the named date field falls on. Stored
// timestamps are converted into loc; bare YYYY-MM-DD values already name a
// day and are read in loc as written.
func calendarValue(c *models.Contact, field string, loc *time.Location) (time.Time, bool) {
	var raw string
	switch field {
	case "dateAdded", "updatedAt":
		t, ok := dateValue(c, field)
		if !ok {
			return time.Time{}, false
		}
		return models.StartOfDay(t.In(loc)), true
	case "applicationDeadline":
		raw = c.ApplicationDeadline
	case "followUpDate":
		raw = c.FollowUpDate
	case "lastContactDate":
		raw = c.LastContactDate
	default:
		return time.Time{}, false
	}
	if raw == "" {
		return time.Time{}, false
	}
	t, err := models.CalendarDay(raw, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// sortContacts orders contacts in place. Text fields use case-insensitive
// collation, missing dates go last in either direction, and ties fall back to
// the ID so that pages stay stable.
func sortContacts(contacts []models.Contact, by string, order SortOrder) error {
	if by == "" {
		by = defaultSortField
		if order == "" {
			order = Desc
		}
	}
	f, ok := sortFields[by]
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidSort, by)
	}
	desc := order == Desc

	// Collators keep internal buffers and are not safe to share.
	col := collate.New(language.English, collate.IgnoreCase)

	slices.SortStableFunc(contacts, func(a, b models.Contact) int {
		var c int
		switch f.kind {
		case sortText:
			c = col.CompareString(f.text(&a), f.text(&b))
		case sortRank:
			c = cmp.Compare(f.rank(&a), f.rank(&b))
		case sortDate:
			ta, okA := dateValue(&a, f.date)
			tb, okB := dateValue(&b, f.date)
			switch {
			case !okA && !okB:
				c = 0
			case !okA:
				return 1
			case !okB:
				return -1
			default:
				c = ta.Compare(tb)
			}
		}
		if desc {
			c = -c
		}
		if c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return nil
}
