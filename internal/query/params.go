package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kiranshivaraju/jobtracker/pkg/models"
)

// ParseOptions reads listing options from HTTP query parameters. Multi-value
// filters accept repeated keys or comma-separated values; "all" disables the
// filter. Calendar bounds are read in loc.
func ParseOptions(v url.Values, loc *time.Location) (Options, error) {
	var (
		opts Options
		err  error
	)
	opts.Query = strings.TrimSpace(v.Get("q"))

	if opts.Status, err = parseSet(v, "status", models.Status.Valid); err != nil {
		return Options{}, err
	}
	if opts.Priority, err = parseSet(v, "priority", models.Priority.Valid); err != nil {
		return Options{}, err
	}
	if opts.WorkType, err = parseSet(v, "workType", models.WorkType.Valid); err != nil {
		return Options{}, err
	}
	if opts.ContactMethod, err = parseSet(v, "contactMethod", models.ContactMethod.Valid); err != nil {
		return Options{}, err
	}

	if raw := v.Get("followUp"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return Options{}, fmt.Errorf("%w: followUp %q", ErrInvalidParam, raw)
		}
		opts.HasUpcomingFollowUp = &b
	}

	if opts.DateRange, err = parseDateRange(v, loc); err != nil {
		return Options{}, err
	}

	switch a := strings.ToLower(v.Get("archived")); a {
	case "", "exclude":
	case "include":
		opts.IncludeArchived = true
	case "only":
		opts.ArchivedOnly = true
	default:
		return Options{}, fmt.Errorf("%w: archived %q", ErrInvalidParam, a)
	}

	opts.SortBy = v.Get("sortBy")
	if opts.SortBy != "" && !IsSortable(opts.SortBy) {
		return Options{}, fmt.Errorf("%w: %q", ErrInvalidSort, opts.SortBy)
	}
	switch o := SortOrder(strings.ToLower(v.Get("sortOrder"))); o {
	case "", Asc, Desc:
		opts.SortOrder = o
	default:
		return Options{}, fmt.Errorf("%w: sortOrder %q", ErrInvalidParam, o)
	}

	if opts.Limit, err = parseCount(v, "limit"); err != nil {
		return Options{}, err
	}
	if opts.Offset, err = parseCount(v, "offset"); err != nil {
		return Options{}, err
	}
	return opts, nil
}

func parseSet[T ~string](v url.Values, key string, valid func(T) bool) ([]T, error) {
	var out []T
	for _, raw := range v[key] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if strings.EqualFold(part, "all") {
				return nil, nil
			}
			val := T(part)
			if !valid(val) {
				return nil, fmt.Errorf("%w: %s %q", ErrInvalidParam, key, part)
			}
			out = append(out, val)
		}
	}
	return out, nil
}

func parseDateRange(v url.Values, loc *time.Location) (*DateRange, error) {
	from, to := v.Get("from"), v.Get("to")
	if from == "" && to == "" {
		return nil, nil
	}
	r := &DateRange{Field: v.Get("dateField")}
	if r.Field != "" && !isDateField(r.Field) {
		return nil, fmt.Errorf("%w: dateField %q", ErrInvalidParam, r.Field)
	}
	var err error
	if from != "" {
		if r.Start, err = models.CalendarDay(from, loc); err != nil {
			return nil, fmt.Errorf("%w: from: %w", ErrInvalidParam, err)
		}
	}
	if to != "" {
		if r.End, err = models.CalendarDay(to, loc); err != nil {
			return nil, fmt.Errorf("%w: to: %w", ErrInvalidParam, err)
		}
	}
	if !r.Start.IsZero() && !r.End.IsZero() && r.End.Before(r.Start) {
		return nil, fmt.Errorf("%w: to is before from", ErrInvalidParam)
	}
	return r, nil
}

func parseCount(v url.Values, key string) (int, error) {
	raw := v.Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", ErrInvalidParam, key)
	}
	return n, nil
}
