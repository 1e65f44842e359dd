// Package analytics derives dashboard counts from the contact collection.
package analytics

import (
	"time"

	"github.com/kiranshivaraju/jobtracker/internal/query"
	"github.com/kiranshivaraju/jobtracker/pkg/models"
)

// HistogramDays is the length of the recent activity window, today included.
const HistogramDays = 7

// DayCount is one bucket of the recent activity histogram.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Summary is computed over non-archived contacts only.
type Summary struct {
	TotalContacts      int                     `json:"totalContacts"`
	ContactsByStatus   map[models.Status]int   `json:"contactsByStatus"`
	ContactsByPriority map[models.Priority]int `json:"contactsByPriority"`
	UpcomingFollowUps  int                     `json:"upcomingFollowUps"`
	InterviewsThisWeek int                     `json:"interviewsThisWeek"`
	RecentActivity     []DayCount              `json:"recentActivity"`
	TotalInterviews    int                     `json:"totalInterviews"`
	TotalInteractions  int                     `json:"totalInteractions"`
	// AverageResponseTime is not derived from data yet and is always 0.
	AverageResponseTime float64 `json:"averageResponseTime"`
}

// Compute builds a Summary as of now. Calendar days are taken in now's location.
func Compute(contacts []models.Contact, now time.Time) Summary {
	s := Summary{
		ContactsByStatus:   make(map[models.Status]int, len(models.Statuses)),
		ContactsByPriority: make(map[models.Priority]int, len(models.Priorities)),
		RecentActivity:     make([]DayCount, HistogramDays),
	}
	for _, st := range models.Statuses {
		s.ContactsByStatus[st] = 0
	}
	for _, p := range models.Priorities {
		s.ContactsByPriority[p] = 0
	}

	today := models.StartOfDay(now)
	first := today.AddDate(0, 0, -(HistogramDays - 1))
	for i := range s.RecentActivity {
		s.RecentActivity[i].Date = first.AddDate(0, 0, i).Format("2006-01-02")
	}
	weekEnd := now.Add(7 * 24 * time.Hour)

	for i := range contacts {
		c := &contacts[i]
		if c.Archived {
			continue
		}
		s.TotalContacts++
		s.ContactsByStatus[c.Status]++
		s.ContactsByPriority[c.Priority]++
		s.TotalInterviews += len(c.Interviews)
		s.TotalInteractions += len(c.Interactions)

		if query.HasUpcomingFollowUp(c, today) {
			s.UpcomingFollowUps++
		}

		for _, iv := range c.Interviews {
			if iv.Status == models.InterviewCancelled || iv.ScheduledDate == "" {
				continue
			}
			at, err := models.ParseDate(iv.ScheduledDate)
			if err != nil {
				continue
			}
			if !at.Before(now) && !at.After(weekEnd) {
				s.InterviewsThisWeek++
			}
		}

		if c.DateAdded.IsZero() {
			continue
		}
		added := models.StartOfDay(c.DateAdded.In(now.Location()))
		if added.Before(first) || added.After(today) {
			continue
		}
		for j := range s.RecentActivity {
			if first.AddDate(0, 0, j).Equal(added) {
				s.RecentActivity[j].Count++
				break
			}
		}
	}
	return s
}
