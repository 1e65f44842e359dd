package analytics_test

import (
	"testing"
	"time"

	"github.com/kiranshivaraju/jobtracker/internal/analytics"
	"github.com/kiranshivaraju/jobtracker/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

func TestCompute_Empty(t *testing.T) {
	s := analytics.Compute(nil, now)

	assert.Equal(t, 0, s.TotalContacts)
	assert.Len(t, s.ContactsByStatus, len(models.Statuses))
	assert.Len(t, s.ContactsByPriority, 3)
	for _, n := range s.ContactsByStatus {
		assert.Zero(t, n)
	}
	require.Len(t, s.RecentActivity, analytics.HistogramDays)
	assert.Equal(t, "2024-06-09", s.RecentActivity[0].Date)
	assert.Equal(t, "2024-06-15", s.RecentActivity[6].Date)
	assert.Zero(t, s.AverageResponseTime)
}

func TestCompute_Counts(t *testing.T) {
	contacts := []models.Contact{
		{
			ID: "a", Status: models.StatusContacted, Priority: models.PriorityHigh,
			DateAdded:    now.Add(-2 * time.Hour),
			FollowUpDate: "2024-06-15",
			Interviews: []models.Interview{
				{ID: "i1", Status: models.InterviewScheduled, ScheduledDate: "2024-06-17T10:00:00Z"},
				{ID: "i2", Status: models.InterviewCancelled, ScheduledDate: "2024-06-18T10:00:00Z"},
				{ID: "i3", Status: models.InterviewScheduled, ScheduledDate: "2024-06-30T10:00:00Z"},
			},
			Interactions: []models.Interaction{{ID: "x1"}, {ID: "x2"}},
		},
		{
			ID: "b", Status: models.StatusContacted, Priority: models.PriorityLow,
			DateAdded:    now.AddDate(0, 0, -6),
			FollowUpDate: "2024-06-01",
			Interviews: []models.Interview{
				{ID: "i4", Status: models.InterviewCompleted, ScheduledDate: "2024-06-10T10:00:00Z"},
			},
		},
		{
			ID: "c", Status: models.StatusRejected, Priority: models.PriorityMedium,
			DateAdded: now.AddDate(0, 0, -30),
		},
	}

	s := analytics.Compute(contacts, now)

	assert.Equal(t, 3, s.TotalContacts)
	assert.Equal(t, 2, s.ContactsByStatus[models.StatusContacted])
	assert.Equal(t, 1, s.ContactsByStatus[models.StatusRejected])
	assert.Equal(t, 0, s.ContactsByStatus[models.StatusOfferAccepted])
	assert.Equal(t, 1, s.ContactsByPriority[models.PriorityHigh])
	assert.Equal(t, 1, s.ContactsByPriority[models.PriorityMedium])
	assert.Equal(t, 1, s.ContactsByPriority[models.PriorityLow])
	assert.Equal(t, 1, s.UpcomingFollowUps)
	assert.Equal(t, 1, s.InterviewsThisWeek)
	assert.Equal(t, 4, s.TotalInterviews)
	assert.Equal(t, 2, s.TotalInteractions)

	assert.Equal(t, analytics.DayCount{Date: "2024-06-09", Count: 1}, s.RecentActivity[0])
	assert.Equal(t, analytics.DayCount{Date: "2024-06-15", Count: 1}, s.RecentActivity[6])
	total := 0
	for _, d := range s.RecentActivity {
		total += d.Count
	}
	assert.Equal(t, 2, total)
}

func TestCompute_ExcludesArchived(t *testing.T) {
	contacts := []models.Contact{
		{ID: "live", Status: models.StatusToContact, Priority: models.PriorityMedium, DateAdded: now},
		{
			ID: "archived", Status: models.StatusArchived, Priority: models.PriorityHigh, DateAdded: now,
			Archived: true, FollowUpDate: "2024-06-20",
			Interviews: []models.Interview{{ID: "i", Status: models.InterviewScheduled, ScheduledDate: "2024-06-16T09:00:00Z"}},
		},
	}

	s := analytics.Compute(contacts, now)

	assert.Equal(t, 1, s.TotalContacts)
	assert.Equal(t, 0, s.ContactsByStatus[models.StatusArchived])
	assert.Equal(t, 0, s.ContactsByPriority[models.PriorityHigh])
	assert.Equal(t, 0, s.UpcomingFollowUps)
	assert.Equal(t, 0, s.InterviewsThisWeek)
	assert.Equal(t, 0, s.TotalInterviews)
	assert.Equal(t, 1, s.RecentActivity[6].Count)
}

func TestCompute_HistogramUsesNowLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	local := time.Date(2024, time.June, 15, 8, 0, 0, 0, tokyo)
	// 2024-06-14 23:30 UTC is already June 15 in Tokyo.
	added := time.Date(2024, time.June, 14, 23, 30, 0, 0, time.UTC)

	s := analytics.Compute([]models.Contact{{ID: "a", DateAdded: added}}, local)

	assert.Equal(t, "2024-06-15", s.RecentActivity[6].Date)
	assert.Equal(t, 1, s.RecentActivity[6].Count)
}

func TestCompute_InterviewWindowBounds(t *testing.T) {
	contacts := []models.Contact{{
		ID: "a",
		Interviews: []models.Interview{
			{ID: "past", Status: models.InterviewScheduled, ScheduledDate: "2024-06-15T11:59:00Z"},
			{ID: "now", Status: models.InterviewScheduled, ScheduledDate: "2024-06-15T12:00:00Z"},
			{ID: "edge", Status: models.InterviewRescheduled, ScheduledDate: "2024-06-22T12:00:00Z"},
			{ID: "beyond", Status: models.InterviewScheduled, ScheduledDate: "2024-06-22T12:01:00Z"},
			{ID: "garbage", Status: models.InterviewScheduled, ScheduledDate: "soon"},
		},
	}}

	s := analytics.Compute(contacts, now)
	assert.Equal(t, 2, s.InterviewsThisWeek)
}
