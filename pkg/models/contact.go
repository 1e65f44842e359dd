package models

import "time"

// Status is the position of a contact in the application pipeline.
type Status string

const (
	StatusToContact          Status = "To Contact"
	StatusContacted          Status = "Contacted"
	StatusInterviewScheduled Status = "Interview Scheduled"
	StatusInterviewed        Status = "Interviewed"
	StatusFollowUpNeeded     Status = "Follow-up Needed"
	StatusOfferReceived      Status = "Offer Received"
	StatusOfferAccepted      Status = "Offer Accepted"
	StatusRejected           Status = "Rejected"
	StatusArchived           Status = "Archived"
)

// Statuses lists every status in pipeline order. Rejected and Archived are terminal.
var Statuses = []Status{
	StatusToContact,
	StatusContacted,
	StatusInterviewScheduled,
	StatusInterviewed,
	StatusFollowUpNeeded,
	StatusOfferReceived,
	StatusOfferAccepted,
	StatusRejected,
	StatusArchived,
}

// Rank returns the pipeline position of s, or -1 for an unknown status.
func (s Status) Rank() int {
	for i, v := range Statuses {
		if v == s {
			return i
		}
	}
	return -1
}

func (s Status) Valid() bool { return s.Rank() >= 0 }

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Weight orders priorities so that High sorts above Low. Unknown values weigh 0.
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

func (p Priority) Valid() bool { return p.Weight() > 0 }

type WorkType string

const (
	WorkTypeRemote     WorkType = "Remote"
	WorkTypeHybrid     WorkType = "Hybrid"
	WorkTypeOnSite     WorkType = "On-site"
	WorkTypeNegotiable WorkType = "Negotiable"
)

var WorkTypes = []WorkType{WorkTypeRemote, WorkTypeHybrid, WorkTypeOnSite, WorkTypeNegotiable}

func (w WorkType) Valid() bool {
	for _, v := range WorkTypes {
		if v == w {
			return true
		}
	}
	return false
}

// ContactMethod is how the first contact with the company was made.
type ContactMethod string

var ContactMethods = []ContactMethod{"LinkedIn", "Email", "Referral", "Job Board", "Direct", "Other"}

func (m ContactMethod) Valid() bool {
	for _, v := range ContactMethods {
		if v == m {
			return true
		}
	}
	return false
}

type InterviewStatus string

const (
	InterviewScheduled   InterviewStatus = "Scheduled"
	InterviewCompleted   InterviewStatus = "Completed"
	InterviewCancelled   InterviewStatus = "Cancelled"
	InterviewRescheduled InterviewStatus = "Rescheduled"
	InterviewNoShow      InterviewStatus = "No Show"
)

var InterviewStatuses = []InterviewStatus{
	InterviewScheduled, InterviewCompleted, InterviewCancelled, InterviewRescheduled, InterviewNoShow,
}

func (s InterviewStatus) Valid() bool {
	for _, v := range InterviewStatuses {
		if v == s {
			return true
		}
	}
	return false
}

type AttachmentType string

var AttachmentTypes = []AttachmentType{"CV", "Cover Letter", "Portfolio", "Certificate", "Other"}

func (t AttachmentType) Valid() bool {
	for _, v := range AttachmentTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Contact is one tracked job application. Interviews, interactions and
// attachments are owned by the contact and removed with it.
type Contact struct {
	ID                  string        `json:"id"`
	CompanyName         string        `json:"companyName"`
	PositionTitle       string        `json:"positionTitle"`
	Department          string        `json:"department,omitempty"`
	Location            string        `json:"location"`
	WorkType            WorkType      `json:"workType"`
	Status              Status        `json:"status"`
	Priority            Priority      `json:"priority"`
	ContactName         string        `json:"contactName,omitempty"`
	ContactEmail        string        `json:"contactEmail,omitempty"`
	ContactPhone        string        `json:"contactPhone,omitempty"`
	ContactMethod       ContactMethod `json:"contactMethod,omitempty"`
	CompanyWebsite      string        `json:"companyWebsite,omitempty"`
	JobPostingURL       string        `json:"jobPostingUrl,omitempty"`
	SalaryRange         string        `json:"salaryRange,omitempty"`
	ApplicationDeadline string        `json:"applicationDeadline,omitempty"`
	FollowUpDate        string        `json:"followUpDate,omitempty"`
	LastContactDate     string        `json:"lastContactDate,omitempty"`
	DateAdded           time.Time     `json:"dateAdded"`
	UpdatedAt           time.Time     `json:"updatedAt"`
	Notes               string        `json:"notes"`
	Archived            bool          `json:"archived"`

	Interviews   []Interview   `json:"interviews"`
	Interactions []Interaction `json:"interactions"`
	Attachments  []Attachment  `json:"attachments"`
}

type Interview struct {
	ID            string          `json:"id"`
	ContactID     string          `json:"contactId"`
	Type          string          `json:"type"`
	Status        InterviewStatus `json:"status"`
	ScheduledDate string          `json:"scheduledDate"`
	Duration      int             `json:"duration,omitempty"`
	Interviewer   string          `json:"interviewer,omitempty"`
	Notes         string          `json:"notes"`
	Feedback      string          `json:"feedback,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type Interaction struct {
	ID        string    `json:"id"`
	ContactID string    `json:"contactId"`
	Date      string    `json:"date"`
	Type      string    `json:"type"`
	Notes     string    `json:"notes"`
	Outcome   string    `json:"outcome,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Attachment struct {
	ID        string         `json:"id"`
	ContactID string         `json:"contactId"`
	Name      string         `json:"name"`
	Type      AttachmentType `json:"type"`
	URL       string         `json:"url,omitempty"`
	Notes     string         `json:"notes,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Clone returns a deep copy so callers can mutate the result without touching
// a loaded document.
func (c Contact) Clone() Contact {
	out := c
	out.Interviews = append([]Interview{}, c.Interviews...)
	out.Interactions = append([]Interaction{}, c.Interactions...)
	out.Attachments = append([]Attachment{}, c.Attachments...)
	return out
}
