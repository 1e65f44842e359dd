package models

// NewContact carries the caller-supplied fields for a contact being created.
// Empty enumerations take their defaults.
type NewContact struct {
	CompanyName         string        `json:"companyName"`
	PositionTitle       string        `json:"positionTitle"`
	Department          string        `json:"department"`
	Location            string        `json:"location"`
	WorkType            WorkType      `json:"workType"`
	Status              Status        `json:"status"`
	Priority            Priority      `json:"priority"`
	ContactName         string        `json:"contactName"`
	ContactEmail        string        `json:"contactEmail"`
	ContactPhone        string        `json:"contactPhone"`
	ContactMethod       ContactMethod `json:"contactMethod"`
	CompanyWebsite      string        `json:"companyWebsite"`
	JobPostingURL       string        `json:"jobPostingUrl"`
	SalaryRange         string        `json:"salaryRange"`
	ApplicationDeadline string        `json:"applicationDeadline"`
	FollowUpDate        string        `json:"followUpDate"`
	LastContactDate     string        `json:"lastContactDate"`
	Notes               string        `json:"notes"`
}

// ContactPatch is a shallow partial update. A nil field is left untouched;
// a non-nil field replaces the stored value, including with "".
type ContactPatch struct {
	CompanyName         *string        `json:"companyName"`
	PositionTitle       *string        `json:"positionTitle"`
	Department          *string        `json:"department"`
	Location            *string        `json:"location"`
	WorkType            *WorkType      `json:"workType"`
	Status              *Status        `json:"status"`
	Priority            *Priority      `json:"priority"`
	ContactName         *string        `json:"contactName"`
	ContactEmail        *string        `json:"contactEmail"`
	ContactPhone        *string        `json:"contactPhone"`
	ContactMethod       *ContactMethod `json:"contactMethod"`
	CompanyWebsite      *string        `json:"companyWebsite"`
	JobPostingURL       *string        `json:"jobPostingUrl"`
	SalaryRange         *string        `json:"salaryRange"`
	ApplicationDeadline *string        `json:"applicationDeadline"`
	FollowUpDate        *string        `json:"followUpDate"`
	LastContactDate     *string        `json:"lastContactDate"`
	Notes               *string        `json:"notes"`
	Archived            *bool          `json:"archived"`
}

// Apply copies every supplied field onto c.
func (p ContactPatch) Apply(c *Contact) {
	setString(&c.CompanyName, p.CompanyName)
	setString(&c.PositionTitle, p.PositionTitle)
	setString(&c.Department, p.Department)
	setString(&c.Location, p.Location)
	if p.WorkType != nil {
		c.WorkType = *p.WorkType
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.Priority != nil {
		c.Priority = *p.Priority
	}
	setString(&c.ContactName, p.ContactName)
	setString(&c.ContactEmail, p.ContactEmail)
	setString(&c.ContactPhone, p.ContactPhone)
	if p.ContactMethod != nil {
		c.ContactMethod = *p.ContactMethod
	}
	setString(&c.CompanyWebsite, p.CompanyWebsite)
	setString(&c.JobPostingURL, p.JobPostingURL)
	setString(&c.SalaryRange, p.SalaryRange)
	setString(&c.ApplicationDeadline, p.ApplicationDeadline)
	setString(&c.FollowUpDate, p.FollowUpDate)
	setString(&c.LastContactDate, p.LastContactDate)
	setString(&c.Notes, p.Notes)
	if p.Archived != nil {
		c.Archived = *p.Archived
	}
}

type NewInterview struct {
	Type          string          `json:"type"`
	Status        InterviewStatus `json:"status"`
	ScheduledDate string          `json:"scheduledDate"`
	Duration      int             `json:"duration"`
	Interviewer   string          `json:"interviewer"`
	Notes         string          `json:"notes"`
	Feedback      string          `json:"feedback"`
}

type InterviewPatch struct {
	Type          *string          `json:"type"`
	Status        *InterviewStatus `json:"status"`
	ScheduledDate *string          `json:"scheduledDate"`
	Duration      *int             `json:"duration"`
	Interviewer   *string          `json:"interviewer"`
	Notes         *string          `json:"notes"`
	Feedback      *string          `json:"feedback"`
}

func (p InterviewPatch) Apply(iv *Interview) {
	setString(&iv.Type, p.Type)
	if p.Status != nil {
		iv.Status = *p.Status
	}
	setString(&iv.ScheduledDate, p.ScheduledDate)
	if p.Duration != nil {
		iv.Duration = *p.Duration
	}
	setString(&iv.Interviewer, p.Interviewer)
	setString(&iv.Notes, p.Notes)
	setString(&iv.Feedback, p.Feedback)
}

type NewInteraction struct {
	Date    string `json:"date"`
	Type    string `json:"type"`
	Notes   string `json:"notes"`
	Outcome string `json:"outcome"`
}

type NewAttachment struct {
	Name  string         `json:"name"`
	Type  AttachmentType `json:"type"`
	URL   string         `json:"url"`
	Notes string         `json:"notes"`
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
