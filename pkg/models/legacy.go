package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// legacyStatuses maps the finer-grained pipeline used by older documents onto
// the canonical one.
var legacyStatuses = map[string]Status{
	"Application Sent":       StatusContacted,
	"Waiting Reply":          StatusContacted,
	"Phone Screen Scheduled": StatusInterviewScheduled,
	"Final Interview":        StatusInterviewScheduled,
	"Phone Screen Completed": StatusInterviewed,
	"Interview Completed":    StatusInterviewed,
	"Offer Negotiating":      StatusOfferReceived,
	"Withdrawn":              StatusArchived,
}

// UpgradeStatus returns the canonical status for s. Unknown values fall back
// to To Contact.
func UpgradeStatus(s string) Status {
	if st := Status(s); st.Valid() {
		return st
	}
	if st, ok := legacyStatuses[s]; ok {
		return st
	}
	return StatusToContact
}

type rawDocument struct {
	Contacts    []json.RawMessage `json:"contacts"`
	LastUpdated time.Time         `json:"lastUpdated"`
	Version     string            `json:"version"`
	Revision    int64             `json:"revision"`
}

// legacyContact holds the aliases written by the older schema.
type legacyContact struct {
	Position      string `json:"position"`
	ContactPerson string `json:"contactPerson"`
	CreatedAt     string `json:"createdAt"`
	DateContacted string `json:"dateContacted"`
	Interviews    []struct {
		Interviewers []string `json:"interviewers"`
	} `json:"interviews"`
	Interactions []struct {
		Description string `json:"description"`
	} `json:"interactions"`
}

// DecodeDocument parses a stored document, upgrading records written with the
// legacy schema (position, contactPerson, createdAt, extended statuses) to the
// canonical shape. Canonical fields win over their legacy aliases.
func DecodeDocument(data []byte) (*Document, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	doc := &Document{
		Contacts:    make([]Contact, 0, len(raw.Contacts)),
		LastUpdated: raw.LastUpdated,
		Version:     raw.Version,
		Revision:    raw.Revision,
	}
	if doc.Version == "" {
		doc.Version = DocumentVersion
	}

	for i, msg := range raw.Contacts {
		var c Contact
		if err := json.Unmarshal(msg, &c); err != nil {
			return nil, fmt.Errorf("decode contact %d: %w", i, err)
		}
		var legacy legacyContact
		if err := json.Unmarshal(msg, &legacy); err != nil {
			return nil, fmt.Errorf("decode contact %d: %w", i, err)
		}
		upgradeContact(&c, &legacy)
		doc.Contacts = append(doc.Contacts, c)
	}
	return doc, nil
}

func upgradeContact(c *Contact, legacy *legacyContact) {
	if c.PositionTitle == "" {
		c.PositionTitle = legacy.Position
	}
	if c.ContactName == "" {
		c.ContactName = legacy.ContactPerson
	}
	if c.LastContactDate == "" {
		c.LastContactDate = legacy.DateContacted
	}
	if c.DateAdded.IsZero() && legacy.CreatedAt != "" {
		if t, err := ParseDate(legacy.CreatedAt); err == nil {
			c.DateAdded = t
		}
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.DateAdded
	}

	c.Status = UpgradeStatus(string(c.Status))
	if c.Status == StatusArchived {
		c.Archived = true
	}
	if !c.Priority.Valid() {
		c.Priority = PriorityMedium
	}
	if !c.WorkType.Valid() {
		c.WorkType = WorkTypeRemote
	}

	for i := range c.Interviews {
		if c.Interviews[i].Interviewer == "" && i < len(legacy.Interviews) {
			c.Interviews[i].Interviewer = strings.Join(legacy.Interviews[i].Interviewers, ", ")
		}
		if c.Interviews[i].ContactID == "" {
			c.Interviews[i].ContactID = c.ID
		}
	}
	for i := range c.Interactions {
		if c.Interactions[i].Notes == "" && i < len(legacy.Interactions) {
			c.Interactions[i].Notes = legacy.Interactions[i].Description
		}
		if c.Interactions[i].ContactID == "" {
			c.Interactions[i].ContactID = c.ID
		}
	}
	for i := range c.Attachments {
		if c.Attachments[i].ContactID == "" {
			c.Attachments[i].ContactID = c.ID
		}
	}

	if c.Interviews == nil {
		c.Interviews = []Interview{}
	}
	if c.Interactions == nil {
		c.Interactions = []Interaction{}
	}
	if c.Attachments == nil {
		c.Attachments = []Attachment{}
	}
}
