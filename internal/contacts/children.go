package contacts

import (
	"context"
	"strings"
	"time"

	"github.com/kiranshivaraju/jobtracker/pkg/models"
)

const defaultChildType = "Other"

// AddInterview appends an interview to the contact.
func (s *Service) AddInterview(ctx context.Context, contactID string, in models.NewInterview) (*models.Interview, error) {
	iv := models.Interview{
		ContactID:     contactID,
		Type:          strings.TrimSpace(in.Type),
		Status:        in.Status,
		ScheduledDate: in.ScheduledDate,
		Duration:      in.Duration,
		Interviewer:   in.Interviewer,
		Notes:         in.Notes,
		Feedback:      in.Feedback,
	}
	if iv.Type == "" {
		iv.Type = defaultChildType
	}
	if iv.Status == "" {
		iv.Status = models.InterviewScheduled
	}
	if err := validateInterview(&iv); err != nil {
		return nil, err
	}

	err := s.withContact(ctx, contactID, func(c *models.Contact, now time.Time) error {
		iv.ID = s.newID()
		iv.CreatedAt = now
		c.Interviews = append(c.Interviews, iv)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &iv, nil
}

// UpdateInterview merges the supplied fields over one interview.
func (s *Service) UpdateInterview(ctx context.Context, contactID, interviewID string, patch models.InterviewPatch) (*models.Interview, error) {
	var out models.Interview
	err := s.withContact(ctx, contactID, func(c *models.Contact, _ time.Time) error {
		for i := range c.Interviews {
			if c.Interviews[i].ID != interviewID {
				continue
			}
			iv := c.Interviews[i]
			patch.Apply(&iv)
			if err := validateInterview(&iv); err != nil {
				return err
			}
			c.Interviews[i] = iv
			out = iv
			return nil
		}
		return ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) DeleteInterview(ctx context.Context, contactID, interviewID string) error {
	return s.withContact(ctx, contactID, func(c *models.Contact, _ time.Time) error {
		for i := range c.Interviews {
			if c.Interviews[i].ID == interviewID {
				c.Interviews = append(c.Interviews[:i], c.Interviews[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}

// AddInteraction logs an interaction. An empty date means now.
func (s *Service) AddInteraction(ctx context.Context, contactID string, in models.NewInteraction) (*models.Interaction, error) {
	ia := models.Interaction{
		ContactID: contactID,
		Date:      in.Date,
		Type:      strings.TrimSpace(in.Type),
		Notes:     in.Notes,
		Outcome:   in.Outcome,
	}
	if ia.Type == "" {
		ia.Type = defaultChildType
	}
	if err := validateDate("date", ia.Date, false); err != nil {
		return nil, err
	}

	err := s.withContact(ctx, contactID, func(c *models.Contact, now time.Time) error {
		ia.ID = s.newID()
		ia.CreatedAt = now
		if ia.Date == "" {
			ia.Date = now.Format(time.RFC3339)
		}
		c.Interactions = append(c.Interactions, ia)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ia, nil
}

func (s *Service) AddAttachment(ctx context.Context, contactID string, in models.NewAttachment) (*models.Attachment, error) {
	a := models.Attachment{
		ContactID: contactID,
		Name:      strings.TrimSpace(in.Name),
		Type:      in.Type,
		URL:       in.URL,
		Notes:     in.Notes,
	}
	if a.Name == "" {
		return nil, invalid("name", "is required")
	}
	if a.Type == "" {
		a.Type = defaultChildType
	}
	if !a.Type.Valid() {
		return nil, invalid("type", "unknown attachment type "+string(a.Type))
	}

	err := s.withContact(ctx, contactID, func(c *models.Contact, now time.Time) error {
		a.ID = s.newID()
		a.CreatedAt = now
		c.Attachments = append(c.Attachments, a)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Service) DeleteAttachment(ctx context.Context, contactID, attachmentID string) error {
	return s.withContact(ctx, contactID, func(c *models.Contact, _ time.Time) error {
		for i := range c.Attachments {
			if c.Attachments[i].ID == attachmentID {
				c.Attachments = append(c.Attachments[:i], c.Attachments[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}

// withContact applies fn to the stored parent and refreshes its updatedAt.
func (s *Service) withContact(ctx context.Context, contactID string, fn func(*models.Contact, time.Time) error) error {
	return s.mutate(ctx, func(doc *models.Document, now time.Time) error {
		i := doc.IndexOf(contactID)
		if i < 0 {
			return ErrNotFound
		}
		c := &doc.Contacts[i]
		if err := fn(c, now); err != nil {
			return err
		}
		c.UpdatedAt = now
		return nil
	})
}
