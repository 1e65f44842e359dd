package contacts

import (
	"fmt"
	"strings"

	"github.com/kiranshivaraju/jobtracker/pkg/models"
)

func validateContact(c *models.Contact) error {
	if strings.TrimSpace(c.CompanyName) == "" {
		return invalid("companyName", "is required")
	}
	if strings.TrimSpace(c.PositionTitle) == "" {
		return invalid("positionTitle", "is required")
	}
	if !c.Status.Valid() {
		return invalid("status", fmt.Sprintf("unknown status %q", c.Status))
	}
	if !c.Priority.Valid() {
		return invalid("priority", fmt.Sprintf("must be High, Medium or Low, got %q", c.Priority))
	}
	if !c.WorkType.Valid() {
		return invalid("workType", fmt.Sprintf("unknown work type %q", c.WorkType))
	}
	if c.ContactMethod != "" && !c.ContactMethod.Valid() {
		return invalid("contactMethod", fmt.Sprintf("unknown contact method %q", c.ContactMethod))
	}
	for _, f := range []struct{ name, value string }{
		{"applicationDeadline", c.ApplicationDeadline},
		{"followUpDate", c.FollowUpDate},
		{"lastContactDate", c.LastContactDate},
	} {
		if err := validateDate(f.name, f.value, false); err != nil {
			return err
		}
	}
	return nil
}

func validateInterview(iv *models.Interview) error {
	if !iv.Status.Valid() {
		return invalid("status", fmt.Sprintf("unknown interview status %q", iv.Status))
	}
	if iv.Duration < 0 {
		return invalid("duration", "must not be negative")
	}
	return validateDate("scheduledDate", iv.ScheduledDate, true)
}

func validateDate(field, value string, required bool) error {
	if value == "" {
		if required {
			return invalid(field, "is required")
		}
		return nil
	}
	if _, err := models.ParseDate(value); err != nil {
		return invalid(field, "must be an ISO-8601 date")
	}
	return nil
}
