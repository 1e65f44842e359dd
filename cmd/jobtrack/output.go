package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/kiranshivaraju/jobtracker/internal/analytics"
	"github.com/kiranshivaraju/jobtracker/internal/query"
	"github.com/kiranshivaraju/jobtracker/pkg/models"
	"gopkg.in/yaml.v3"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printYAML emits v with the same keys and key order as its JSON form.
func printYAML(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return err
	}
	blockStyle(&node)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return err
	}
	return enc.Close()
}

// blockStyle clears the flow and quoting styles picked up from JSON input.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, child := range n.Content {
		blockStyle(child)
	}
}

func newTable(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	return tw
}

func renderContacts(w io.Writer, res query.Result) {
	tw := newTable(w)
	tw.AppendHeader(table.Row{"ID", "Company", "Position", "Status", "Priority", "Follow-up", "Added"})
	for _, c := range res.Contacts {
		tw.AppendRow(table.Row{c.ID, c.CompanyName, c.PositionTitle, c.Status, c.Priority,
			c.FollowUpDate, c.DateAdded.Format("2006-01-02")})
	}
	tw.AppendFooter(table.Row{"", "", "", "", "", "Showing", fmt.Sprintf("%d of %d", len(res.Contacts), res.Total)})
	tw.Render()
}

func renderContact(w io.Writer, c *models.Contact) {
	tw := newTable(w)
	tw.SetTitle("%s: %s", c.CompanyName, c.PositionTitle)
	for _, row := range []table.Row{
		{"ID", c.ID},
		{"Status", c.Status},
		{"Priority", c.Priority},
		{"Work type", c.WorkType},
		{"Location", c.Location},
		{"Contact", c.ContactName},
		{"Email", c.ContactEmail},
		{"Follow-up", c.FollowUpDate},
		{"Archived", c.Archived},
		{"Added", c.DateAdded.Format("2006-01-02 15:04")},
		{"Notes", c.Notes},
	} {
		tw.AppendRow(row)
	}
	tw.Render()

	if len(c.Interviews) > 0 {
		it := newTable(w)
		it.SetTitle("Interviews")
		it.AppendHeader(table.Row{"ID", "Type", "Status", "Scheduled", "Interviewer"})
		for _, iv := range c.Interviews {
			it.AppendRow(table.Row{iv.ID, iv.Type, iv.Status, iv.ScheduledDate, iv.Interviewer})
		}
		it.Render()
	}
	if len(c.Interactions) > 0 {
		at := newTable(w)
		at.SetTitle("Interactions")
		at.AppendHeader(table.Row{"ID", "Date", "Type", "Notes"})
		for _, ia := range c.Interactions {
			at.AppendRow(table.Row{ia.ID, ia.Date, ia.Type, ia.Notes})
		}
		at.Render()
	}
	if len(c.Attachments) > 0 {
		ft := newTable(w)
		ft.SetTitle("Attachments")
		ft.AppendHeader(table.Row{"ID", "Name", "Type", "URL"})
		for _, a := range c.Attachments {
			ft.AppendRow(table.Row{a.ID, a.Name, a.Type, a.URL})
		}
		ft.Render()
	}
}

func renderSummary(w io.Writer, s *analytics.Summary) {
	tw := newTable(w)
	tw.SetTitle("Summary")
	tw.AppendRows([]table.Row{
		{"Active contacts", s.TotalContacts},
		{"Upcoming follow-ups", s.UpcomingFollowUps},
		{"Interviews this week", s.InterviewsThisWeek},
		{"Total interviews", s.TotalInterviews},
		{"Total interactions", s.TotalInteractions},
	})
	tw.Render()

	st := newTable(w)
	st.AppendHeader(table.Row{"Status", "Count"})
	for _, status := range models.Statuses {
		st.AppendRow(table.Row{status, s.ContactsByStatus[status]})
	}
	st.Render()

	pt := newTable(w)
	pt.AppendHeader(table.Row{"Priority", "Count"})
	for _, p := range models.Priorities {
		pt.AppendRow(table.Row{p, s.ContactsByPriority[p]})
	}
	pt.Render()

	ht := newTable(w)
	ht.AppendHeader(table.Row{"Day", "Added"})
	for _, d := range s.RecentActivity {
		ht.AppendRow(table.Row{d.Date, d.Count})
	}
	ht.Render()
}
