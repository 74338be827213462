package service

import (
	"context"
	"time"

	"github.com/alexanderramin/bugtrail/internal/domain"
	"github.com/alexanderramin/bugtrail/internal/schedule"
)

// MilestoneSummary is a read-only snapshot of a milestone and its derived
// views at a point in time.
type MilestoneSummary struct {
	ID            string        `json:"id"`
	ProjectID     string        `json:"project_id"`
	ProjectKey    string        `json:"project_key,omitempty"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	Visible       bool          `json:"visible"`
	Scheduled     bool          `json:"scheduled"`
	ScheduledDate *time.Time    `json:"scheduled_date,omitempty"`
	Reached       bool          `json:"reached"`
	ReachedDate   *time.Time    `json:"reached_date,omitempty"`
	IssueCount    int           `json:"issue_count"`
	ClosedIssues  int           `json:"closed_issues"`
	Percent       float64       `json:"percent_complete"`
	Overdue       bool          `json:"overdue"`
	Tone          schedule.Tone `json:"tone"`
	StatusText    string        `json:"status_text"`
}

// Summarize loads the milestone's issues and project and evaluates every
// derived view against now.
func Summarize(ctx context.Context, m *domain.Milestone, now time.Time) (MilestoneSummary, error) {
	issues, err := m.Issues(ctx)
	if err != nil {
		return MilestoneSummary{}, err
	}
	pct, err := m.PercentComplete(ctx)
	if err != nil {
		return MilestoneSummary{}, err
	}

	st := m.ScheduledStatus(now)
	s := MilestoneSummary{
		ID:           m.ID(),
		ProjectID:    m.ProjectID(),
		Name:         m.Name(),
		Description:  m.Description(),
		Visible:      m.Visible(),
		Scheduled:    m.Scheduled(),
		Reached:      m.Reached(),
		IssueCount:   len(issues),
		ClosedIssues: m.ClosedIssueCount(),
		Percent:      pct,
		Overdue:      m.IsOverdue(now),
		Tone:         st.Tone,
		StatusText:   st.Text,
	}
	if m.Scheduled() {
		d := m.ScheduledDate()
		s.ScheduledDate = &d
	}
	if m.Reached() {
		d := m.ReachedDate()
		s.ReachedDate = &d
	}
	if p := m.Project(ctx); p != nil {
		s.ProjectKey = p.Key
	}
	return s, nil
}
