package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/bugtrail/internal/schedule"
)

// IssueLoader hydrates the issues attached to a milestone, ordered by id.
type IssueLoader interface {
	ListByMilestone(ctx context.Context, milestoneID string) ([]*Issue, error)
}

// ProjectLoader hydrates a project by id.
type ProjectLoader interface {
	GetByID(ctx context.Context, id string) (*Project, error)
}

// MilestoneRecord is the stored shape of a milestone. A zero ScheduledAt
// means "not scheduled" and a zero ReachedAt means "not reached".
type MilestoneRecord struct {
	ID          string
	ProjectID   string
	Name        string
	Description string
	Visible     bool
	ScheduledAt time.Time
	ReachedAt   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type projectRefState int

const (
	projectUnresolved projectRefState = iota
	projectResolved
	projectFailed
)

// projectRef starts out as a bare id and is replaced on first access by
// either the hydrated project or a failed marker.
type projectRef struct {
	state   projectRefState
	id      string
	project *Project
}

// issueSet is populated at most once per milestone instance.
type issueSet struct {
	loaded bool
	items  []*Issue
	byID   map[string]*Issue
	closed int
}

// Milestone is a schedulable project checkpoint with a set of issues.
//
// A Milestone is not safe for concurrent use. Its issue collection is read
// once and then cached for the lifetime of the instance, so later changes
// to the underlying issues are not observed.
type Milestone struct {
	id          string
	name        string
	description string
	visible     bool

	scheduled     bool
	scheduledDate time.Time
	reached       bool
	reachedDate   time.Time

	createdAt time.Time
	updatedAt time.Time

	project  projectRef
	issues   issueSet
	issueSrc IssueLoader
	projSrc  ProjectLoader
}

// NewMilestone hydrates a milestone from its stored record. The loaders are
// consulted lazily; either may be nil, in which case the relation is empty.
func NewMilestone(rec MilestoneRecord, issues IssueLoader, projects ProjectLoader) *Milestone {
	return &Milestone{
		id:            rec.ID,
		name:          rec.Name,
		description:   rec.Description,
		visible:       rec.Visible,
		scheduled:     !rec.ScheduledAt.IsZero(),
		scheduledDate: rec.ScheduledAt,
		reached:       !rec.ReachedAt.IsZero(),
		reachedDate:   rec.ReachedAt,
		createdAt:     rec.CreatedAt,
		updatedAt:     rec.UpdatedAt,
		project:       projectRef{state: projectUnresolved, id: rec.ProjectID},
		issueSrc:      issues,
		projSrc:       projects,
	}
}

// String always panics: a milestone must be rendered through Name().
func (m *Milestone) String() string {
	panic(ErrPrintMilestone)
}

func (m *Milestone) ID() string { return m.id }
func (m *Milestone) Name() string { return m.name }
func (m *Milestone) Description() string { return m.description }
func (m *Milestone) Visible() bool { return m.visible }
func (m *Milestone) Scheduled() bool { return m.scheduled }
func (m *Milestone) Reached() bool { return m.reached }
func (m *Milestone) ReachedDate() time.Time { return m.reachedDate }
func (m *Milestone) CreatedAt() time.Time { return m.createdAt }
func (m *Milestone) UpdatedAt() time.Time { return m.updatedAt }
func (m *Milestone) ProjectID() string { return m.project.id }

func (m *Milestone) SetName(name string) { m.name = name }
func (m *Milestone) SetDescription(description string) { m.description = description }
func (m *Milestone) SetScheduled(scheduled bool) { m.scheduled = scheduled }

// ScheduledDate returns the effective scheduled date: the zero time when the
// milestone is not scheduled.
func (m *Milestone) ScheduledDate() time.Time {
	if !m.scheduled {
		return time.Time{}
	}
	return m.scheduledDate
}

// SetScheduledDate sets the target date. Passing the zero time also clears
// the scheduled flag.
func (m *Milestone) SetScheduledDate(date time.Time) {
	m.scheduledDate = date
	if date.IsZero() {
		m.scheduled = false
	}
}

func (m *Milestone) ScheduledYear() int {
	return m.ScheduledDate().Year()
}

func (m *Milestone) ScheduledMonth() time.Month {
	return m.ScheduledDate().Month()
}

func (m *Milestone) ScheduledDay() int {
	return m.ScheduledDate().Day()
}

// Project resolves the owning project on first call and memoizes the
// outcome. A failed lookup yields nil, now and on every later call.
func (m *Milestone) Project(ctx context.Context) *Project {
	if m.project.state == projectUnresolved {
		m.project.state = projectFailed
		if m.projSrc != nil && m.project.id != "" {
			if p, err := m.projSrc.GetByID(ctx, m.project.id); err == nil && p != nil {
				m.project.state = projectResolved
				m.project.project = p
			}
		}
	}
	return m.project.project
}

// Issues returns the milestone's issues ordered by id, loading them on the
// first call. A load error leaves the collection unloaded.
func (m *Milestone) Issues(ctx context.Context) ([]*Issue, error) {
	if err := m.populateIssues(ctx); err != nil {
		return nil, err
	}
	return m.issues.items, nil
}

// Issue returns the cached issue with the given id. It does not trigger a
// load.
func (m *Milestone) Issue(id string) (*Issue, bool) {
	i, ok := m.issues.byID[id]
	return i, ok
}

func (m *Milestone) populateIssues(ctx context.Context) error {
	if m.issues.loaded {
		return nil
	}
	var loaded []*Issue
	if m.issueSrc != nil {
		var err error
		loaded, err = m.issueSrc.ListByMilestone(ctx, m.id)
		if err != nil {
			return fmt.Errorf("loading issues for milestone %s: %w", m.id, err)
		}
	}

	set := issueSet{loaded: true, byID: make(map[string]*Issue, len(loaded))}
	for _, issue := range loaded {
		if _, dup := set.byID[issue.ID]; dup {
			continue
		}
		set.byID[issue.ID] = issue
		set.items = append(set.items, issue)
		if issue.IsClosed() {
			set.closed++
		}
	}
	m.issues = set
	return nil
}

// ClosedIssueCount is only meaningful after Issues has been called; before
// that it reports 0.
func (m *Milestone) ClosedIssueCount() int {
	return m.issues.closed
}

// PercentComplete returns the share of closed issues in [0, 100], or 0 when
// the milestone has no issues.
func (m *Milestone) PercentComplete(ctx context.Context) (float64, error) {
	issues, err := m.Issues(ctx)
	if err != nil {
		return 0, err
	}
	if len(issues) == 0 {
		return 0, nil
	}
	return float64(m.issues.closed) * 100 / float64(len(issues)), nil
}

// AllIssuesClosed reports whether every loaded issue is closed. A milestone
// without issues counts as complete.
func (m *Milestone) AllIssuesClosed(ctx context.Context) (bool, error) {
	issues, err := m.Issues(ctx)
	if err != nil {
		return false, err
	}
	return m.issues.closed == len(issues), nil
}

// IsOverdue reports whether the milestone is unreached and its scheduled
// date falls before the start of now's calendar day. Unscheduled milestones
// are never overdue.
func (m *Milestone) IsOverdue(now time.Time) bool {
	if m.reached || !m.scheduled || m.scheduledDate.IsZero() {
		return false
	}
	y, mo, d := now.Date()
	return m.scheduledDate.Before(time.Date(y, mo, d, 0, 0, 0, 0, now.Location()))
}

// ScheduledStatus describes the milestone's schedule relative to now. A
// milestone flagged scheduled without a date reads as unscheduled, matching
// IsOverdue.
func (m *Milestone) ScheduledStatus(now time.Time) schedule.Status {
	return schedule.Classify(now, schedule.Input{
		ScheduledDate: m.scheduledDate,
		ReachedDate:   m.reachedDate,
		Scheduled:     m.scheduled && !m.scheduledDate.IsZero(),
		Reached:       m.reached,
	})
}

// Record returns the persistable shape of the milestone. The scheduled date
// is dropped when the milestone is not scheduled.
func (m *Milestone) Record() MilestoneRecord {
	return MilestoneRecord{
		ID:          m.id,
		ProjectID:   m.project.id,
		Name:        m.name,
		Description: m.description,
		Visible:     m.visible,
		ScheduledAt: m.ScheduledDate(),
		ReachedAt:   m.reachedDate,
		CreatedAt:   m.createdAt,
		UpdatedAt:   m.updatedAt,
	}
}

// Touch records a modification time.
func (m *Milestone) Touch(now time.Time) {
	m.updatedAt = now
}
