package service

import (
	"context"
	"time"

	"github.com/alexanderramin/bugtrail/internal/domain"
)

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	// Resolve looks a project up by key first and by id second.
	Resolve(ctx context.Context, ref string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
}

type IssueService interface {
	Create(ctx context.Context, i *domain.Issue) error
	GetByID(ctx context.Context, id string) (*domain.Issue, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Issue, error)
	ListByMilestone(ctx context.Context, milestoneID string) ([]*domain.Issue, error)
	Close(ctx context.Context, id string) (*domain.Issue, error)
	Reopen(ctx context.Context, id string) (*domain.Issue, error)
	// Assign attaches the issue to a milestone; nil detaches it.
	Assign(ctx context.Context, id string, milestoneID *string) error
}

// MilestoneService owns the milestone lifecycle. Milestones it returns are
// hydrated with lazy issue and project loaders.
type MilestoneService interface {
	// Create accepts options for fields set at creation; they are written by
	// the same insert.
	Create(ctx context.Context, name, projectID string, opts ...CreateOption) (*domain.Milestone, error)
	Load(ctx context.Context, id string) (*domain.Milestone, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Milestone, error)
	Save(ctx context.Context, m *domain.Milestone) error
	Delete(ctx context.Context, m *domain.Milestone) error
	// UpdateStatus marks the milestone reached in storage when all of its
	// issues are closed and reports whether it did. The in-memory milestone
	// is left as it was.
	UpdateStatus(ctx context.Context, m *domain.Milestone) (bool, error)
	HasAccess(ctx context.Context, m *domain.Milestone) (bool, error)
	// RefreshUnreached runs UpdateStatus on every unreached milestone that
	// has at least one issue and returns how many were marked reached.
	RefreshUnreached(ctx context.Context) (int, error)
}

// CreateOption sets an optional field on a milestone being created.
type CreateOption func(*domain.MilestoneRecord)

func WithDescription(description string) CreateOption {
	return func(r *domain.MilestoneRecord) { r.Description = description }
}

// WithScheduledDate schedules the milestone; the zero time leaves it
// unscheduled.
func WithScheduledDate(date time.Time) CreateOption {
	return func(r *domain.MilestoneRecord) { r.ScheduledAt = date }
}
