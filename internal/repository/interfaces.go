package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/bugtrail/internal/domain"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByKey(ctx context.Context, key string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
}

// MilestoneRepo is the record store for milestones.
type MilestoneRepo interface {
	Create(ctx context.Context, m *domain.MilestoneRecord) error
	GetByID(ctx context.Context, id string) (*domain.MilestoneRecord, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.MilestoneRecord, error)
	ListUnreached(ctx context.Context) ([]*domain.MilestoneRecord, error)
	Update(ctx context.Context, m *domain.MilestoneRecord) error
	MarkReached(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}

type IssueRepo interface {
	Create(ctx context.Context, i *domain.Issue) error
	GetByID(ctx context.Context, id string) (*domain.Issue, error)
	ListByMilestone(ctx context.Context, milestoneID string) ([]*domain.Issue, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Issue, error)
	SetState(ctx context.Context, id string, state domain.IssueState, at time.Time) error
	AssignMilestone(ctx context.Context, id string, milestoneID *string, at time.Time) error
	ClearMilestone(ctx context.Context, milestoneID string) error
}

// PermissionRepo stores permission rules and answers access checks.
type PermissionRepo interface {
	Set(ctx context.Context, rule domain.PermissionRule) error
	GrantDefault(ctx context.Context, permission, targetID, scope, groupID string) error
	Check(ctx context.Context, permission, targetID, scope string, actor domain.User) (bool, error)
}

var (
	_ ProjectRepo    = (*SQLiteProjectRepo)(nil)
	_ MilestoneRepo  = (*SQLiteMilestoneRepo)(nil)
	_ IssueRepo      = (*SQLiteIssueRepo)(nil)
	_ PermissionRepo = (*SQLitePermissionRepo)(nil)

	_ domain.IssueLoader   = (*SQLiteIssueRepo)(nil)
	_ domain.ProjectLoader = (*SQLiteProjectRepo)(nil)
)
