package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/bugtrail/internal/db"
	"github.com/alexanderramin/bugtrail/internal/domain"
	"github.com/alexanderramin/bugtrail/internal/repository"
	"github.com/google/uuid"
)

type milestoneService struct {
	milestones  repository.MilestoneRepo
	issues      repository.IssueRepo
	projects    repository.ProjectRepo
	permissions repository.PermissionRepo
	uow         db.UnitOfWork
	observer    UseCaseObserver
	now         func() time.Time
}

func NewMilestoneService(
	milestones repository.MilestoneRepo,
	issues repository.IssueRepo,
	projects repository.ProjectRepo,
	permissions repository.PermissionRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) MilestoneService {
	return &milestoneService{
		milestones:  milestones,
		issues:      issues,
		projects:    projects,
		permissions: permissions,
		uow:         uow,
		observer:    useCaseObserverOrNoop(observers),
		now:         time.Now,
	}
}

func (s *milestoneService) hydrate(rec *domain.MilestoneRecord) *domain.Milestone {
	return domain.NewMilestone(*rec, s.issues, s.projects)
}

// Create inserts the milestone and grants the acting user's group access to
// it in a single transaction.
func (s *milestoneService) Create(ctx context.Context, name, projectID string, opts ...CreateOption) (m *domain.Milestone, err error) {
	startedAt := s.now()
	fields := map[string]any{"project_id": projectID}
	defer observe(ctx, s.observer, "milestone-create", startedAt, fields, &err)

	actor, ok := domain.ActorFrom(ctx)
	if !ok {
		return nil, domain.ErrNoActor
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("milestone name is required")
	}

	ts := startedAt.UTC().Truncate(time.Second)
	rec := &domain.MilestoneRecord{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
		Visible:   true,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	for _, opt := range opts {
		opt(rec)
	}
	fields["milestone_id"] = rec.ID

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteMilestoneRepo(tx).Create(ctx, rec); err != nil {
			return err
		}
		return repository.NewSQLitePermissionRepo(tx).GrantDefault(ctx,
			domain.PermMilestoneAccess, rec.ID, domain.ScopeCore, actor.GroupID)
	})
	if err != nil {
		return nil, err
	}
	return s.hydrate(rec), nil
}

func (s *milestoneService) Load(ctx context.Context, id string) (*domain.Milestone, error) {
	rec, err := s.milestones.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.hydrate(rec), nil
}

func (s *milestoneService) ListByProject(ctx context.Context, projectID string) ([]*domain.Milestone, error) {
	recs, err := s.milestones.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Milestone, 0, len(recs))
	for _, rec := range recs {
		out = append(out, s.hydrate(rec))
	}
	return out, nil
}

// Save persists name, description, visibility and the scheduled date. The
// date is stored as unset when the milestone is not scheduled.
func (s *milestoneService) Save(ctx context.Context, m *domain.Milestone) (err error) {
	startedAt := s.now()
	defer observe(ctx, s.observer, "milestone-save", startedAt, map[string]any{"milestone_id": m.ID()}, &err)

	m.Touch(startedAt.UTC().Truncate(time.Second))
	rec := m.Record()
	return s.milestones.Update(ctx, &rec)
}

// Delete removes the milestone and detaches its issues in one transaction.
func (s *milestoneService) Delete(ctx context.Context, m *domain.Milestone) (err error) {
	startedAt := s.now()
	defer observe(ctx, s.observer, "milestone-delete", startedAt, map[string]any{"milestone_id": m.ID()}, &err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteIssueRepo(tx).ClearMilestone(ctx, m.ID()); err != nil {
			return err
		}
		return repository.NewSQLiteMilestoneRepo(tx).Delete(ctx, m.ID())
	})
}

func (s *milestoneService) UpdateStatus(ctx context.Context, m *domain.Milestone) (reached bool, err error) {
	startedAt := s.now()
	fields := map[string]any{"milestone_id": m.ID()}
	defer observe(ctx, s.observer, "milestone-update-status", startedAt, fields, &err)

	done, err := m.AllIssuesClosed(ctx)
	if err != nil {
		return false, err
	}
	fields["closed_issues"] = m.ClosedIssueCount()
	if !done {
		return false, nil
	}
	if err := s.milestones.MarkReached(ctx, m.ID(), startedAt); err != nil {
		return false, err
	}
	fields["reached"] = true
	return true, nil
}

// HasAccess checks the milestone-access permission for the acting user. A
// context without an acting user has no access.
func (s *milestoneService) HasAccess(ctx context.Context, m *domain.Milestone) (bool, error) {
	actor, ok := domain.ActorFrom(ctx)
	if !ok {
		return false, nil
	}
	return s.permissions.Check(ctx, domain.PermMilestoneAccess, m.ID(), domain.ScopeCore, actor)
}

func (s *milestoneService) RefreshUnreached(ctx context.Context) (marked int, err error) {
	startedAt := s.now()
	fields := map[string]any{}
	defer observe(ctx, s.observer, "milestone-refresh-unreached", startedAt, fields, &err)

	recs, err := s.milestones.ListUnreached(ctx)
	if err != nil {
		return 0, err
	}
	fields["checked"] = len(recs)
	for _, rec := range recs {
		if err := ctx.Err(); err != nil {
			return marked, err
		}
		m := s.hydrate(rec)
		issues, err := m.Issues(ctx)
		if err != nil {
			return marked, fmt.Errorf("refreshing milestone %s: %w", rec.ID, err)
		}
		// Milestones nobody has attached work to yet are left alone.
		if len(issues) == 0 {
			continue
		}
		reached, err := s.UpdateStatus(ctx, m)
		if err != nil {
			return marked, fmt.Errorf("refreshing milestone %s: %w", rec.ID, err)
		}
		if reached {
			marked++
		}
	}
	fields["marked"] = marked
	return marked, nil
}
