package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/bugtrail/internal/domain"
	"github.com/alexanderramin/bugtrail/internal/repository"
	"github.com/google/uuid"
)

type issueService struct {
	issues repository.IssueRepo
}

func NewIssueService(issues repository.IssueRepo) IssueService {
	return &issueService{issues: issues}
}

func (s *issueService) Create(ctx context.Context, i *domain.Issue) error {
	if strings.TrimSpace(i.Title) == "" {
		return fmt.Errorf("issue title is required")
	}
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	if i.State == "" {
		i.State = domain.IssueOpen
	}
	now := time.Now().UTC()
	i.CreatedAt = now
	i.UpdatedAt = now
	return s.issues.Create(ctx, i)
}

func (s *issueService) GetByID(ctx context.Context, id string) (*domain.Issue, error) {
	return s.issues.GetByID(ctx, id)
}

func (s *issueService) ListByProject(ctx context.Context, projectID string) ([]*domain.Issue, error) {
	return s.issues.ListByProject(ctx, projectID)
}

func (s *issueService) ListByMilestone(ctx context.Context, milestoneID string) ([]*domain.Issue, error) {
	return s.issues.ListByMilestone(ctx, milestoneID)
}

func (s *issueService) Close(ctx context.Context, id string) (*domain.Issue, error) {
	return s.setState(ctx, id, domain.IssueClosed)
}

func (s *issueService) Reopen(ctx context.Context, id string) (*domain.Issue, error) {
	return s.setState(ctx, id, domain.IssueOpen)
}

func (s *issueService) setState(ctx context.Context, id string, state domain.IssueState) (*domain.Issue, error) {
	if err := s.issues.SetState(ctx, id, state, time.Now().UTC()); err != nil {
		return nil, err
	}
	return s.issues.GetByID(ctx, id)
}

func (s *issueService) Assign(ctx context.Context, id string, milestoneID *string) error {
	return s.issues.AssignMilestone(ctx, id, milestoneID, time.Now().UTC())
}
