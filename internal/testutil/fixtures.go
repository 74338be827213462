package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/bugtrail/internal/domain"
	"github.com/google/uuid"
)

var testKeyCounter atomic.Int64

// Project options
type ProjectOption func(*domain.Project)

func WithKey(key string) ProjectOption {
	return func(p *domain.Project) {
		p.Key = key
	}
}

// defaultKey yields unique uppercase keys: PRJA, PRJB, ..., PRJBA, ...
func defaultKey() string {
	n := testKeyCounter.Add(1)
	var suffix []byte
	for n > 0 {
		suffix = append([]byte{byte('A' + (n-1)%26)}, suffix...)
		n = (n - 1) / 26
	}
	return fmt.Sprintf("PRJ%s", suffix)
}

// now is truncated to whole seconds so values survive a storage round trip.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	ts := now()
	p := &domain.Project{
		ID:        uuid.New().String(),
		Key:       defaultKey(),
		Name:      name,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Milestone options
type MilestoneOption func(*domain.MilestoneRecord)

func WithScheduledAt(t time.Time) MilestoneOption {
	return func(m *domain.MilestoneRecord) {
		m.ScheduledAt = t
	}
}

func WithReachedAt(t time.Time) MilestoneOption {
	return func(m *domain.MilestoneRecord) {
		m.ReachedAt = t
	}
}

func WithDescription(d string) MilestoneOption {
	return func(m *domain.MilestoneRecord) {
		m.Description = d
	}
}

func WithHidden() MilestoneOption {
	return func(m *domain.MilestoneRecord) {
		m.Visible = false
	}
}

func NewTestMilestoneRecord(projectID, name string, opts ...MilestoneOption) *domain.MilestoneRecord {
	ts := now()
	m := &domain.MilestoneRecord{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
		Visible:   true,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Issue options
type IssueOption func(*domain.Issue)

func WithMilestone(id string) IssueOption {
	return func(i *domain.Issue) {
		i.MilestoneID = &id
	}
}

func WithClosed() IssueOption {
	return func(i *domain.Issue) {
		i.State = domain.IssueClosed
	}
}

func NewTestIssue(projectID, title string, opts ...IssueOption) *domain.Issue {
	ts := now()
	i := &domain.Issue{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Title:     title,
		State:     domain.IssueOpen,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}
