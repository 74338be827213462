package domain

import "time"

type IssueState string

const (
	IssueOpen   IssueState = "open"
	IssueClosed IssueState = "closed"
)

type Issue struct {
	ID          string
	ProjectID   string
	MilestoneID *string
	Title       string
	State       IssueState
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (i *Issue) IsClosed() bool {
	return i.State == IssueClosed
}
