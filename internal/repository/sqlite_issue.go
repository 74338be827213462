package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/bugtrail/internal/db"
	"github.com/alexanderramin/bugtrail/internal/domain"
)

// SQLiteIssueRepo implements IssueRepo using a SQLite database.
type SQLiteIssueRepo struct {
	db db.DBTX
}

// NewSQLiteIssueRepo creates a new SQLiteIssueRepo.
func NewSQLiteIssueRepo(conn db.DBTX) *SQLiteIssueRepo {
	return &SQLiteIssueRepo{db: conn}
}

const issueColumns = `id, project_id, milestone_id, title, state, created_at, updated_at`

func (r *SQLiteIssueRepo) Create(ctx context.Context, i *domain.Issue) error {
	query := `INSERT INTO issues (` + issueColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		i.ID,
		i.ProjectID,
		nullableString(i.MilestoneID),
		i.Title,
		string(i.State),
		formatTimestamp(i.CreatedAt),
		formatTimestamp(i.UpdatedAt),
	)
	if err != nil {
		return writeFailed("inserting issue", err)
	}
	return nil
}

func (r *SQLiteIssueRepo) GetByID(ctx context.Context, id string) (*domain.Issue, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+issueColumns+` FROM issues WHERE id = ?`, id)
	i, err := scanIssue(row)
	if err != nil {
		return nil, notFound(err, "issue", id)
	}
	return i, nil
}

// ListByMilestone returns the issues attached to a milestone ordered by id.
func (r *SQLiteIssueRepo) ListByMilestone(ctx context.Context, milestoneID string) ([]*domain.Issue, error) {
	return r.list(ctx, `SELECT `+issueColumns+` FROM issues WHERE milestone_id = ? ORDER BY id`, milestoneID)
}

func (r *SQLiteIssueRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Issue, error) {
	return r.list(ctx, `SELECT `+issueColumns+` FROM issues WHERE project_id = ? ORDER BY created_at, id`, projectID)
}

func (r *SQLiteIssueRepo) list(ctx context.Context, query string, args ...any) ([]*domain.Issue, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing issues: %w", err)
	}
	defer rows.Close()

	var out []*domain.Issue
	for rows.Next() {
		i, err := scanIssue(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning issue row: %w", err)
		}
		out = append(out, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating issues: %w", err)
	}
	return out, nil
}

func (r *SQLiteIssueRepo) SetState(ctx context.Context, id string, state domain.IssueState, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE issues SET state = ?, updated_at = ? WHERE id = ?`,
		string(state), formatTimestamp(at), id)
	if err != nil {
		return writeFailed("updating issue state", err)
	}
	return requireAffected(res, "issue", id)
}

// AssignMilestone attaches the issue to a milestone, or detaches it when
// milestoneID is nil.
func (r *SQLiteIssueRepo) AssignMilestone(ctx context.Context, id string, milestoneID *string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE issues SET milestone_id = ?, updated_at = ? WHERE id = ?`,
		nullableString(milestoneID), formatTimestamp(at), id)
	if err != nil {
		return writeFailed("assigning issue milestone", err)
	}
	return requireAffected(res, "issue", id)
}

// ClearMilestone detaches every issue from the given milestone. Touching
// zero rows is not an error.
func (r *SQLiteIssueRepo) ClearMilestone(ctx context.Context, milestoneID string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE issues SET milestone_id = NULL WHERE milestone_id = ?`, milestoneID)
	if err != nil {
		return writeFailed("clearing issue milestone", err)
	}
	return nil
}

func scanIssue(row rowScanner) (*domain.Issue, error) {
	var i domain.Issue
	var milestoneID sql.NullString
	var state, createdAtStr, updatedAtStr string

	if err := row.Scan(&i.ID, &i.ProjectID, &milestoneID, &i.Title, &state, &createdAtStr, &updatedAtStr); err != nil {
		return nil, err
	}

	i.MilestoneID = stringPtr(milestoneID)
	i.State = domain.IssueState(state)
	var err error
	if i.CreatedAt, err = parseTimestamp(createdAtStr, "created_at"); err != nil {
		return nil, err
	}
	if i.UpdatedAt, err = parseTimestamp(updatedAtStr, "updated_at"); err != nil {
		return nil, err
	}
	return &i, nil
}
