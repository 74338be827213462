package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/bugtrail/internal/db"
	"github.com/alexanderramin/bugtrail/internal/domain"
)

// SQLiteMilestoneRepo implements MilestoneRepo using a SQLite database.
type SQLiteMilestoneRepo struct {
	db db.DBTX
}

// NewSQLiteMilestoneRepo creates a new SQLiteMilestoneRepo.
func NewSQLiteMilestoneRepo(conn db.DBTX) *SQLiteMilestoneRepo {
	return &SQLiteMilestoneRepo{db: conn}
}

const milestoneColumns = `id, project_id, name, description, visible, scheduled_at, reached_at, created_at, updated_at`

func (r *SQLiteMilestoneRepo) Create(ctx context.Context, m *domain.MilestoneRecord) error {
	query := `INSERT INTO milestones (` + milestoneColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		m.ID,
		m.ProjectID,
		m.Name,
		m.Description,
		boolToInt(m.Visible),
		unixOrZero(m.ScheduledAt),
		unixOrZero(m.ReachedAt),
		formatTimestamp(m.CreatedAt),
		formatTimestamp(m.UpdatedAt),
	)
	if err != nil {
		return writeFailed("inserting milestone", err)
	}
	return nil
}

func (r *SQLiteMilestoneRepo) GetByID(ctx context.Context, id string) (*domain.MilestoneRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+milestoneColumns+` FROM milestones WHERE id = ?`, id)
	m, err := scanMilestone(row)
	if err != nil {
		return nil, notFound(err, "milestone", id)
	}
	return m, nil
}

func (r *SQLiteMilestoneRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.MilestoneRecord, error) {
	return r.list(ctx, `SELECT `+milestoneColumns+` FROM milestones WHERE project_id = ? ORDER BY id`, projectID)
}

// ListUnreached returns every milestone without a reached date, across all
// projects.
func (r *SQLiteMilestoneRepo) ListUnreached(ctx context.Context) ([]*domain.MilestoneRecord, error) {
	return r.list(ctx, `SELECT `+milestoneColumns+` FROM milestones WHERE reached_at = 0 ORDER BY id`)
}

func (r *SQLiteMilestoneRepo) list(ctx context.Context, query string, args ...any) ([]*domain.MilestoneRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing milestones: %w", err)
	}
	defer rows.Close()

	var out []*domain.MilestoneRecord
	for rows.Next() {
		m, err := scanMilestone(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning milestone row: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating milestones: %w", err)
	}
	return out, nil
}

// Update writes every mutable column. reached_at is only changed through
// MarkReached.
func (r *SQLiteMilestoneRepo) Update(ctx context.Context, m *domain.MilestoneRecord) error {
	query := `UPDATE milestones SET name = ?, description = ?, visible = ?, scheduled_at = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		m.Name,
		m.Description,
		boolToInt(m.Visible),
		unixOrZero(m.ScheduledAt),
		formatTimestamp(m.UpdatedAt),
		m.ID,
	)
	if err != nil {
		return writeFailed("updating milestone", err)
	}
	return requireAffected(res, "milestone", m.ID)
}

func (r *SQLiteMilestoneRepo) MarkReached(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE milestones SET reached_at = ?, updated_at = ? WHERE id = ?`,
		unixOrZero(at), formatTimestamp(at), id)
	if err != nil {
		return writeFailed("marking milestone reached", err)
	}
	return requireAffected(res, "milestone", id)
}

func (r *SQLiteMilestoneRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM milestones WHERE id = ?`, id)
	if err != nil {
		return writeFailed("deleting milestone", err)
	}
	return requireAffected(res, "milestone", id)
}

func scanMilestone(row rowScanner) (*domain.MilestoneRecord, error) {
	var m domain.MilestoneRecord
	var visible int
	var scheduledAt, reachedAt int64
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&m.ID, &m.ProjectID, &m.Name, &m.Description, &visible,
		&scheduledAt, &reachedAt,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		return nil, err
	}

	m.Visible = intToBool(visible)
	m.ScheduledAt = timeFromUnix(scheduledAt)
	m.ReachedAt = timeFromUnix(reachedAt)
	if m.CreatedAt, err = parseTimestamp(createdAtStr, "created_at"); err != nil {
		return nil, err
	}
	if m.UpdatedAt, err = parseTimestamp(updatedAtStr, "updated_at"); err != nil {
		return nil, err
	}
	return &m, nil
}
