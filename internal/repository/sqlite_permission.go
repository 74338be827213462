package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/bugtrail/internal/db"
	"github.com/alexanderramin/bugtrail/internal/domain"
)

// SQLitePermissionRepo implements PermissionRepo using a SQLite database.
type SQLitePermissionRepo struct {
	db db.DBTX
}

// NewSQLitePermissionRepo creates a new SQLitePermissionRepo.
func NewSQLitePermissionRepo(conn db.DBTX) *SQLitePermissionRepo {
	return &SQLitePermissionRepo{db: conn}
}

// Set inserts or replaces a rule.
func (r *SQLitePermissionRepo) Set(ctx context.Context, rule domain.PermissionRule) error {
	query := `INSERT INTO permissions (permission, target_id, module, user_id, group_id, allowed)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (permission, target_id, module, user_id, group_id) DO UPDATE SET allowed = excluded.allowed`
	_, err := r.db.ExecContext(ctx, query,
		rule.Permission,
		rule.TargetID,
		rule.Scope,
		rule.UserID,
		rule.GroupID,
		boolToInt(rule.Allowed),
	)
	if err != nil {
		return writeFailed("saving permission", err)
	}
	return nil
}

// GrantDefault allows every member of groupID the permission on targetID.
func (r *SQLitePermissionRepo) GrantDefault(ctx context.Context, permission, targetID, scope, groupID string) error {
	return r.Set(ctx, domain.PermissionRule{
		Permission: permission,
		TargetID:   targetID,
		Scope:      scope,
		GroupID:    groupID,
		Allowed:    true,
	})
}

// Check resolves the rules matching actor on the target. A user-specific rule
// beats a group rule, which beats a wildcard rule. No matching rule means no
// access.
func (r *SQLitePermissionRepo) Check(ctx context.Context, permission, targetID, scope string, actor domain.User) (bool, error) {
	query := `SELECT allowed FROM permissions
		WHERE permission = ? AND target_id = ? AND module = ?
		  AND (user_id = '' OR user_id = ?)
		  AND (group_id = '' OR group_id = ?)
		ORDER BY (user_id <> '') DESC, (group_id <> '') DESC
		LIMIT 1`
	rows, err := r.db.QueryContext(ctx, query, permission, targetID, scope, actor.ID, actor.GroupID)
	if err != nil {
		return false, fmt.Errorf("checking permission: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return false, rows.Err()
	}
	var allowed int
	if err := rows.Scan(&allowed); err != nil {
		return false, fmt.Errorf("scanning permission: %w", err)
	}
	return intToBool(allowed), nil
}
