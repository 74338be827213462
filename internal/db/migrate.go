package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is safe to re-run.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ... ADD COLUMN has no IF NOT EXISTS form in SQLite.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id         TEXT PRIMARY KEY,
		key        TEXT NOT NULL,
		name       TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_key ON projects(key)`,

	// scheduled_at and reached_at hold unix seconds; 0 means unset.
	`CREATE TABLE IF NOT EXISTS milestones (
		id           TEXT PRIMARY KEY,
		project_id   TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name         TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		scheduled_at INTEGER NOT NULL DEFAULT 0,
		reached_at   INTEGER NOT NULL DEFAULT 0,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_milestones_project ON milestones(project_id)`,

	`CREATE TABLE IF NOT EXISTS issues (
		id           TEXT PRIMARY KEY,
		project_id   TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		milestone_id TEXT REFERENCES milestones(id) ON DELETE SET NULL,
		title        TEXT NOT NULL,
		state        TEXT NOT NULL DEFAULT 'open'
		             CHECK(state IN ('open','closed')),
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_issues_milestone ON issues(milestone_id)`,

	// Empty user_id/group_id act as wildcards.
	`CREATE TABLE IF NOT EXISTS permissions (
		permission TEXT NOT NULL,
		target_id  TEXT NOT NULL,
		module     TEXT NOT NULL,
		user_id    TEXT NOT NULL DEFAULT '',
		group_id   TEXT NOT NULL DEFAULT '',
		allowed    INTEGER NOT NULL DEFAULT 1,
		PRIMARY KEY (permission, target_id, module, user_id, group_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_permissions_target ON permissions(permission, target_id, module)`,

	// Milestone visibility toggle, added after the initial schema.
	`ALTER TABLE milestones ADD COLUMN visible INTEGER NOT NULL DEFAULT 1`,
}
