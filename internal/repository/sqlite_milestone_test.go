package repository

import (
	"context"
	"database/sql"
	"slices"
	"testing"
	"time"

	"github.com/alexanderramin/bugtrail/internal/domain"
	"github.com/alexanderramin/bugtrail/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupProject(t *testing.T, db *sql.DB) *domain.Project {
	t.Helper()
	p := testutil.NewTestProject("Core")
	require.NoError(t, NewSQLiteProjectRepo(db).Create(context.Background(), p))
	return p
}

func TestMilestoneRepo_CreateAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	proj := setupProject(t, db)
	repo := NewSQLiteMilestoneRepo(db)
	ctx := context.Background()

	sched := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	rec := testutil.NewTestMilestoneRecord(proj.ID, "Beta",
		testutil.WithScheduledAt(sched), testutil.WithDescription("first public cut"))
	require.NoError(t, repo.Create(ctx, rec))

	got, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Beta", got.Name)
	assert.Equal(t, "first public cut", got.Description)
	assert.Equal(t, proj.ID, got.ProjectID)
	assert.True(t, got.Visible)
	assert.True(t, sched.Equal(got.ScheduledAt))
	assert.True(t, got.ReachedAt.IsZero())
}

func TestMilestoneRepo_UnscheduledStoresZero(t *testing.T) {
	db := testutil.NewTestDB(t)
	proj := setupProject(t, db)
	repo := NewSQLiteMilestoneRepo(db)
	ctx := context.Background()

	rec := testutil.NewTestMilestoneRecord(proj.ID, "Someday", testutil.WithHidden())
	require.NoError(t, repo.Create(ctx, rec))

	var scheduledAt, reachedAt int64
	require.NoError(t, db.QueryRow(`SELECT scheduled_at, reached_at FROM milestones WHERE id = ?`, rec.ID).
		Scan(&scheduledAt, &reachedAt))
	assert.Zero(t, scheduledAt)
	assert.Zero(t, reachedAt)

	got, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, got.ScheduledAt.IsZero())
	assert.False(t, got.Visible)
}

func TestMilestoneRepo_GetMissing(t *testing.T) {
	repo := NewSQLiteMilestoneRepo(testutil.NewTestDB(t))
	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMilestoneRepo_CreateForMissingProjectFails(t *testing.T) {
	repo := NewSQLiteMilestoneRepo(testutil.NewTestDB(t))
	err := repo.Create(context.Background(), testutil.NewTestMilestoneRecord("no-such-project", "Orphan"))
	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestMilestoneRepo_Update(t *testing.T) {
	db := testutil.NewTestDB(t)
	proj := setupProject(t, db)
	repo := NewSQLiteMilestoneRepo(db)
	ctx := context.Background()

	reached := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	rec := testutil.NewTestMilestoneRecord(proj.ID, "Beta",
		testutil.WithScheduledAt(reached.AddDate(0, 1, 0)), testutil.WithReachedAt(reached))
	require.NoError(t, repo.Create(ctx, rec))

	rec.Name = "Beta 2"
	rec.ScheduledAt = time.Time{}
	rec.ReachedAt = time.Time{}
	rec.Visible = false
	require.NoError(t, repo.Update(ctx, rec))

	got, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Beta 2", got.Name)
	assert.False(t, got.Visible)
	assert.True(t, got.ScheduledAt.IsZero())
	assert.True(t, reached.Equal(got.ReachedAt), "update leaves reached_at alone")
}

func TestMilestoneRepo_UpdateMissing(t *testing.T) {
	repo := NewSQLiteMilestoneRepo(testutil.NewTestDB(t))
	err := repo.Update(context.Background(), testutil.NewTestMilestoneRecord("p", "ghost"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMilestoneRepo_MarkReached(t *testing.T) {
	db := testutil.NewTestDB(t)
	proj := setupProject(t, db)
	repo := NewSQLiteMilestoneRepo(db)
	ctx := context.Background()

	rec := testutil.NewTestMilestoneRecord(proj.ID, "GA")
	require.NoError(t, repo.Create(ctx, rec))

	at := time.Date(2026, 3, 3, 9, 30, 0, 0, time.UTC)
	require.NoError(t, repo.MarkReached(ctx, rec.ID, at))

	got, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, at.Equal(got.ReachedAt))

	assert.ErrorIs(t, repo.MarkReached(ctx, "missing", at), domain.ErrNotFound)
}

func TestMilestoneRepo_ListByProject(t *testing.T) {
	db := testutil.NewTestDB(t)
	proj := setupProject(t, db)
	other := setupProject(t, db)
	repo := NewSQLiteMilestoneRepo(db)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	late := testutil.NewTestMilestoneRecord(proj.ID, "Late", testutil.WithScheduledAt(base.AddDate(0, 2, 0)))
	early := testutil.NewTestMilestoneRecord(proj.ID, "Early", testutil.WithScheduledAt(base))
	unscheduled := testutil.NewTestMilestoneRecord(proj.ID, "Someday")
	foreign := testutil.NewTestMilestoneRecord(other.ID, "Elsewhere")
	for _, m := range []*domain.MilestoneRecord{late, unscheduled, early, foreign} {
		require.NoError(t, repo.Create(ctx, m))
	}

	list, err := repo.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	want := []string{late.ID, early.ID, unscheduled.ID}
	slices.Sort(want)
	assert.Equal(t, want, []string{list[0].ID, list[1].ID, list[2].ID})
}

func TestMilestoneRepo_ListUnreached(t *testing.T) {
	db := testutil.NewTestDB(t)
	proj := setupProject(t, db)
	repo := NewSQLiteMilestoneRepo(db)
	ctx := context.Background()

	open := testutil.NewTestMilestoneRecord(proj.ID, "Open")
	done := testutil.NewTestMilestoneRecord(proj.ID, "Done", testutil.WithReachedAt(time.Now()))
	require.NoError(t, repo.Create(ctx, open))
	require.NoError(t, repo.Create(ctx, done))

	list, err := repo.ListUnreached(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, open.ID, list[0].ID)
}

func TestMilestoneRepo_Delete(t *testing.T) {
	db := testutil.NewTestDB(t)
	proj := setupProject(t, db)
	repo := NewSQLiteMilestoneRepo(db)
	ctx := context.Background()

	rec := testutil.NewTestMilestoneRecord(proj.ID, "Gone")
	require.NoError(t, repo.Create(ctx, rec))
	require.NoError(t, repo.Delete(ctx, rec.ID))

	_, err := repo.GetByID(ctx, rec.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, rec.ID), domain.ErrNotFound)
}

func TestMilestoneRepo_EpochScheduledDateReadsAsUnscheduled(t *testing.T) {
	db := testutil.NewTestDB(t)
	proj := setupProject(t, db)
	repo := NewSQLiteMilestoneRepo(db)
	ctx := context.Background()

	rec := testutil.NewTestMilestoneRecord(proj.ID, "Epoch", testutil.WithScheduledAt(time.Unix(0, 0).UTC()))
	require.NoError(t, repo.Create(ctx, rec))

	got, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, got.ScheduledAt.IsZero(), "0 is the unset sentinel")
}
