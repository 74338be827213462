package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/bugtrail/internal/domain"
	"github.com/alexanderramin/bugtrail/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectRepo_CreateAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	p := testutil.NewTestProject("Bug Tracker", testutil.WithKey("BUGS"))
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bug Tracker", got.Name)
	assert.Equal(t, "BUGS", got.Key)
	assert.True(t, p.CreatedAt.Equal(got.CreatedAt))

	byKey, err := repo.GetByKey(ctx, "bugs")
	require.NoError(t, err)
	assert.Equal(t, p.ID, byKey.ID)
}

func TestProjectRepo_GetMissing(t *testing.T) {
	repo := NewSQLiteProjectRepo(testutil.NewTestDB(t))

	_, err := repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.GetByKey(context.Background(), "NOPE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProjectRepo_DuplicateKeyIsPersistenceError(t *testing.T) {
	repo := NewSQLiteProjectRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestProject("One", testutil.WithKey("DUP"))))
	err := repo.Create(ctx, testutil.NewTestProject("Two", testutil.WithKey("DUP")))
	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestProjectRepo_ListOrderedByKey(t *testing.T) {
	repo := NewSQLiteProjectRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestProject("Zed", testutil.WithKey("ZED"))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestProject("Alpha", testutil.WithKey("ALPHA"))))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "ALPHA", list[0].Key)
	assert.Equal(t, "ZED", list[1].Key)
}
