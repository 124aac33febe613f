package users

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/medguide/internal/client/storage"
	"github.com/dmitrijs2005/medguide/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	store, err := storage.New(db)
	require.NoError(t, err)

	r := NewSQLiteRepository(store)
	require.NoError(t, r.EnsureSchema(context.Background()))
	return r
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	r := setupRepo(t)
	// setup already ran it once; repeated calls must not fail
	require.NoError(t, r.EnsureSchema(context.Background()))
	require.NoError(t, r.EnsureSchema(context.Background()))
}

func TestCreateAndFindByEmail(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, "a@x.com", "digest:salt1234", "Alice", true))

	row, err := r.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", row.Email)
	assert.Equal(t, "digest:salt1234", row.Password)
	assert.Equal(t, "Alice", row.FullName)
	assert.True(t, row.IsStaff)
	assert.Positive(t, row.ID)
	assert.NotEmpty(t, row.CreatedAt)
}

func TestFindByEmail_NotFound(t *testing.T) {
	r := setupRepo(t)

	_, err := r.FindByEmail(context.Background(), "absent@x.com")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestFindByEmail_ExactCaseMatch(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, "User@X.com", "d:s", "", false))

	_, err := r.FindByEmail(ctx, "user@x.com")
	require.ErrorIs(t, err, common.ErrNotFound)

	row, err := r.FindByEmail(ctx, "User@X.com")
	require.NoError(t, err)
	assert.Equal(t, "User@X.com", row.Email)
}

func TestCreate_DuplicateEmailViolatesConstraint(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, "dup@x.com", "d:s", "", false))

	// the UNIQUE constraint is the last line of defense against racing
	// registrations; a second insert must fail at the store level
	err := r.Create(ctx, "dup@x.com", "d2:s2", "", false)
	require.Error(t, err)
	require.NotErrorIs(t, err, common.ErrEmailExists)
}

func TestCreate_AssignsMonotonicIDs(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, "one@x.com", "d:s", "", false))
	require.NoError(t, r.Create(ctx, "two@x.com", "d:s", "", false))

	first, err := r.FindByEmail(ctx, "one@x.com")
	require.NoError(t, err)
	second, err := r.FindByEmail(ctx, "two@x.com")
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)
}
