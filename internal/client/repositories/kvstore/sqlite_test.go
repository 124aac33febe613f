package kvstore

import (
	"context"
	"database/sql"
	"testing"

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

	r := NewSQLiteRepository(db)
	require.NoError(t, r.EnsureSchema(context.Background()))
	return r
}

func TestSetAndGet(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k1", "v1"))

	v, err := r.Get(ctx, "k1")
	require.NoError(t, err)
	require.Equal(t, "v1", v)
}

func TestGet_AbsentKeyIsEmptyNoError(t *testing.T) {
	r := setupRepo(t)

	v, err := r.Get(context.Background(), "absent")
	require.NoError(t, err)
	require.Equal(t, "", v)
}

func TestSet_Upserts(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", "old"))
	require.NoError(t, r.Set(ctx, "k", "new"))

	v, err := r.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "new", v)
}

func TestRemove_Idempotent(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "x", "1"))
	require.NoError(t, r.Remove(ctx, "x"))

	v, err := r.Get(ctx, "x")
	require.NoError(t, err)
	require.Equal(t, "", v)

	require.NoError(t, r.Remove(ctx, "x"))
}

func TestMultiSetMultiGet(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, r.MultiSet(ctx, map[string]string{"a": "1", "b": "2"}))

	m, err := r.MultiGet(ctx, "a", "b", "missing")
	require.NoError(t, err)
	assert.Len(t, m, 2)
	assert.Equal(t, "1", m["a"])
	assert.Equal(t, "2", m["b"])
	_, ok := m["missing"]
	assert.False(t, ok)
}

func TestMultiRemove_RemovesAllListedKeys(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, r.MultiSet(ctx, map[string]string{"a": "1", "b": "2", "keep": "3"}))
	require.NoError(t, r.MultiRemove(ctx, "a", "b", "never-existed"))

	m, err := r.MultiGet(ctx, "a", "b", "keep")
	require.NoError(t, err)
	assert.Len(t, m, 1)
	assert.Equal(t, "3", m["keep"])
}

func TestClear(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, r.MultiSet(ctx, map[string]string{"a": "1", "b": "2"}))
	require.NoError(t, r.Clear(ctx))

	m, err := r.MultiGet(ctx, "a", "b")
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestOperations_DBErrorWrapped(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	r := NewSQLiteRepository(db)
	require.NoError(t, r.EnsureSchema(context.Background()))
	require.NoError(t, db.Close())

	ctx := context.Background()

	_, err = r.Get(ctx, "k")
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to get kv[k]")

	err = r.Set(ctx, "k", "v")
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to set kv[k]")

	err = r.Remove(ctx, "k")
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to remove kv[k]")
}
