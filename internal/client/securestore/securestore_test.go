package securestore

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/medguide/internal/client/repositories/kvstore"
	"github.com/dmitrijs2005/medguide/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setup(t *testing.T) (*SecureStore, kvstore.Repository, string) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	kv := kvstore.NewSQLiteRepository(db)
	require.NoError(t, kv.EnsureSchema(context.Background()))

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	secretPath := filepath.Join(t.TempDir(), "install.secret")

	s, err := New(kv, secretPath, log)
	require.NoError(t, err)
	return s, kv, secretPath
}

func TestPassword_RoundTrip(t *testing.T) {
	s, kv, _ := setup(t)
	ctx := context.Background()

	require.NoError(t, s.SetPassword(ctx, "Secret1"))

	got, err := s.GetPassword(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Secret1", got)

	// the kv table must not hold the plaintext
	stored, err := kv.Get(ctx, "@medguide_user_password")
	require.NoError(t, err)
	assert.NotEmpty(t, stored)
	assert.NotContains(t, stored, "Secret1")
}

func TestGetPassword_AbsentIsEmpty(t *testing.T) {
	s, _, _ := setup(t)

	got, err := s.GetPassword(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestRemovePassword(t *testing.T) {
	s, _, _ := setup(t)
	ctx := context.Background()

	require.NoError(t, s.SetPassword(ctx, "p"))
	require.NoError(t, s.RemovePassword(ctx))

	got, err := s.GetPassword(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestNew_ReusesInstallSecret(t *testing.T) {
	s, kv, secretPath := setup(t)
	ctx := context.Background()

	require.NoError(t, s.SetPassword(ctx, "persisted"))

	// a second store over the same secret file must unseal the value
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	again, err := New(kv, secretPath, log)
	require.NoError(t, err)

	got, err := again.GetPassword(ctx)
	require.NoError(t, err)
	assert.Equal(t, "persisted", got)
}

func TestNew_RejectsTruncatedSecret(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	kv := kvstore.NewSQLiteRepository(db)
	require.NoError(t, kv.EnsureSchema(context.Background()))

	secretPath := filepath.Join(t.TempDir(), "install.secret")
	require.NoError(t, os.WriteFile(secretPath, []byte("short"), 0o600))

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err = New(kv, secretPath, log)
	require.Error(t, err)
}

func TestBiometricFlag(t *testing.T) {
	s, _, _ := setup(t)
	ctx := context.Background()

	enabled, err := s.BiometricEnabled(ctx)
	require.NoError(t, err)
	assert.False(t, enabled)

	require.NoError(t, s.SetBiometricEnabled(ctx, true))
	enabled, err = s.BiometricEnabled(ctx)
	require.NoError(t, err)
	assert.True(t, enabled)

	require.NoError(t, s.SetBiometricEnabled(ctx, false))
	enabled, err = s.BiometricEnabled(ctx)
	require.NoError(t, err)
	assert.False(t, enabled)
}
