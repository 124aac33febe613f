package users

import (
	"context"
)

// Row is the users table row as stored, password hash included. It never
// leaves the credential service; callers receive the sanitized model from
// the service layer instead.
type Row struct {
	ID        int64
	Email     string
	Password  string
	FullName  string
	IsStaff   bool
	CreatedAt string
}

type Repository interface {
	// EnsureSchema idempotently creates the users table. Credential
	// operations call it before touching the table.
	EnsureSchema(ctx context.Context) error

	// FindByEmail returns the row for an exact email match, or
	// common.ErrNotFound when no row exists.
	FindByEmail(ctx context.Context, email string) (*Row, error)

	// Create inserts a new user row. The id, created_at pair is assigned
	// by the store.
	Create(ctx context.Context, email, passwordHash, fullName string, isStaff bool) error
}
