// Package services contains the application services of the medguide
// client core: local credential management (register/login against the
// on-device users table) and bearer-token session management.
package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/medguide/internal/client/repositories/users"
	"github.com/dmitrijs2005/medguide/internal/common"
	"github.com/dmitrijs2005/medguide/internal/cryptox"
	"github.com/dmitrijs2005/medguide/internal/logging"
)

// User is the sanitized user record returned to the UI. It never carries
// the stored password hash.
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	IsStaff  bool   `json:"is_staff"`
}

// AuthService registers and authenticates users against the local users
// table. Expected outcomes (ErrEmailExists, ErrUserNotFound,
// ErrWrongPassword) are returned as sentinel errors for the UI to map to
// messages; infrastructure failures are logged with operation context and
// returned unchanged.
//
// Two registrations racing on the same email are not serialized here: the
// UNIQUE constraint on users.email is the last line of defense, and the
// losing insert surfaces as an infrastructure error, not ErrEmailExists.
type AuthService struct {
	users users.Repository
	log   logging.Logger
}

func NewAuthService(repo users.Repository, log logging.Logger) *AuthService {
	return &AuthService{users: repo, log: log}
}

func sanitize(row *users.Row) *User {
	return &User{
		ID:       row.ID,
		Email:    row.Email,
		FullName: row.FullName,
		IsStaff:  row.IsStaff,
	}
}

// fail logs an unexpected failure with its operation context and returns
// the original error unchanged so callers can still match it structurally.
func (s *AuthService) fail(ctx context.Context, op, email string, err error) error {
	s.log.Error(ctx, "auth operation failed", "op", op, "email", email, "error", err)
	return err
}

// Register creates a new local user. The duplicate check runs before any
// hashing so a taken email costs no cryptographic work, and the inserted
// row is read back to return the store-assigned id.
func (s *AuthService) Register(ctx context.Context, email, password, fullName string, isStaff bool) (*User, error) {
	const op = "register"

	if err := s.users.EnsureSchema(ctx); err != nil {
		return nil, s.fail(ctx, op, email, err)
	}

	s.log.Info(ctx, "attempting user registration", "email", email)

	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		s.log.Warn(ctx, "registration failed: email already exists", "email", email)
		return nil, common.ErrEmailExists
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, s.fail(ctx, op, email, err)
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, s.fail(ctx, op, email, err)
	}

	if err := s.users.Create(ctx, email, hash, fullName, isStaff); err != nil {
		return nil, s.fail(ctx, op, email, err)
	}

	row, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, common.ErrNotFound) {
		return nil, s.fail(ctx, op, email, common.ErrRegistrationReadback)
	}
	if err != nil {
		return nil, s.fail(ctx, op, email, err)
	}

	s.log.Info(ctx, "user registered", "user_id", row.ID, "email", row.Email)
	return sanitize(row), nil
}

// Login verifies email/password against the stored hash. A stored hash
// that fails the "digest:salt" shape is treated as a wrong password, never
// as a crash: corrupt credentials fail closed.
func (s *AuthService) Login(ctx context.Context, email, password string) (*User, error) {
	const op = "login"

	if err := s.users.EnsureSchema(ctx); err != nil {
		return nil, s.fail(ctx, op, email, err)
	}

	s.log.Info(ctx, "attempting user login", "email", email)

	row, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, common.ErrNotFound) {
		s.log.Warn(ctx, "login failed: user not found", "email", email)
		return nil, common.ErrUserNotFound
	}
	if err != nil {
		return nil, s.fail(ctx, op, email, err)
	}

	if cryptox.MalformedHash(row.Password) {
		s.log.Warn(ctx, "stored password hash is malformed", "email", email, "user_id", row.ID)
		return nil, common.ErrWrongPassword
	}

	if !cryptox.VerifyPassword(password, row.Password) {
		s.log.Warn(ctx, "login failed: wrong password", "email", email)
		return nil, common.ErrWrongPassword
	}

	s.log.Info(ctx, "user logged in", "user_id", row.ID, "email", row.Email)
	return sanitize(row), nil
}
