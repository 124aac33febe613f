package users

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/medguide/internal/client/storage"
	"github.com/dmitrijs2005/medguide/internal/common"
)

// SQLiteRepository reads and writes the users table through the storage
// adapter, so it works against either driver generation the adapter
// supports.
type SQLiteRepository struct {
	store *storage.Store
}

func NewSQLiteRepository(store *storage.Store) *SQLiteRepository {
	return &SQLiteRepository{store: store}
}

func (r *SQLiteRepository) EnsureSchema(ctx context.Context) error {
	err := r.store.Run(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT UNIQUE NOT NULL,
			password TEXT NOT NULL,
			full_name TEXT,
			is_staff INTEGER DEFAULT 0,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`)
	if err != nil {
		return fmt.Errorf("failed to ensure users schema: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) FindByEmail(ctx context.Context, email string) (*Row, error) {
	rows, err := r.store.Query(ctx, `
		SELECT id, email, password, full_name, is_staff, created_at
		FROM users
		WHERE email = ?`, email)
	if err != nil {
		return nil, fmt.Errorf("failed to query user by email: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to iterate user rows: %w", err)
		}
		return nil, common.ErrNotFound
	}

	var (
		row      Row
		fullName *string
		isStaff  int64
		created  *string
	)
	if err := rows.Scan(&row.ID, &row.Email, &row.Password, &fullName, &isStaff, &created); err != nil {
		return nil, fmt.Errorf("failed to scan user row: %w", err)
	}
	if fullName != nil {
		row.FullName = *fullName
	}
	if created != nil {
		row.CreatedAt = *created
	}
	row.IsStaff = isStaff != 0

	return &row, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, email, passwordHash, fullName string, isStaff bool) error {
	staff := 0
	if isStaff {
		staff = 1
	}
	err := r.store.Run(ctx, `
		INSERT INTO users (email, password, full_name, is_staff)
		VALUES (?, ?, ?, ?)`, email, passwordHash, fullName, staff)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}
