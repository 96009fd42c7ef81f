// ABOUTME: SQLite persistence for user accounts and API key fingerprints
// ABOUTME: Lookups by id, email and fingerprint plus soft revocation

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const userColumns = `id, name, email, api_key_hash, role, created_at, updated_at`

// CreateUser inserts a new user. CreatedAt/UpdatedAt are filled in when zero.
func (s *SQLiteStore) CreateUser(ctx context.Context, u *User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.clock()
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = u.CreatedAt
	}
	if u.Role == "" {
		u.Role = RoleUser
	}

	query := `
		INSERT INTO users (id, name, email, api_key_hash, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		u.ID,
		u.Name,
		u.Email,
		nullString(u.APIKeyHash),
		string(u.Role),
		u.CreatedAt.UTC().Format(timeLayout),
		u.UpdatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		switch {
		case constraintColumn(err, "users", "email"):
			return ErrDuplicateEmail
		case constraintColumn(err, "users", "api_key_hash"):
			return ErrDuplicateAPIKey
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	s.logger.Debug("created user", "id", u.ID, "role", u.Role)
	return nil
}

// GetUser retrieves a user by ID.
func (s *SQLiteStore) GetUser(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByEmail retrieves a user by exact email.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// GetUserByAPIKeyHash retrieves the user holding the given fingerprint.
// Revoked users never match because their fingerprint is NULL.
func (s *SQLiteStore) GetUserByAPIKeyHash(ctx context.Context, hash string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE api_key_hash = ?`, hash)
	return scanUser(row)
}

// RevokeAPIKey sets the user's fingerprint to NULL.
func (s *SQLiteStore) RevokeAPIKey(ctx context.Context, userID string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET api_key_hash = NULL, updated_at = ? WHERE id = ?`,
		s.timestamp(), userID,
	)
	if err != nil {
		return fmt.Errorf("revoking api key: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	s.logger.Info("revoked api key", "user_id", userID)
	return nil
}

// CountUsers returns the number of user rows, revoked ones included.
func (s *SQLiteStore) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return n, nil
}

func scanUser(row rowScanner) (*User, error) {
	var u User
	var hash sql.NullString
	var role, createdAt, updatedAt string

	err := row.Scan(&u.ID, &u.Name, &u.Email, &hash, &role, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning user: %w", err)
	}

	u.APIKeyHash = stringPtr(hash)
	if u.Role, err = ParseRole(role); err != nil {
		return nil, err
	}
	if u.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
