package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cashtrackr/internal/models"
	"cashtrackr/internal/storage"
)

const userColumns = `id, name, email, password_hash, confirmed, action_kind, action_token, action_expires_at, created_at, updated_at`

// CreateUser inserts a new user into the database.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Confirmed,
		string(user.ActionKind),
		user.ActionToken,
		user.ActionExpiresAt,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByEmail retrieves a user by their email address.
// The email column uses the NOCASE collation, so the compare is
// case-insensitive.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = ?
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, email))
}

// GetUserByID retrieves a user by their ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = ?
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, id))
}

// GetUserByActionToken retrieves the user holding the given pending action token.
// The empty token never matches: cleared slots store '' and matching them
// would turn a consumed token into a wildcard.
func (s *SQLiteStore) GetUserByActionToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, storage.ErrNotFound
	}

	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE action_token = ?
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, token))
}

// UpdateUser persists changes to an existing user.
func (s *SQLiteStore) UpdateUser(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().Unix()

	query := `
		UPDATE users
		SET name = ?, email = ?, password_hash = ?, confirmed = ?,
		    action_kind = ?, action_token = ?, action_expires_at = ?, updated_at = ?
		WHERE id = ?
	`

	res, err := s.db.ExecContext(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Confirmed,
		string(user.ActionKind),
		user.ActionToken,
		user.ActionExpiresAt,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func (s *SQLiteStore) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var kind string

	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Confirmed,
		&kind,
		&user.ActionToken,
		&user.ActionExpiresAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.ActionKind = models.ActionKind(kind)
	return user, nil
}
