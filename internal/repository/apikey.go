package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/recipevault/recipevault/internal/model"
)

// Common errors for API key repository operations.
var (
	ErrAPIKeyNotFound = errors.New("API key not found")
	// ErrDuplicateAPIKeyUser indicates a record for this user already
	// exists; the caller lost an insert race.
	ErrDuplicateAPIKeyUser = errors.New("API key already exists for user")
	// ErrDuplicateAPIKey indicates the generated key value collides with
	// another user's key. Callers retry generation on this error.
	ErrDuplicateAPIKey = errors.New("API key value already in use")
)

// Unique constraint names from migrations/000001_api_keys.up.sql.
const (
	apiKeyUserConstraint = "api_keys_user_id_key"
	apiKeyKeyConstraint  = "api_keys_key_key"
)

// GetAPIKeyByUserID retrieves the key record owned by a user.
func (r *Repository) GetAPIKeyByUserID(ctx context.Context, userID string) (*model.APIKey, error) {
	query := `
		SELECT id, user_id, key, created_at, rotated_at
		FROM api_keys
		WHERE user_id = $1
	`

	key, err := scanAPIKey(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAPIKeyNotFound
		}
		return nil, fmt.Errorf("failed to get API key by user: %w", err)
	}

	return key, nil
}

// CreateAPIKey inserts a new API key record. Fails with
// ErrDuplicateAPIKeyUser if the user already has one, and with
// ErrDuplicateAPIKey if the key value itself collides.
func (r *Repository) CreateAPIKey(ctx context.Context, key *model.APIKey) error {
	query := `
		INSERT INTO api_keys (id, user_id, key, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query,
		key.ID,
		key.UserID,
		key.Key,
		key.CreatedAt,
	)

	if err != nil {
		switch uniqueViolationConstraint(err) {
		case apiKeyUserConstraint:
			return ErrDuplicateAPIKeyUser
		case apiKeyKeyConstraint:
			return ErrDuplicateAPIKey
		}
		return fmt.Errorf("failed to create API key: %w", err)
	}

	return nil
}

// ReplaceAPIKey atomically sets the user's key to key.Key, creating the
// record if absent. The single INSERT ... ON CONFLICT statement keeps
// the one-record-per-user invariant under concurrent calls: the store
// commits exactly one final record (last writer wins). Returns the
// final row. Fails with ErrDuplicateAPIKey on a key value collision.
func (r *Repository) ReplaceAPIKey(ctx context.Context, key *model.APIKey) (*model.APIKey, error) {
	query := `
		INSERT INTO api_keys (id, user_id, key, created_at, rotated_at)
		VALUES ($1, $2, $3, $4, NULL)
		ON CONFLICT (user_id) DO UPDATE
		SET key = EXCLUDED.key, rotated_at = $5
		RETURNING id, user_id, key, created_at, rotated_at
	`

	replaced, err := scanAPIKey(r.pool.QueryRow(ctx, query,
		key.ID,
		key.UserID,
		key.Key,
		key.CreatedAt,
		key.CreatedAt,
	))

	if err != nil {
		if uniqueViolationConstraint(err) == apiKeyKeyConstraint {
			return nil, ErrDuplicateAPIKey
		}
		return nil, fmt.Errorf("failed to replace API key: %w", err)
	}

	return replaced, nil
}

// scanAPIKey scans a single row into an APIKey model.
func scanAPIKey(row pgx.Row) (*model.APIKey, error) {
	var key model.APIKey

	err := row.Scan(
		&key.ID,
		&key.UserID,
		&key.Key,
		&key.CreatedAt,
		&key.RotatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &key, nil
}
