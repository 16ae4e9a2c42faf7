// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/recipevault/recipevault/internal/auth"
	"github.com/recipevault/recipevault/internal/model"
	"github.com/recipevault/recipevault/internal/repository"
)

// ErrKeyGenerationExhausted is returned when key generation keeps
// colliding with existing keys. Surfaced to callers as an internal error.
var ErrKeyGenerationExhausted = errors.New("failed to generate unique API key after retries")

// maxKeyAttempts bounds regeneration retries on key value collisions.
const maxKeyAttempts = 3

// KeyStore is the persistence surface the API key service needs.
// *repository.Repository satisfies it.
type KeyStore interface {
	GetAPIKeyByUserID(ctx context.Context, userID string) (*model.APIKey, error)
	CreateAPIKey(ctx context.Context, key *model.APIKey) error
	ReplaceAPIKey(ctx context.Context, key *model.APIKey) (*model.APIKey, error)
}

// APIKeyService handles API key issuance and rotation.
type APIKeyService struct {
	store KeyStore
}

// NewAPIKeyService creates a new APIKeyService.
func NewAPIKeyService(store KeyStore) *APIKeyService {
	return &APIKeyService{store: store}
}

// GetOrIssueKey returns the user's API key, lazily creating one on
// first call. Repeated calls before any regenerate return the same key:
// if a concurrent call wins the initial insert, this call reads back
// and returns the winner's key instead of erroring.
func (s *APIKeyService) GetOrIssueKey(ctx context.Context, userID string) (string, error) {
	existing, err := s.store.GetAPIKeyByUserID(ctx, userID)
	if err == nil {
		return existing.Key, nil
	}
	if !errors.Is(err, repository.ErrAPIKeyNotFound) {
		return "", fmt.Errorf("lookup API key: %w", err)
	}

	for attempt := 0; attempt < maxKeyAttempts; attempt++ {
		key, err := auth.GenerateAPIKey()
		if err != nil {
			return "", fmt.Errorf("generate API key: %w", err)
		}

		record := &model.APIKey{
			ID:        ulid.Make().String(),
			UserID:    userID,
			Key:       key,
			CreatedAt: time.Now().UTC(),
		}

		err = s.store.CreateAPIKey(ctx, record)
		switch {
		case err == nil:
			return key, nil
		case errors.Is(err, repository.ErrDuplicateAPIKeyUser):
			// Lost the insert race: another request already issued a
			// key for this user. Return theirs.
			winner, err := s.store.GetAPIKeyByUserID(ctx, userID)
			if err != nil {
				return "", fmt.Errorf("read back API key after insert race: %w", err)
			}
			return winner.Key, nil
		case errors.Is(err, repository.ErrDuplicateAPIKey):
			// Key value collided with another user's key. Regenerate.
			continue
		default:
			return "", fmt.Errorf("create API key: %w", err)
		}
	}

	return "", ErrKeyGenerationExhausted
}

// RegenerateKey replaces the user's key with a freshly generated value,
// creating the record if the user never fetched a key before. The
// previous key becomes invalid immediately; concurrent regenerations
// resolve to a single final key (last writer wins).
func (s *APIKeyService) RegenerateKey(ctx context.Context, userID string) (string, error) {
	for attempt := 0; attempt < maxKeyAttempts; attempt++ {
		key, err := auth.GenerateAPIKey()
		if err != nil {
			return "", fmt.Errorf("generate API key: %w", err)
		}

		record := &model.APIKey{
			ID:        ulid.Make().String(),
			UserID:    userID,
			Key:       key,
			CreatedAt: time.Now().UTC(),
		}

		replaced, err := s.store.ReplaceAPIKey(ctx, record)
		switch {
		case err == nil:
			return replaced.Key, nil
		case errors.Is(err, repository.ErrDuplicateAPIKey):
			continue
		default:
			return "", fmt.Errorf("replace API key: %w", err)
		}
	}

	return "", ErrKeyGenerationExhausted
}
