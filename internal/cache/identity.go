package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/recipevault/recipevault/internal/model"
)

const (
	// identityCachePrefix is the Redis key prefix for verified identities.
	identityCachePrefix = "auth:identity:"
	// identityCacheTTL is the maximum time-to-live for a cached identity.
	// The effective TTL is always capped at the token's own expiry.
	identityCacheTTL = 5 * time.Minute
)

// cachedIdentity is the Redis representation of a verified identity.
type cachedIdentity struct {
	SubjectID     string    `json:"subject_id"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"email_verified"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// GetIdentity retrieves a cached verified identity by token hash.
// Returns nil on a miss; an expired entry is treated as a miss, since
// the token it was verified from is no longer valid.
func (c *Cache) GetIdentity(ctx context.Context, tokenHash string) (*model.Identity, error) {
	key := identityCachePrefix + tokenHash

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		// Cache miss is not an error
		return nil, nil //nolint:nilerr
	}

	var cached cachedIdentity
	if err := json.Unmarshal(data, &cached); err != nil {
		// Corrupted cache entry - treat as miss
		return nil, nil //nolint:nilerr
	}

	if !time.Now().Before(cached.ExpiresAt) {
		return nil, nil
	}

	return &model.Identity{
		SubjectID:     cached.SubjectID,
		Email:         cached.Email,
		EmailVerified: cached.EmailVerified,
		ExpiresAt:     cached.ExpiresAt,
	}, nil
}

// SetIdentity caches a verified identity keyed by token hash. The entry
// expires with the token if that happens sooner than the default TTL;
// identities from already-expired tokens are not cached at all.
func (c *Cache) SetIdentity(ctx context.Context, tokenHash string, id *model.Identity) error {
	ttl := identityTTL(id.ExpiresAt, time.Now())
	if ttl <= 0 {
		return nil
	}

	cached := cachedIdentity{
		SubjectID:     id.SubjectID,
		Email:         id.Email,
		EmailVerified: id.EmailVerified,
		ExpiresAt:     id.ExpiresAt,
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}

	return c.client.Set(ctx, identityCachePrefix+tokenHash, data, ttl).Err()
}

// identityTTL returns how long a verified identity may stay cached:
// the default TTL, capped at the token's remaining validity.
func identityTTL(expiresAt, now time.Time) time.Duration {
	remaining := expiresAt.Sub(now)
	if remaining < identityCacheTTL {
		return remaining
	}
	return identityCacheTTL
}
