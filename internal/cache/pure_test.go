package cache

import (
	"testing"
	"time"
)

// Pure-function tests that need no Redis instance.

func TestIdentityTTL(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt time.Time
		want      time.Duration
	}{
		{
			name:      "long-lived token capped at default TTL",
			expiresAt: now.Add(1 * time.Hour),
			want:      identityCacheTTL,
		},
		{
			name:      "token expiring before default TTL caps the entry",
			expiresAt: now.Add(90 * time.Second),
			want:      90 * time.Second,
		},
		{
			name:      "token expiring exactly at default TTL",
			expiresAt: now.Add(identityCacheTTL),
			want:      identityCacheTTL,
		},
		{
			name:      "already expired token yields non-positive TTL",
			expiresAt: now.Add(-1 * time.Minute),
			want:      -1 * time.Minute,
		},
		{
			name:      "token expiring now yields zero TTL",
			expiresAt: now,
			want:      0,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := identityTTL(tt.expiresAt, now); got != tt.want {
				t.Errorf("identityTTL() = %v, want %v", got, tt.want)
			}
		})
	}
}
