// Package model defines domain entities for the application.
package model

import "time"

// APIKey is the single programmatic-access key owned by a user.
// At most one record exists per user; regeneration replaces the key
// value in place rather than creating a second record.
type APIKey struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Key       string     `json:"-"` // Secret - returned only through the key endpoints
	CreatedAt time.Time  `json:"created_at"`
	RotatedAt *time.Time `json:"rotated_at,omitempty"`
}

// IsRotated reports whether the key has been regenerated at least once.
func (k *APIKey) IsRotated() bool {
	return k.RotatedAt != nil
}
