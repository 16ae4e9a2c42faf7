package model

import "time"

// Identity holds the verified claims of an authenticated request.
// It is produced per request by the token verifier and never persisted.
type Identity struct {
	// SubjectID is the stable account identifier asserted by the
	// identity provider ("sub" claim).
	SubjectID string
	// Email is used only for the admin-equality check.
	Email         string
	EmailVerified bool
	// ExpiresAt is the token's own expiry. Cached identities must not
	// outlive it.
	ExpiresAt time.Time
}

// IsAdmin reports whether this identity matches the configured admin email.
// The comparison is exact and case-sensitive.
func (i *Identity) IsAdmin(adminEmail string) bool {
	return adminEmail != "" && i.Email == adminEmail
}
