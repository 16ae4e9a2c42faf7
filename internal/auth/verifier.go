package auth

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/recipevault/recipevault/internal/model"
)

// TokenVerifier validates a raw bearer token and returns the verified
// identity. The "Bearer " scheme prefix must already be stripped by the
// caller. Implementations perform a network round trip to the identity
// provider's key material; verification failure is terminal for the
// request and is never retried.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*model.Identity, error)
}

// OIDCVerifier verifies ID tokens issued by an OpenID Connect provider.
// Construct once at startup and inject; it holds the provider's signing
// keys and refreshes them as needed.
type OIDCVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewOIDCVerifier discovers the provider configuration from issuerURL
// and returns a verifier bound to clientID.
func NewOIDCVerifier(ctx context.Context, issuerURL, clientID string) (*OIDCVerifier, error) {
	if issuerURL == "" {
		return nil, fmt.Errorf("OIDC issuer URL is required")
	}
	if clientID == "" {
		return nil, fmt.Errorf("OIDC client ID is required")
	}

	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("create OIDC provider: %w", err)
	}

	return &OIDCVerifier{
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

// Verify checks the token's signature, audience and expiry, and extracts
// the subject and email claims. No other claims are trusted.
func (v *OIDCVerifier) Verify(ctx context.Context, rawToken string) (*model.Identity, error) {
	idToken, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("verify id token: %w", err)
	}

	var claims struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("read claims: %w", err)
	}

	return &model.Identity{
		SubjectID:     idToken.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		ExpiresAt:     idToken.Expiry,
	}, nil
}
