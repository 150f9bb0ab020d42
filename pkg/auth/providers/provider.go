// Package providers verifies login credentials for the game server's control
// channel and the HTTP character API.
package providers

import (
	"context"
	"fmt"
)

// AuthProvider verifies a client-supplied ID token and resolves it to claims.
type AuthProvider interface {
	VerifyToken(ctx context.Context, idToken string) (*TokenClaims, error)
}

// TokenClaims carries the verified identity of a logged-in user.
type TokenClaims struct {
	// UID keys the users table and scopes character ownership.
	UID string `json:"uid"`
}

// NewProviderOptions selects which provider New builds.
type NewProviderOptions struct {
	// Local selects the development provider that skips real verification.
	Local             bool
	FirebaseProjectID string
	FirebaseAPIKey    string
}

// New builds the auth provider the servers share. Firebase is the default;
// the local provider is opt-in for development.
func New(ctx context.Context, opts NewProviderOptions) (AuthProvider, error) {
	if opts.Local {
		return NewLocalAuthProvider(), nil
	}
	if opts.FirebaseProjectID == "" {
		return nil, fmt.Errorf("firebase project ID is required")
	}
	if opts.FirebaseAPIKey == "" {
		return nil, fmt.Errorf("firebase API key is required")
	}
	return NewFirebaseAuthProvider(ctx, opts.FirebaseProjectID, opts.FirebaseAPIKey)
}
