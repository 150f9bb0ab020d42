package providers

import (
	"context"
	"fmt"
)

var _ AuthProvider = &LocalAuthProvider{}

// LocalAuthProvider treats the token itself as the user ID.
// It exists for local development and must never run in production.
type LocalAuthProvider struct {
}

func NewLocalAuthProvider() *LocalAuthProvider {
	return &LocalAuthProvider{}
}

func (p *LocalAuthProvider) VerifyToken(ctx context.Context, idToken string) (*TokenClaims, error) {
	if idToken == "" {
		return nil, fmt.Errorf("empty token")
	}

	return &TokenClaims{
		UID: idToken,
	}, nil
}
