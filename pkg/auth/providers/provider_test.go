package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Local(t *testing.T) {
	provider, err := New(context.Background(), NewProviderOptions{Local: true})
	require.NoError(t, err)
	assert.IsType(t, &LocalAuthProvider{}, provider)
}

func TestNew_FirebaseRequiresCredentials(t *testing.T) {
	_, err := New(context.Background(), NewProviderOptions{})
	assert.Error(t, err)

	_, err = New(context.Background(), NewProviderOptions{FirebaseProjectID: "p"})
	assert.Error(t, err)
}

func TestLocalAuthProvider_VerifyToken(t *testing.T) {
	provider := NewLocalAuthProvider()

	claims, err := provider.VerifyToken(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UID)

	_, err = provider.VerifyToken(context.Background(), "")
	assert.Error(t, err)
}
