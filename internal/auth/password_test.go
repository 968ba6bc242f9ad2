package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSecretMatches(t *testing.T) {
	secret, err := NewSecret("correctpw", bcrypt.MinCost)
	require.NoError(t, err)

	require.True(t, secret.Matches("correctpw"))
	require.False(t, secret.Matches("wrongpw"))
	require.False(t, secret.Matches(""))
}

func TestNewSecretRejectsEmptyPassword(t *testing.T) {
	_, err := NewSecret("", bcrypt.MinCost)
	require.ErrorIs(t, err, ErrEmptyPassword)
}

func TestNilSecretNeverMatches(t *testing.T) {
	var secret *Secret
	require.False(t, secret.Matches("anything"))
}
