package jwtutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	j := NewJWTUtil(&JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})

	token, err := j.GenerateToken("alice@example.com", "user-1", "Alice", "user")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := j.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "Alice", claims.Name)
	assert.Equal(t, "user", claims.Role)
}

func TestValidateTokenWrongKey(t *testing.T) {
	issuer := NewJWTUtil(&JWTConfig{SigningKey: "key-a", ExpirationHours: 1})
	verifier := NewJWTUtil(&JWTConfig{SigningKey: "key-b", ExpirationHours: 1})

	token, err := issuer.GenerateToken("alice@example.com", "user-1", "Alice", "user")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	j := NewJWTUtil(&JWTConfig{SigningKey: "test-signing-key", ExpirationHours: -1})

	token, err := j.GenerateToken("alice@example.com", "user-1", "Alice", "user")
	require.NoError(t, err)

	_, err = j.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	j := NewJWTUtil(&JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})

	_, err := j.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestMissingConfig(t *testing.T) {
	j := NewJWTUtil(nil)

	_, err := j.GenerateToken("alice@example.com", "user-1", "Alice", "user")
	assert.Error(t, err)

	_, err = j.ValidateToken("anything")
	assert.Error(t, err)
}
