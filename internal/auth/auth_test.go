package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	InitializeJWT("0123456789abcdef0123456789abcdef")
	require.True(t, Initialized())

	token, err := GenerateToken(42, "alice")
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	InitializeJWT("0123456789abcdef0123456789abcdef")
	token, err := GenerateToken(1, "alice")
	require.NoError(t, err)

	InitializeJWT("fedcba9876543210fedcba9876543210")
	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_RejectsNoneAlgorithm(t *testing.T) {
	InitializeJWT("0123456789abcdef0123456789abcdef")

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, JWTClaims{UserID: 1})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestUninitialized(t *testing.T) {
	InitializeJWT("")
	assert.False(t, Initialized())

	_, err := GenerateToken(1, "alice")
	assert.Error(t, err)
	_, err = ValidateToken("x")
	assert.Error(t, err)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("correct")
	require.NoError(t, err)
	assert.NotEqual(t, "correct", hash)

	assert.NoError(t, VerifyPassword("correct", hash))
	assert.Error(t, VerifyPassword("wrong", hash))
}
