package util

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunthewhat/multisign-api/common"
	"github.com/sunthewhat/multisign-api/type/shared"
)

func setTestJWTSecret(t *testing.T, secret string) {
	t.Helper()
	previous := common.Config
	common.Config = &shared.Config{JWTSecret: &secret}
	t.Cleanup(func() {
		common.Config = previous
	})
}

func TestAuthToken_RoundTrip(t *testing.T) {
	setTestJWTSecret(t, "test-secret")

	token, err := GenerateAuthToken("user123@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := DecodeAuthToken(token)
	require.NoError(t, err)
	require.NotNil(t, claims.UserId)
	assert.Equal(t, "user123@example.com", *claims.UserId)
	assert.True(t, claims.ExpiresAt.After(time.Now()), "token should not be issued expired")
}

func TestDecodeAuthToken_RejectsWrongSecret(t *testing.T) {
	setTestJWTSecret(t, "secret-one")
	token, err := GenerateAuthToken("user123@example.com")
	require.NoError(t, err)

	setTestJWTSecret(t, "secret-two")
	_, err = DecodeAuthToken(token)
	assert.Error(t, err, "a token signed under another secret must not decode")
}

func TestDecodeAuthToken_RejectsGarbage(t *testing.T) {
	setTestJWTSecret(t, "test-secret")

	_, err := DecodeAuthToken("not.a.token")
	assert.Error(t, err)
}

func TestDecodeAuthToken_RejectsWrongSigningMethod(t *testing.T) {
	setTestJWTSecret(t, "test-secret")

	// Unsigned token: alg "none" must be refused by the HMAC method check.
	userId := "user123@example.com"
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &shared.UserClaims{UserId: &userId})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = DecodeAuthToken(token)
	assert.Error(t, err)
}

func TestDecodeAuthToken_RejectsExpired(t *testing.T) {
	setTestJWTSecret(t, "test-secret")

	userId := "user123@example.com"
	claims := &shared.UserClaims{
		UserId: &userId,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = DecodeAuthToken(token)
	assert.Error(t, err, "an expired token must not decode")
}
