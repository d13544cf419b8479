package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-signing-secret"

func TestSignAndVerifyRoundTrip(t *testing.T) {
	token, err := Sign("65f0c2e1a4b3d2c1e0f9a8b7", "customer", testSecret)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := Verify(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "65f0c2e1a4b3d2c1e0f9a8b7", claims.UserID)
	assert.Equal(t, "customer", claims.Role)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := Sign("user-id", "admin", testSecret)
	require.NoError(t, err)

	claims, err := Verify(token, "a-different-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}

func TestVerifyRejectsMalformedToken(t *testing.T) {
	claims, err := Verify("not-a-jwt", testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	expired := Claims{
		UserID: "user-id",
		Role:   "customer",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-8 * 24 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-24 * time.Hour)),
		},
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expired).SignedString([]byte(testSecret))
	require.NoError(t, err)

	claims, err := Verify(tokenString, testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}

func TestVerifyRejectsUnexpectedSigningMethod(t *testing.T) {
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "user-id"})
	tokenString, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	claims, err := Verify(tokenString, testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}

func TestTokenCarriesSevenDayExpiry(t *testing.T) {
	token, err := Sign("user-id", "customer", testSecret)
	require.NoError(t, err)

	claims, err := Verify(token, testSecret)
	require.NoError(t, err)

	remaining := time.Until(claims.ExpiresAt.Time)
	assert.Greater(t, remaining, 6*24*time.Hour)
	assert.LessOrEqual(t, remaining, 7*24*time.Hour)
}
