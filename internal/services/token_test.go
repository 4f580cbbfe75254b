package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTokenIssueAndVerify(t *testing.T) {
	svc := NewTokenService("test-secret")
	issuedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = fixedClock(issuedAt)

	token, err := svc.Issue(Claims{Email: "rahim@example.com", Name: "Rahim"})
	require.NoError(t, err)

	svc.now = fixedClock(issuedAt.Add(59 * time.Minute))
	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "rahim@example.com", claims.Email)
	assert.Equal(t, "Rahim", claims.Name)
	assert.Equal(t, issuedAt.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestTokenVerifyRejectsExpired(t *testing.T) {
	svc := NewTokenService("test-secret")
	issuedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = fixedClock(issuedAt)

	token, err := svc.Issue(Claims{Email: "rahim@example.com"})
	require.NoError(t, err)

	svc.now = fixedClock(issuedAt.Add(time.Hour + time.Second))
	_, err = svc.Verify(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestTokenVerifyRejectsTampering(t *testing.T) {
	svc := NewTokenService("test-secret")
	token, err := svc.Issue(Claims{Email: "rahim@example.com"})
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	t.Run("signature", func(t *testing.T) {
		sig := []byte(parts[2])
		if sig[0] == 'A' {
			sig[0] = 'B'
		} else {
			sig[0] = 'A'
		}
		_, err := svc.Verify(parts[0] + "." + parts[1] + "." + string(sig))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other secret", func(t *testing.T) {
		_, err := NewTokenService("another-secret").Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := svc.Verify("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
		_, err = svc.Verify("")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestTokenVerifyRejectsOtherAlgorithms(t *testing.T) {
	claims := &Claims{
		Email: "rahim@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenService("test-secret").Verify(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenVerifyRequiresExpiry(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{Email: "rahim@example.com"}).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = NewTokenService("test-secret").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssueRequiresEmail(t *testing.T) {
	_, err := NewTokenService("test-secret").Issue(Claims{Email: "  "})
	assert.Error(t, err)
}
