package auth_test

import (
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/sweet-shop/internal/auth"
	"github.com/spec-kit/sweet-shop/internal/domain"
)

const testSecret = "test-secret-key-that-is-long-enough"

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := auth.NewTokenManager(testSecret, 60)

	t.Run("admin token verifies to the same identity", func(t *testing.T) {
		token, expiresAt, err := tm.Issue("alice@example.com", domain.RoleAdmin)
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.True(t, expiresAt.After(time.Now()))

		identity, err := tm.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", identity.Subject)
		assert.Equal(t, domain.RoleAdmin, identity.Role)
	})

	t.Run("user token carries the user role", func(t *testing.T) {
		token, _, err := tm.Issue("bob@example.com", domain.RoleUser)
		require.NoError(t, err)

		identity, err := tm.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "bob@example.com", identity.Subject)
		assert.Equal(t, domain.RoleUser, identity.Role)
	})

	t.Run("expiry is issued-at plus the configured window", func(t *testing.T) {
		short := auth.NewTokenManager(testSecret, 1)
		_, expiresAt, err := short.Issue("alice@example.com", domain.RoleUser)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(time.Minute), expiresAt, 5*time.Second)
	})
}

func TestTokenManager_Verify_Failures(t *testing.T) {
	tm := auth.NewTokenManager(testSecret, 60)

	t.Run("garbage string is malformed", func(t *testing.T) {
		_, err := tm.Verify("not-a-token")
		assert.ErrorIs(t, err, auth.ErrTokenMalformed)
	})

	t.Run("empty string is malformed", func(t *testing.T) {
		_, err := tm.Verify("")
		assert.ErrorIs(t, err, auth.ErrTokenMalformed)
	})

	t.Run("corrupted signature is rejected", func(t *testing.T) {
		token, _, err := tm.Issue("alice@example.com", domain.RoleAdmin)
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		tampered := parts[0] + "." + parts[1] + "." + flipChar(parts[2])

		_, verifyErr := tm.Verify(tampered)
		assert.Error(t, verifyErr)
		assert.NotErrorIs(t, verifyErr, auth.ErrTokenExpired)
	})

	t.Run("tampered payload fails signature check", func(t *testing.T) {
		token, _, err := tm.Issue("alice@example.com", domain.RoleUser)
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		tampered := parts[0] + "." + flipChar(parts[1]) + "." + parts[2]

		_, verifyErr := tm.Verify(tampered)
		assert.Error(t, verifyErr)
	})

	t.Run("token signed with another key is rejected", func(t *testing.T) {
		other := auth.NewTokenManager("completely-different-secret-value", 60)
		token, _, err := other.Issue("alice@example.com", domain.RoleAdmin)
		require.NoError(t, err)

		_, verifyErr := tm.Verify(token)
		assert.ErrorIs(t, verifyErr, auth.ErrTokenSignature)
	})

	t.Run("expired token is rejected as expired", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{
			"sub":  "alice@example.com",
			"role": string(domain.RoleAdmin),
			"iat":  time.Now().Add(-2 * time.Hour).Unix(),
			"exp":  time.Now().Add(-time.Hour).Unix(),
		})

		_, err := tm.Verify(token)
		assert.ErrorIs(t, err, auth.ErrTokenExpired)
	})

	t.Run("unknown role claim is malformed", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{
			"sub":  "alice@example.com",
			"role": "SUPERUSER",
			"exp":  time.Now().Add(time.Hour).Unix(),
		})

		_, err := tm.Verify(token)
		assert.ErrorIs(t, err, auth.ErrTokenMalformed)
	})

	t.Run("missing subject is malformed", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{
			"role": string(domain.RoleUser),
			"exp":  time.Now().Add(time.Hour).Unix(),
		})

		_, err := tm.Verify(token)
		assert.ErrorIs(t, err, auth.ErrTokenMalformed)
	})

	t.Run("unexpected signing method is rejected", func(t *testing.T) {
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"sub":  "alice@example.com",
			"role": string(domain.RoleAdmin),
			"exp":  time.Now().Add(time.Hour).Unix(),
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, verifyErr := tm.Verify(unsigned)
		assert.Error(t, verifyErr)
	})
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func flipChar(s string) string {
	b := []byte(s)
	if b[0] == 'A' {
		b[0] = 'B'
	} else {
		b[0] = 'A'
	}
	return string(b)
}
