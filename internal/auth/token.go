package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/sweet-shop/internal/domain"
)

// Token verification failures. All of them collapse to the same message at
// the HTTP boundary; the distinction exists for diagnostics.
var (
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenSignature = errors.New("token signature invalid")
	ErrTokenExpired   = errors.New("token expired")
)

// Identity is the subject/role pair derived from a verified token. It is
// built once per request and projected from, never re-verified.
type Identity struct {
	Subject string
	Role    domain.Role
}

// TokenManager issues and verifies signed, expiring JWT credentials. The
// signing key and validity window are injected at construction; validity is
// a pure function of (claims, key, current time).
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a manager for the given secret and TTL.
func NewTokenManager(secret string, ttlMinutes int) *TokenManager {
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}
	return &TokenManager{secret: []byte(secret), ttl: time.Duration(ttlMinutes) * time.Minute}
}

// Claims describes the JWT payload.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TTL returns the configured validity window.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// Issue signs a token for the subject with an expiry of now + TTL.
func (tm *TokenManager) Issue(subject string, role domain.Role) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(tm.ttl)
	claims := &Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Verify checks signature and expiry and returns the embedded identity.
// Signature comparison is constant-time inside the jwt HMAC method.
func (tm *TokenManager) Verify(tokenStr string) (Identity, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, ErrTokenSignature
		}
		return tm.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Identity{}, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Identity{}, ErrTokenSignature
		default:
			return Identity{}, ErrTokenMalformed
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Identity{}, ErrTokenMalformed
	}

	role, ok := domain.ParseRole(claims.Role)
	if !ok {
		return Identity{}, ErrTokenMalformed
	}
	if claims.Subject == "" {
		return Identity{}, ErrTokenMalformed
	}
	return Identity{Subject: claims.Subject, Role: role}, nil
}
