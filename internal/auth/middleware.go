package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const identityKey = "auth_identity"

const bearerPrefix = "Bearer "

// publicPathPrefixes bypass token verification entirely. Everything else
// goes through the verifier, but a bad token only leaves the request
// unauthenticated; rejection is the role guards' job.
var publicPathPrefixes = []string{
	"/api/auth/login",
	"/api/auth/create",
	"/health",
}

// IdentityMiddleware extracts a bearer token, verifies it and attaches the
// resulting identity to the request. It never rejects a request itself.
type IdentityMiddleware struct {
	tokens *TokenManager
	logger *zap.Logger
}

// NewIdentityMiddleware constructs the middleware.
func NewIdentityMiddleware(tokens *TokenManager, logger *zap.Logger) *IdentityMiddleware {
	return &IdentityMiddleware{tokens: tokens, logger: logger}
}

// Handle populates the request identity when a valid bearer token is
// present and always passes the request on.
func (m *IdentityMiddleware) Handle(c *fiber.Ctx) error {
	if isPublicPath(c.Path()) {
		return c.Next()
	}

	authHeader := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return c.Next()
	}

	identity, err := m.tokens.Verify(strings.TrimPrefix(authHeader, bearerPrefix))
	if err != nil {
		m.logger.Debug("token rejected",
			zap.String("path", c.Path()),
			zap.String("method", c.Method()),
			zap.Error(err))
		return c.Next()
	}

	m.logger.Debug("identity attached",
		zap.String("path", c.Path()),
		zap.String("subject", identity.Subject),
		zap.String("role", string(identity.Role)))

	c.Locals(identityKey, identity)
	return c.Next()
}

// IdentityFromContext retrieves the identity attached by Handle.
func IdentityFromContext(c *fiber.Ctx) (Identity, bool) {
	identity, ok := c.Locals(identityKey).(Identity)
	return identity, ok
}

func isPublicPath(path string) bool {
	for _, prefix := range publicPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
