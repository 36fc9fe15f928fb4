package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-platform/internal/domain"
)

// CookieName is the session cookie every browser request carries.
const CookieName = "token"

const sessionKey = "auth_session"

// SessionMiddleware derives the acting identity from the session cookie.
// It never rejects a request: a missing, tampered or expired token simply
// leaves the request anonymous. Role checks happen downstream.
type SessionMiddleware struct {
	tokens *TokenManager
}

// NewSessionMiddleware constructs middleware.
func NewSessionMiddleware(tokens *TokenManager) *SessionMiddleware {
	return &SessionMiddleware{tokens: tokens}
}

// Handle verifies the cookie and stores the session, if any, for the request.
func (m *SessionMiddleware) Handle(c *fiber.Ctx) error {
	tokenStr := c.Cookies(CookieName)
	if tokenStr == "" {
		return c.Next()
	}

	session, err := m.tokens.Verify(tokenStr)
	if err != nil {
		// Fail closed to anonymous; never surface token errors to the caller.
		return c.Next()
	}

	c.Locals(sessionKey, session)
	return c.Next()
}

// SessionFromContext retrieves the authenticated identity, if present.
func SessionFromContext(c *fiber.Ctx) (domain.Session, bool) {
	val := c.Locals(sessionKey)
	if val == nil {
		return domain.Session{}, false
	}
	session, ok := val.(domain.Session)
	return session, ok
}
