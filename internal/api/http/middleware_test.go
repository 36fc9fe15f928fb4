package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-platform/internal/auth"
	"github.com/spec-kit/blog-platform/internal/domain"
	"github.com/spec-kit/blog-platform/internal/observability"
)

func newGateApp(t *testing.T) (*fiber.App, *auth.TokenManager) {
	t.Helper()

	tokens := auth.NewTokenManager("test-secret", 30)
	session := auth.NewSessionMiddleware(tokens)

	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	app.Use(session.Handle)
	app.Get("/user-only", auth.RequireUser(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/admin-only", auth.RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app, tokens
}

func doRequest(t *testing.T, app *fiber.App, path, cookie string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: cookie})
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	return resp
}

func issueToken(t *testing.T, tokens *auth.TokenManager, role domain.Role) string {
	t.Helper()

	token, _, err := tokens.Issue(domain.Session{UserID: "u1", Email: "u@example.com", Role: role})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	return token
}

func TestGate_NoCookieIsUnauthenticated(t *testing.T) {
	t.Parallel()

	app, _ := newGateApp(t)

	if resp := doRequest(t, app, "/user-only", ""); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if resp := doRequest(t, app, "/admin-only", ""); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 on admin route without token, got %d", resp.StatusCode)
	}
}

func TestGate_ValidUserToken(t *testing.T) {
	t.Parallel()

	app, tokens := newGateApp(t)
	token := issueToken(t, tokens, domain.RoleUser)

	if resp := doRequest(t, app, "/user-only", token); resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestGate_NonAdminIsForbiddenNotUnauthenticated(t *testing.T) {
	t.Parallel()

	app, tokens := newGateApp(t)
	token := issueToken(t, tokens, domain.RoleUser)

	resp := doRequest(t, app, "/admin-only", token)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for a logged-in non-admin, got %d", resp.StatusCode)
	}
}

func TestGate_AdminToken(t *testing.T) {
	t.Parallel()

	app, tokens := newGateApp(t)
	token := issueToken(t, tokens, domain.RoleAdmin)

	if resp := doRequest(t, app, "/admin-only", token); resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestGate_TamperedTokenIsAnonymous(t *testing.T) {
	t.Parallel()

	app, tokens := newGateApp(t)
	token := issueToken(t, tokens, domain.RoleAdmin)
	tampered := token[:len(token)-2] + "xx"

	resp := doRequest(t, app, "/admin-only", tampered)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("tampered token must fall back to anonymous 401, got %d", resp.StatusCode)
	}
}
