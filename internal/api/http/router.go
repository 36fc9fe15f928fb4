package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-platform/internal/api/http/handlers"
	"github.com/spec-kit/blog-platform/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Auth       *handlers.AuthHandler
	Posts      *handlers.PostsHandler
	Comments   *handlers.CommentsHandler
	Categories *handlers.CategoriesHandler
	Profile    *handlers.ProfileHandler
	Admin      *handlers.AdminHandler
	Session    *auth.SessionMiddleware
}

// RegisterRoutes wires HTTP routes. The session middleware runs on every
// route; role enforcement is per-group.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Use(cfg.Session.Handle)

	// Auth flows.
	app.Post("/register", cfg.Auth.Register)
	app.Post("/login", cfg.Auth.Login)
	app.Get("/logout", cfg.Auth.Logout)
	app.Post("/forgot-password", cfg.Auth.ForgotPassword)
	app.Post("/reset-password", cfg.Auth.ResetPassword)

	// Public reads.
	app.Get("/posts", cfg.Posts.List)
	app.Get("/posts/:id", cfg.Posts.Get)
	app.Get("/posts/:id/comments", cfg.Comments.List)
	app.Get("/categories", cfg.Categories.List)
	app.Get("/search", cfg.Posts.Search)

	// Authenticated writes.
	app.Post("/posts", auth.RequireUser(), cfg.Posts.Create)
	app.Put("/posts/:id", auth.RequireUser(), cfg.Posts.Update)
	app.Delete("/posts/:id", auth.RequireUser(), cfg.Posts.Delete)
	app.Post("/posts/:id/react", auth.RequireUser(), cfg.Posts.React)
	app.Post("/posts/:id/comments", auth.RequireUser(), cfg.Comments.Create)
	app.Get("/profile", auth.RequireUser(), cfg.Profile.Get)
	app.Put("/profile", auth.RequireUser(), cfg.Profile.Update)

	// Moderation panel.
	admin := app.Group("/admin", auth.RequireAdmin())
	admin.Get("/", cfg.Admin.Overview)
	admin.Put("/users/:id", cfg.Admin.SuspendUser)
	admin.Delete("/comments/:id", cfg.Admin.DeleteComment)
	app.Post("/categories", auth.RequireAdmin(), cfg.Categories.Create)
}
