package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-platform/internal/api/dto"
	"github.com/spec-kit/blog-platform/internal/auth"
	"github.com/spec-kit/blog-platform/internal/service"
	apperrors "github.com/spec-kit/blog-platform/pkg/util"
)

// AuthHandler exposes registration, login/logout and the reset flow.
type AuthHandler struct {
	auth       *service.AuthService
	secureMode bool
}

// NewAuthHandler constructs handler. secureMode marks the session cookie
// Secure, which production always should.
func NewAuthHandler(authService *service.AuthService, secureMode bool) *AuthHandler {
	return &AuthHandler{auth: authService, secureMode: secureMode}
}

// Register handles POST /register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.auth.Register(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "user created successfully",
		"userId":  user.ID,
	})
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, token, exp, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Expires:  exp,
		HTTPOnly: true,
		Secure:   h.secureMode,
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/",
	})

	return c.JSON(fiber.Map{
		"message": "logged in successfully",
		"user":    dto.NewUserResponse(user),
	})
}

// Logout handles GET /logout. Purely a client-side cookie delete; the token
// itself stays valid until its natural expiry.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   h.secureMode,
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/",
	})
	return c.JSON(fiber.Map{"message": "logged out successfully"})
}

// ForgotPassword handles POST /forgot-password. Responds 200 whether or not
// the account exists.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if err := h.auth.RequestPasswordReset(c.Context(), req.Email); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "if an account with that email exists, a password reset link has been sent",
	})
}

// ResetPassword handles POST /reset-password.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if err := h.auth.ResetPassword(c.Context(), req.Token, req.Password, req.ConfirmPassword); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "password has been reset successfully"})
}
