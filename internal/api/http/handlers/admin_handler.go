package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-platform/internal/api/dto"
	"github.com/spec-kit/blog-platform/internal/auth"
	"github.com/spec-kit/blog-platform/internal/service"
	apperrors "github.com/spec-kit/blog-platform/pkg/util"
)

// AdminHandler exposes the moderation panel endpoints. Every route behind it
// passes RequireAdmin first.
type AdminHandler struct {
	admin *service.AdminService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(admin *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// Overview handles GET /admin.
func (h *AdminHandler) Overview(c *fiber.Ctx) error {
	users, posts, err := h.admin.Overview(c.Context())
	if err != nil {
		return err
	}

	userViews := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		userViews = append(userViews, dto.NewUserResponse(&users[i]))
	}

	return c.JSON(fiber.Map{
		"users": userViews,
		"posts": dto.NewPostResponses(posts),
	})
}

// SuspendUser handles PUT /admin/users/:id.
func (h *AdminHandler) SuspendUser(c *fiber.Ctx) error {
	session, _ := auth.SessionFromContext(c)

	var req dto.SuspendUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.IsSuspended == nil {
		return apperrors.NewValidationError("isSuspended is required", nil)
	}

	user, err := h.admin.SetSuspension(c.Context(), session, c.Params("id"), *req.IsSuspended)
	if err != nil {
		return err
	}

	message := "user has been unsuspended"
	if user.IsSuspended {
		message = "user has been suspended"
	}
	return c.JSON(fiber.Map{
		"message": message,
		"user":    dto.NewUserResponse(user),
	})
}

// DeleteComment handles DELETE /admin/comments/:id.
func (h *AdminHandler) DeleteComment(c *fiber.Ctx) error {
	if err := h.admin.DeleteComment(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "comment deleted successfully"})
}
