package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-platform/internal/api/dto"
	"github.com/spec-kit/blog-platform/internal/service"
	apperrors "github.com/spec-kit/blog-platform/pkg/util"
)

// CategoriesHandler exposes category listing and admin creation.
type CategoriesHandler struct {
	categories *service.CategoryService
}

// NewCategoriesHandler constructs handler.
func NewCategoriesHandler(categories *service.CategoryService) *CategoriesHandler {
	return &CategoriesHandler{categories: categories}
}

// List handles GET /categories.
func (h *CategoriesHandler) List(c *fiber.Ctx) error {
	categories, err := h.categories.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"categories": dto.NewCategoryResponses(categories)})
}

// Create handles POST /categories (admin only, enforced by the route).
func (h *CategoriesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	category, err := h.categories.Create(c.Context(), req.Name)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message":  "category created successfully",
		"category": dto.NewCategoryResponse(category),
	})
}
