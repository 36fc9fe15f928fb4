package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-platform/internal/api/dto"
	"github.com/spec-kit/blog-platform/internal/auth"
	"github.com/spec-kit/blog-platform/internal/domain"
	"github.com/spec-kit/blog-platform/internal/service"
	apperrors "github.com/spec-kit/blog-platform/pkg/util"
)

// PostsHandler exposes post CRUD, search and reactions.
type PostsHandler struct {
	posts *service.PostService
}

// NewPostsHandler constructs handler.
func NewPostsHandler(posts *service.PostService) *PostsHandler {
	return &PostsHandler{posts: posts}
}

// List handles GET /posts.
func (h *PostsHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("limit", 10)
	categorySlug := c.Query("category")

	result, err := h.posts.List(c.Context(), page, pageSize, categorySlug)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"posts": dto.NewPostResponses(result.Posts),
		"pagination": dto.PageMeta{
			Page:       result.Page,
			PageSize:   result.PageSize,
			Total:      result.Total,
			TotalPages: result.TotalPages,
		},
	})
}

// Get handles GET /posts/:id.
func (h *PostsHandler) Get(c *fiber.Ctx) error {
	post, err := h.posts.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"post": dto.NewPostResponse(post)})
}

// Create handles POST /posts.
func (h *PostsHandler) Create(c *fiber.Ctx) error {
	session, _ := auth.SessionFromContext(c)

	var req dto.CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	post, err := h.posts.Create(c.Context(), session, req.Title, req.Content, req.CoverImage, req.Category)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "post created successfully",
		"post":    dto.NewPostResponse(post),
	})
}

// Update handles PUT /posts/:id.
func (h *PostsHandler) Update(c *fiber.Ctx) error {
	session, _ := auth.SessionFromContext(c)

	var req dto.UpdatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	post, err := h.posts.Update(c.Context(), session, c.Params("id"), req.Title, req.Content, req.CoverImage)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "post updated successfully",
		"post":    dto.NewPostResponse(post),
	})
}

// Delete handles DELETE /posts/:id.
func (h *PostsHandler) Delete(c *fiber.Ctx) error {
	session, _ := auth.SessionFromContext(c)

	if err := h.posts.Delete(c.Context(), session, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "post and associated comments deleted successfully"})
}

// React handles POST /posts/:id/react.
func (h *PostsHandler) React(c *fiber.Ctx) error {
	session, _ := auth.SessionFromContext(c)

	var req dto.ReactRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	counts, err := h.posts.React(c.Context(), session, c.Params("id"), domain.ReactionType(req.ReactionType))
	if err != nil {
		return err
	}

	return c.JSON(dto.ReactResponse{Likes: counts.Likes, Dislikes: counts.Dislikes})
}

// Search handles GET /search.
func (h *PostsHandler) Search(c *fiber.Ctx) error {
	posts, err := h.posts.Search(c.Context(), c.Query("query"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"posts": dto.NewPostResponses(posts)})
}
