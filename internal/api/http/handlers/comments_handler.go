package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-platform/internal/api/dto"
	"github.com/spec-kit/blog-platform/internal/auth"
	"github.com/spec-kit/blog-platform/internal/service"
	apperrors "github.com/spec-kit/blog-platform/pkg/util"
)

// CommentsHandler exposes comment listing and creation per post.
type CommentsHandler struct {
	comments *service.CommentService
}

// NewCommentsHandler constructs handler.
func NewCommentsHandler(comments *service.CommentService) *CommentsHandler {
	return &CommentsHandler{comments: comments}
}

// List handles GET /posts/:id/comments.
func (h *CommentsHandler) List(c *fiber.Ctx) error {
	comments, err := h.comments.ListByPost(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"comments": dto.NewCommentResponses(comments)})
}

// Create handles POST /posts/:id/comments.
func (h *CommentsHandler) Create(c *fiber.Ctx) error {
	session, _ := auth.SessionFromContext(c)

	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	comment, err := h.comments.Create(c.Context(), session, c.Params("id"), req.Content)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"comment": dto.NewCommentResponse(comment)})
}
