package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/blog-platform/internal/domain"
	"github.com/spec-kit/blog-platform/internal/events"
	"github.com/spec-kit/blog-platform/internal/repository"
	apperrors "github.com/spec-kit/blog-platform/pkg/util"
)

// CommentService owns comment listing and creation.
type CommentService struct {
	comments   repository.CommentRepository
	posts      repository.PostRepository
	dispatcher events.Dispatcher
}

// NewCommentService builds the service.
func NewCommentService(comments repository.CommentRepository, posts repository.PostRepository, dispatcher events.Dispatcher) *CommentService {
	return &CommentService{comments: comments, posts: posts, dispatcher: dispatcher}
}

// ListByPost returns a post's comments, oldest first. The post must exist.
func (s *CommentService) ListByPost(ctx context.Context, postID string) ([]domain.Comment, error) {
	if err := s.ensurePostExists(ctx, postID); err != nil {
		return nil, err
	}
	return s.comments.ListByPost(ctx, postID)
}

// Create adds a comment by the session user to a post.
func (s *CommentService) Create(ctx context.Context, session domain.Session, postID, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("comment content is required", nil)
	}
	if err := s.ensurePostExists(ctx, postID); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		PostID:   postID,
		AuthorID: session.UserID,
		Content:  content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		preview := comment.Content
		if len(preview) > 80 {
			preview = preview[:80]
		}
		_ = s.dispatcher.Publish(ctx, events.New(events.EventCommentAdded, session.UserID,
			events.CommentAddedPayload{PostID: postID, CommentID: comment.ID, BodyPreview: preview}))
	}

	// Reload with the author name joined for the response.
	return s.comments.GetByID(ctx, comment.ID)
}

func (s *CommentService) ensurePostExists(ctx context.Context, postID string) error {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("post", nil)
		}
		return err
	}
	return nil
}
