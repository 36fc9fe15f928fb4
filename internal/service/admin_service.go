package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/blog-platform/internal/domain"
	"github.com/spec-kit/blog-platform/internal/events"
	"github.com/spec-kit/blog-platform/internal/repository"
	apperrors "github.com/spec-kit/blog-platform/pkg/util"
)

// AdminService backs the moderation panel.
type AdminService struct {
	users      repository.UserRepository
	posts      repository.PostRepository
	comments   repository.CommentRepository
	dispatcher events.Dispatcher
}

// NewAdminService builds the service.
func NewAdminService(users repository.UserRepository, posts repository.PostRepository, comments repository.CommentRepository, dispatcher events.Dispatcher) *AdminService {
	return &AdminService{users: users, posts: posts, comments: comments, dispatcher: dispatcher}
}

// Overview returns all users and all posts for the panel.
func (s *AdminService) Overview(ctx context.Context) ([]domain.User, []domain.Post, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	posts, _, err := s.posts.List(ctx, repository.PostFilter{})
	if err != nil {
		return nil, nil, err
	}
	return users, posts, nil
}

// SetSuspension flips a user's suspension flag. An admin acting on their own
// account is rejected with a dedicated error so the flag stays unchanged;
// anything weaker risks locking the last admin out.
func (s *AdminService) SetSuspension(ctx context.Context, session domain.Session, userID string, suspended bool) (*domain.User, error) {
	if session.UserID == userID {
		return nil, apperrors.NewValidationError("admins cannot suspend their own account", nil)
	}

	if err := s.users.SetSuspended(ctx, userID, suspended); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.New(events.EventUserSuspensionChanged, session.UserID,
			events.UserSuspensionChangedPayload{UserID: userID, Suspended: suspended}))
	}

	return s.users.GetByID(ctx, userID)
}

// DeleteComment removes any comment, regardless of author.
func (s *AdminService) DeleteComment(ctx context.Context, commentID string) error {
	if err := s.comments.Delete(ctx, commentID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("comment", nil)
		}
		return err
	}
	return nil
}
