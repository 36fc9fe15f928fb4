package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/blog-platform/internal/domain"
	"github.com/spec-kit/blog-platform/internal/repository"
	apperrors "github.com/spec-kit/blog-platform/pkg/util"
)

// UserService serves the profile page: own record plus authored posts.
type UserService struct {
	users repository.UserRepository
	posts *PostService
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, posts *PostService) *UserService {
	return &UserService{users: users, posts: posts}
}

// Profile returns the user's record and their posts, newest first.
func (s *UserService) Profile(ctx context.Context, userID string) (*domain.User, []domain.Post, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("user", nil)
		}
		return nil, nil, err
	}

	posts, err := s.posts.ListByAuthor(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return user, posts, nil
}

// UpdateName changes the user's display name.
func (s *UserService) UpdateName(ctx context.Context, userID, name string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}

	if err := s.users.UpdateName(ctx, userID, name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}
	return s.users.GetByID(ctx, userID)
}
