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

const (
	maxTitleLength   = 100
	defaultPageSize  = 10
	maxPageSize      = 50
	emptyEditorValue = "<p></p>"
)

// PostPage is one page of a post listing.
type PostPage struct {
	Posts      []domain.Post
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// PostService owns post CRUD, search, pagination and reactions.
type PostService struct {
	posts      repository.PostRepository
	categories repository.CategoryRepository
	dispatcher events.Dispatcher
}

// NewPostService builds the service.
func NewPostService(posts repository.PostRepository, categories repository.CategoryRepository, dispatcher events.Dispatcher) *PostService {
	return &PostService{posts: posts, categories: categories, dispatcher: dispatcher}
}

// Create publishes a new post authored by the session user.
func (s *PostService) Create(ctx context.Context, session domain.Session, title, content, coverImage, categoryID string) (*domain.Post, error) {
	title = strings.TrimSpace(title)
	if title == "" || content == "" || content == emptyEditorValue || categoryID == "" {
		return nil, apperrors.NewValidationError("title, content and category are required", nil)
	}
	if len(title) > maxTitleLength {
		return nil, apperrors.NewValidationError("title cannot be more than 100 characters", nil)
	}

	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewValidationError("unknown category", nil)
		}
		return nil, err
	}

	post := &domain.Post{
		Title:      title,
		Content:    content,
		AuthorID:   session.UserID,
		CategoryID: categoryID,
		CoverImage: coverImage,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.New(events.EventPostCreated, session.UserID,
			events.PostCreatedPayload{PostID: post.ID, Title: post.Title, CategoryID: post.CategoryID}))
	}

	// Reload with author and category joined for the response.
	return s.posts.GetByID(ctx, post.ID)
}

// Get fetches a single post.
func (s *PostService) Get(ctx context.Context, id string) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("post", nil)
		}
		return nil, err
	}
	return post, nil
}

// List returns one page of posts, newest first, optionally scoped to a
// category slug.
func (s *PostService) List(ctx context.Context, page, pageSize int, categorySlug string) (*PostPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	filter := repository.PostFilter{
		CategorySlug: categorySlug,
		Limit:        pageSize,
		Offset:       (page - 1) * pageSize,
	}
	posts, total, err := s.posts.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := (total + pageSize - 1) / pageSize
	return &PostPage{Posts: posts, Total: total, Page: page, PageSize: pageSize, TotalPages: totalPages}, nil
}

// Search finds posts whose title contains the query, newest first.
func (s *PostService) Search(ctx context.Context, query string) ([]domain.Post, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.NewValidationError("query parameter is required", nil)
	}
	posts, _, err := s.posts.List(ctx, repository.PostFilter{TitleQuery: query})
	return posts, err
}

// ListByAuthor returns every post by one author, newest first.
func (s *PostService) ListByAuthor(ctx context.Context, authorID string) ([]domain.Post, error) {
	posts, _, err := s.posts.List(ctx, repository.PostFilter{AuthorID: authorID})
	return posts, err
}

// Update edits a post; only its author may.
func (s *PostService) Update(ctx context.Context, session domain.Session, id, title, content, coverImage string) (*domain.Post, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != session.UserID {
		return nil, apperrors.NewForbidden("you are not the author of this post")
	}

	title = strings.TrimSpace(title)
	if title == "" || content == "" {
		return nil, apperrors.NewValidationError("title and content are required", nil)
	}
	if len(title) > maxTitleLength {
		return nil, apperrors.NewValidationError("title cannot be more than 100 characters", nil)
	}

	post.Title = title
	post.Content = content
	post.CoverImage = coverImage
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes a post and, via the schema, its comments. The author or an
// admin may delete.
func (s *PostService) Delete(ctx context.Context, session domain.Session, id string) error {
	post, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	isAuthor := post.AuthorID == session.UserID
	if !isAuthor && !session.IsAdmin() {
		return apperrors.NewForbidden("you do not have permission to delete this post")
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		return err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.New(events.EventPostDeleted, session.UserID,
			events.PostDeletedPayload{PostID: id, ByAdmin: !isAuthor}))
	}
	return nil
}

// React applies one like/dislike toggle for the session user and returns the
// new cardinalities. Concurrent toggles are last-write-wins; each write
// persists a disjoint pair of sets.
func (s *PostService) React(ctx context.Context, session domain.Session, id string, reaction domain.ReactionType) (domain.ReactionCounts, error) {
	if !reaction.Valid() {
		return domain.ReactionCounts{}, apperrors.NewValidationError("invalid reaction type", nil)
	}

	post, err := s.Get(ctx, id)
	if err != nil {
		return domain.ReactionCounts{}, err
	}

	counts := post.ToggleReaction(session.UserID, reaction)
	if err := s.posts.UpdateReactions(ctx, post); err != nil {
		return domain.ReactionCounts{}, err
	}
	return counts, nil
}
