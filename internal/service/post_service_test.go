package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/blog-platform/internal/domain"
	"github.com/spec-kit/blog-platform/internal/repository"
	apperrors "github.com/spec-kit/blog-platform/pkg/util"
)

type fakePostRepo struct {
	posts  map[string]*domain.Post
	nextID int
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: map[string]*domain.Post{}}
}

func (f *fakePostRepo) Create(_ context.Context, post *domain.Post) error {
	f.nextID++
	post.ID = fmt.Sprintf("post-%d", f.nextID)
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	clone := *post
	f.posts[post.ID] = &clone
	return nil
}

func (f *fakePostRepo) GetByID(_ context.Context, id string) (*domain.Post, error) {
	post, ok := f.posts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *post
	clone.Likes = append([]string(nil), post.Likes...)
	clone.Dislikes = append([]string(nil), post.Dislikes...)
	return &clone, nil
}

func (f *fakePostRepo) List(_ context.Context, filter repository.PostFilter) ([]domain.Post, int, error) {
	var all []domain.Post
	for _, post := range f.posts {
		if filter.AuthorID != "" && post.AuthorID != filter.AuthorID {
			continue
		}
		if filter.TitleQuery != "" &&
			!strings.Contains(strings.ToLower(post.Title), strings.ToLower(filter.TitleQuery)) {
			continue
		}
		all = append(all, *post)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := len(all)
	if filter.Limit > 0 {
		start := filter.Offset
		if start > total {
			start = total
		}
		end := start + filter.Limit
		if end > total {
			end = total
		}
		all = all[start:end]
	}
	return all, total, nil
}

func (f *fakePostRepo) Update(_ context.Context, post *domain.Post) error {
	stored, ok := f.posts[post.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Title = post.Title
	stored.Content = post.Content
	stored.CoverImage = post.CoverImage
	stored.CategoryID = post.CategoryID
	return nil
}

func (f *fakePostRepo) UpdateReactions(_ context.Context, post *domain.Post) error {
	stored, ok := f.posts[post.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Likes = append([]string(nil), post.Likes...)
	stored.Dislikes = append([]string(nil), post.Dislikes...)
	return nil
}

func (f *fakePostRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.posts[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.posts, id)
	return nil
}

type fakeCategoryRepo struct {
	categories map[string]*domain.Category
	nextID     int
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: map[string]*domain.Category{}}
}

func (f *fakeCategoryRepo) Create(_ context.Context, category *domain.Category) error {
	f.nextID++
	category.ID = fmt.Sprintf("cat-%d", f.nextID)
	category.CreatedAt = time.Now()
	clone := *category
	f.categories[category.ID] = &clone
	return nil
}

func (f *fakeCategoryRepo) GetByID(_ context.Context, id string) (*domain.Category, error) {
	category, ok := f.categories[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *category
	return &clone, nil
}

func (f *fakeCategoryRepo) GetByName(_ context.Context, name string) (*domain.Category, error) {
	for _, category := range f.categories {
		if category.Name == name {
			clone := *category
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeCategoryRepo) GetBySlug(_ context.Context, slug string) (*domain.Category, error) {
	for _, category := range f.categories {
		if category.Slug == slug {
			clone := *category
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeCategoryRepo) List(_ context.Context) ([]domain.Category, error) {
	var out []domain.Category
	for _, category := range f.categories {
		out = append(out, *category)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// seededCategoryRepo returns a repo holding one category with ID "cat-1".
func seededCategoryRepo(t *testing.T) *fakeCategoryRepo {
	t.Helper()
	repo := newFakeCategoryRepo()
	require.NoError(t, repo.Create(context.Background(), &domain.Category{Name: "General", Slug: "general"}))
	return repo
}

func userSession(id string) domain.Session {
	return domain.Session{UserID: id, Email: id + "@example.com", Role: domain.RoleUser}
}

func adminSession(id string) domain.Session {
	return domain.Session{UserID: id, Email: id + "@example.com", Role: domain.RoleAdmin}
}

func createPost(t *testing.T, svc *PostService, authorID string) *domain.Post {
	t.Helper()
	post, err := svc.Create(context.Background(), userSession(authorID),
		"A title", "<p>body</p>", "", "cat-1")
	require.NoError(t, err)
	return post
}

func TestPostCreate_Validation(t *testing.T) {
	t.Parallel()

	svc := NewPostService(newFakePostRepo(), seededCategoryRepo(t), nil)

	_, err := svc.Create(context.Background(), userSession("u1"), "", "<p>x</p>", "", "cat-1")
	require.Error(t, err)

	_, err = svc.Create(context.Background(), userSession("u1"), "t", "<p></p>", "", "cat-1")
	require.Error(t, err)

	_, err = svc.Create(context.Background(), userSession("u1"), strings.Repeat("x", 101), "<p>x</p>", "", "cat-1")
	require.Error(t, err)
}

func TestPostUpdate_AuthorOnly(t *testing.T) {
	t.Parallel()

	svc := NewPostService(newFakePostRepo(), seededCategoryRepo(t), nil)
	post := createPost(t, svc, "author")

	_, err := svc.Update(context.Background(), userSession("intruder"), post.ID, "New", "<p>new</p>", "")
	require.Error(t, err)
	require.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)

	updated, err := svc.Update(context.Background(), userSession("author"), post.ID, "New", "<p>new</p>", "")
	require.NoError(t, err)
	require.Equal(t, "New", updated.Title)
}

func TestPostDelete_AuthorOrAdmin(t *testing.T) {
	t.Parallel()

	repo := newFakePostRepo()
	svc := NewPostService(repo, seededCategoryRepo(t), nil)

	post := createPost(t, svc, "author")
	err := svc.Delete(context.Background(), userSession("stranger"), post.ID)
	require.Error(t, err)
	require.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)

	require.NoError(t, svc.Delete(context.Background(), adminSession("moderator"), post.ID))
	_, err = svc.Get(context.Background(), post.ID)
	require.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestReact_ToggleAndSwitch(t *testing.T) {
	t.Parallel()

	repo := newFakePostRepo()
	svc := NewPostService(repo, seededCategoryRepo(t), nil)
	post := createPost(t, svc, "author")

	counts, err := svc.React(context.Background(), userSession("u1"), post.ID, domain.ReactionLike)
	require.NoError(t, err)
	require.Equal(t, domain.ReactionCounts{Likes: 1, Dislikes: 0}, counts)

	// Repeating the like undoes it.
	counts, err = svc.React(context.Background(), userSession("u1"), post.ID, domain.ReactionLike)
	require.NoError(t, err)
	require.Equal(t, domain.ReactionCounts{Likes: 0, Dislikes: 0}, counts)

	// Like then dislike leaves exactly one membership.
	_, err = svc.React(context.Background(), userSession("u1"), post.ID, domain.ReactionLike)
	require.NoError(t, err)
	counts, err = svc.React(context.Background(), userSession("u1"), post.ID, domain.ReactionDislike)
	require.NoError(t, err)
	require.Equal(t, domain.ReactionCounts{Likes: 0, Dislikes: 1}, counts)
}

func TestReact_TwoUsersIndependent(t *testing.T) {
	t.Parallel()

	repo := newFakePostRepo()
	svc := NewPostService(repo, seededCategoryRepo(t), nil)
	post := createPost(t, svc, "author")

	_, err := svc.React(context.Background(), userSession("a"), post.ID, domain.ReactionLike)
	require.NoError(t, err)
	counts, err := svc.React(context.Background(), userSession("b"), post.ID, domain.ReactionLike)
	require.NoError(t, err)
	require.Equal(t, domain.ReactionCounts{Likes: 2, Dislikes: 0}, counts)
}

func TestReact_InvalidType(t *testing.T) {
	t.Parallel()

	svc := NewPostService(newFakePostRepo(), seededCategoryRepo(t), nil)
	post := createPost(t, svc, "author")

	_, err := svc.React(context.Background(), userSession("u1"), post.ID, domain.ReactionType("love"))
	require.Error(t, err)
	require.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestList_Pagination(t *testing.T) {
	t.Parallel()

	repo := newFakePostRepo()
	svc := NewPostService(repo, seededCategoryRepo(t), nil)
	for i := 0; i < 25; i++ {
		createPost(t, svc, "author")
	}

	page, err := svc.List(context.Background(), 3, 10, "")
	require.NoError(t, err)
	require.Equal(t, 25, page.Total)
	require.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Posts, 5)
}

func TestSearch_RequiresQuery(t *testing.T) {
	t.Parallel()

	svc := NewPostService(newFakePostRepo(), seededCategoryRepo(t), nil)
	_, err := svc.Search(context.Background(), "   ")
	require.Error(t, err)
}
