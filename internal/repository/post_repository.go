package repository

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/blog-platform/internal/domain"
)

// PostFilter narrows list queries.
type PostFilter struct {
	AuthorID     string
	CategorySlug string
	TitleQuery   string
	Limit        int
	Offset       int
}

// PostRepository defines persistence access for posts.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id string) (*domain.Post, error)
	List(ctx context.Context, filter PostFilter) ([]domain.Post, int, error)
	Update(ctx context.Context, post *domain.Post) error
	UpdateReactions(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, id string) error
}

type postRepository struct {
	pool *pgxpool.Pool
}

// NewPostRepository returns a Postgres-backed implementation.
func NewPostRepository(pool *pgxpool.Pool) PostRepository {
	return &postRepository{pool: pool}
}

const postSelect = `
        SELECT p.id, p.title, p.content, p.author_id, u.name, p.category_id,
               p.cover_image, p.likes, p.dislikes, p.created_at, p.updated_at,
               c.name, c.slug
        FROM posts p
        JOIN users u ON u.id = p.author_id
        JOIN categories c ON c.id = p.category_id`

func scanPost(row pgx.Row) (*domain.Post, error) {
	var post domain.Post
	if err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.AuthorID,
		&post.AuthorName,
		&post.CategoryID,
		&post.CoverImage,
		&post.Likes,
		&post.Dislikes,
		&post.CreatedAt,
		&post.UpdatedAt,
		&post.CategoryName,
		&post.CategorySlug,
	); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Create(ctx context.Context, post *domain.Post) error {
	const query = `
        INSERT INTO posts (title, content, author_id, category_id, cover_image)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, likes, dislikes, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		post.Title,
		post.Content,
		post.AuthorID,
		post.CategoryID,
		post.CoverImage,
	).Scan(&post.ID, &post.Likes, &post.Dislikes, &post.CreatedAt, &post.UpdatedAt)
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	query := postSelect + ` WHERE p.id=$1`
	return scanPost(r.pool.QueryRow(ctx, query, id))
}

func (r *postRepository) List(ctx context.Context, filter PostFilter) ([]domain.Post, int, error) {
	where := ` WHERE TRUE`
	args := []any{}

	if filter.AuthorID != "" {
		args = append(args, filter.AuthorID)
		where += ` AND p.author_id=$` + strconv.Itoa(len(args))
	}
	if filter.CategorySlug != "" {
		args = append(args, filter.CategorySlug)
		where += ` AND c.slug=$` + strconv.Itoa(len(args))
	}
	if filter.TitleQuery != "" {
		args = append(args, "%"+filter.TitleQuery+"%")
		where += ` AND p.title ILIKE $` + strconv.Itoa(len(args))
	}

	countQuery := `SELECT COUNT(*) FROM posts p
        JOIN users u ON u.id = p.author_id
        JOIN categories c ON c.id = p.category_id` + where
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := postSelect + where + ` ORDER BY p.created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, *post)
	}
	return posts, total, rows.Err()
}

func (r *postRepository) Update(ctx context.Context, post *domain.Post) error {
	const query = `
        UPDATE posts SET title=$1, content=$2, cover_image=$3, category_id=$4, updated_at=NOW()
        WHERE id=$5`

	cmd, err := r.pool.Exec(ctx, query,
		post.Title,
		post.Content,
		post.CoverImage,
		post.CategoryID,
		post.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdateReactions rewrites both membership arrays from the in-memory post,
// restoring disjointness regardless of what a concurrent toggle wrote.
func (r *postRepository) UpdateReactions(ctx context.Context, post *domain.Post) error {
	const query = `UPDATE posts SET likes=$1, dislikes=$2, updated_at=NOW() WHERE id=$3`

	cmd, err := r.pool.Exec(ctx, query, post.Likes, post.Dislikes, post.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
