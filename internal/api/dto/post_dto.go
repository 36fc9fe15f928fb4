package dto

import (
	"time"

	"github.com/spec-kit/blog-platform/internal/domain"
)

// CreatePostRequest payload for authoring.
type CreatePostRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	CoverImage string `json:"coverImage"`
	Category   string `json:"category"`
}

// UpdatePostRequest payload for editing.
type UpdatePostRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	CoverImage string `json:"coverImage"`
}

// ReactRequest payload for the like/dislike toggle.
type ReactRequest struct {
	ReactionType string `json:"reactionType"`
}

// ReactResponse returns the new cardinalities, not the member lists.
type ReactResponse struct {
	Likes    int `json:"likes"`
	Dislikes int `json:"dislikes"`
}

// PostResponse is the public view of a post.
type PostResponse struct {
	ID         string       `json:"id"`
	Title      string       `json:"title"`
	Content    string       `json:"content"`
	CoverImage string       `json:"coverImage,omitempty"`
	Author     AuthorRef    `json:"author"`
	Category   *CategoryRef `json:"category,omitempty"`
	Likes      int          `json:"likes"`
	Dislikes   int          `json:"dislikes"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// AuthorRef identifies a post or comment author.
type AuthorRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CategoryRef identifies a post's category.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// PageMeta describes one page of a listing.
type PageMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPostResponse maps a domain post to its public view.
func NewPostResponse(post *domain.Post) PostResponse {
	resp := PostResponse{
		ID:         post.ID,
		Title:      post.Title,
		Content:    post.Content,
		CoverImage: post.CoverImage,
		Author:     AuthorRef{ID: post.AuthorID, Name: post.AuthorName},
		Likes:      len(post.Likes),
		Dislikes:   len(post.Dislikes),
		CreatedAt:  post.CreatedAt,
		UpdatedAt:  post.UpdatedAt,
	}
	if post.CategoryID != "" {
		resp.Category = &CategoryRef{ID: post.CategoryID, Name: post.CategoryName, Slug: post.CategorySlug}
	}
	return resp
}

// NewPostResponses maps a slice of posts.
func NewPostResponses(posts []domain.Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for i := range posts {
		out = append(out, NewPostResponse(&posts[i]))
	}
	return out
}
