package domain

import "time"

// ReactionType is a reader's verdict on a post.
type ReactionType string

const (
	ReactionLike    ReactionType = "like"
	ReactionDislike ReactionType = "dislike"
)

// Valid reports whether the reaction type is a known value.
func (r ReactionType) Valid() bool {
	return r == ReactionLike || r == ReactionDislike
}

// Post is the aggregate for published articles. Content is an opaque
// rich-text HTML string produced by the client editor.
type Post struct {
	ID         string
	Title      string
	Content    string
	AuthorID   string
	AuthorName string
	CategoryID string
	CoverImage string
	Likes      []string
	Dislikes   []string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Denormalized category fields filled by list queries.
	CategoryName string
	CategorySlug string
}

// ReactionCounts is the observable result of a toggle.
type ReactionCounts struct {
	Likes    int
	Dislikes int
}

// ToggleReaction applies one like/dislike action for userID and returns the
// new cardinalities. Repeating the same action undoes it; switching sides
// moves the user between the two sets. The sets stay disjoint afterwards.
func (p *Post) ToggleReaction(userID string, reaction ReactionType) ReactionCounts {
	hasLiked := contains(p.Likes, userID)
	hasDisliked := contains(p.Dislikes, userID)

	switch reaction {
	case ReactionLike:
		if hasLiked {
			p.Likes = remove(p.Likes, userID)
		} else {
			p.Likes = append(p.Likes, userID)
			if hasDisliked {
				p.Dislikes = remove(p.Dislikes, userID)
			}
		}
	case ReactionDislike:
		if hasDisliked {
			p.Dislikes = remove(p.Dislikes, userID)
		} else {
			p.Dislikes = append(p.Dislikes, userID)
			if hasLiked {
				p.Likes = remove(p.Likes, userID)
			}
		}
	}

	return ReactionCounts{Likes: len(p.Likes), Dislikes: len(p.Dislikes)}
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func remove(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
