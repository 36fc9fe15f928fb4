package domain

import "time"

// Comment belongs to a post; deleting the post removes its comments.
type Comment struct {
	ID         string
	PostID     string
	AuthorID   string
	AuthorName string
	Content    string
	CreatedAt  time.Time
}
