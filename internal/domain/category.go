package domain

import "time"

// Category groups posts; the slug is derived from the name at creation.
type Category struct {
	ID        string
	Name      string
	Slug      string
	CreatedAt time.Time
}
