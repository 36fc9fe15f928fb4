package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/blog-platform/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventPostCreated            EventType = "post_created"
	EventPostDeleted            EventType = "post_deleted"
	EventCommentAdded           EventType = "comment_added"
	EventUserSuspensionChanged  EventType = "user_suspension_changed"
	EventPasswordResetRequested EventType = "password_reset_requested"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// New builds an event with a fresh identifier and timestamp.
func New(eventType EventType, actorID string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ActorID:   actorID,
		Timestamp: time.Now(),
		Payload:   payload,
	}
}

// PostCreatedPayload payload.
type PostCreatedPayload struct {
	PostID     string `json:"post_id"`
	Title      string `json:"title"`
	CategoryID string `json:"category_id"`
}

// PostDeletedPayload payload.
type PostDeletedPayload struct {
	PostID  string `json:"post_id"`
	ByAdmin bool   `json:"by_admin"`
}

// CommentAddedPayload payload.
type CommentAddedPayload struct {
	PostID      string `json:"post_id"`
	CommentID   string `json:"comment_id"`
	BodyPreview string `json:"body_preview"`
}

// UserSuspensionChangedPayload payload.
type UserSuspensionChangedPayload struct {
	UserID    string `json:"user_id"`
	Suspended bool   `json:"suspended"`
}

// PasswordResetRequestedPayload payload. Carries no secret material.
type PasswordResetRequestedPayload struct {
	UserID    string      `json:"user_id"`
	ExpiresAt time.Time   `json:"expires_at"`
	Role      domain.Role `json:"role"`
}
