package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/blog-platform/internal/events"
)

// NotificationService reacts to domain events with log/stub notifications.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventPostCreated, n.handlePostCreated)
	n.dispatcher.Subscribe(events.EventPostDeleted, n.handlePostDeleted)
	n.dispatcher.Subscribe(events.EventCommentAdded, n.handleCommentAdded)
	n.dispatcher.Subscribe(events.EventUserSuspensionChanged, n.handleSuspensionChanged)
	n.dispatcher.Subscribe(events.EventPasswordResetRequested, n.handlePasswordResetRequested)
}

func (n *NotificationService) handlePostCreated(_ context.Context, event events.Event) error {
	n.logger.Info("PostCreated", zap.String("actor_id", event.ActorID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handlePostDeleted(_ context.Context, event events.Event) error {
	n.logger.Info("PostDeleted", zap.String("actor_id", event.ActorID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleCommentAdded(_ context.Context, event events.Event) error {
	n.logger.Info("CommentAdded", zap.String("actor_id", event.ActorID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleSuspensionChanged(_ context.Context, event events.Event) error {
	n.logger.Info("UserSuspensionChanged", zap.String("actor_id", event.ActorID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handlePasswordResetRequested(_ context.Context, event events.Event) error {
	// The reset email itself is sent synchronously by the auth service;
	// this is audit logging only.
	n.logger.Info("PasswordResetRequested", zap.String("actor_id", event.ActorID))
	return nil
}
