package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-platform/internal/auth"
	"github.com/spec-kit/blog-platform/internal/config"
	"github.com/spec-kit/blog-platform/internal/domain"
	"github.com/spec-kit/blog-platform/internal/events"
	"github.com/spec-kit/blog-platform/internal/mail"
	"github.com/spec-kit/blog-platform/internal/persistence"
	"github.com/spec-kit/blog-platform/internal/repository"
	apperrors "github.com/spec-kit/blog-platform/pkg/util"
)

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,})+$`)

// AuthService coordinates registration, login and the password reset flow.
type AuthService struct {
	users      repository.UserRepository
	mailer     mail.Sender
	dispatcher events.Dispatcher
	limiter    *persistence.RateLimiter
	tokenMgr   *auth.TokenManager
	logger     *zap.Logger
	bcryptCost int
	resetTTL   time.Duration
	baseURL    string
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Mailer     mail.Sender
	Dispatcher events.Dispatcher
	Limiter    *persistence.RateLimiter
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		mailer:     deps.Mailer,
		dispatcher: deps.Dispatcher,
		limiter:    deps.Limiter,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTLDays),
		logger:     deps.Logger,
		bcryptCost: cfg.Auth.BcryptCost,
		resetTTL:   time.Duration(cfg.Auth.PasswordResetTTLMinutes) * time.Minute,
		baseURL:    strings.TrimRight(cfg.App.BaseURL, "/"),
	}
}

// NormalizeEmail lowercases and trims an address; all lookups go through it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user account with the default role. The password is
// hashed here, before any persistence call; no repository ever sees plaintext.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)

	if name == "" || email == "" || password == "" {
		return nil, apperrors.NewValidationError("name, email and password are required", nil)
	}
	if !emailPattern.MatchString(email) {
		return nil, apperrors.NewValidationError("invalid email address", nil)
	}
	if len(password) < 6 {
		return nil, apperrors.NewValidationError("password must be at least 6 characters", nil)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates a user and mints a session token. A suspended account
// fails with a suspension-specific error even when credentials are correct;
// anything else fails with one generic message.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("email and password are required", nil)
	}

	if s.limiter != nil && !s.limiter.Allow(ctx, email) {
		return nil, "", time.Time{}, apperrors.NewUnauthenticated("too many attempts, try again later")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthenticated("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}

	if user.IsSuspended {
		return nil, "", time.Time{}, apperrors.NewForbidden("your account has been suspended by an administrator")
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthenticated("invalid credentials")
	}

	session := domain.Session{UserID: user.ID, Email: user.Email, Role: user.Role}
	token, exp, err := s.tokenMgr.Issue(session)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// RequestPasswordReset issues a single-use reset ticket and emails the
// plaintext secret. Returns nil for unknown addresses so callers cannot probe
// which accounts exist. If delivery fails the ticket is rolled back; a stale
// digest must never linger on the record.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	if email == "" {
		return apperrors.NewValidationError("email is required", nil)
	}

	if s.limiter != nil && !s.limiter.Allow(ctx, "reset:"+email) {
		return nil
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	}

	secret, digest, err := auth.NewResetSecret()
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(s.resetTTL)
	if err := s.users.SetResetTicket(ctx, user.ID, digest, expiresAt); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, secret)
	if err := s.mailer.SendPasswordReset(ctx, user.Email, resetURL); err != nil {
		// Compensating action: clear the ticket so the stored digest can
		// never be matched later.
		if clearErr := s.users.ClearResetTicket(ctx, user.ID); clearErr != nil {
			s.logger.Error("reset ticket rollback failed",
				zap.String("user_id", user.ID), zap.Error(clearErr))
		}
		return apperrors.NewInternalError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.New(events.EventPasswordResetRequested, user.ID,
			events.PasswordResetRequestedPayload{UserID: user.ID, ExpiresAt: expiresAt, Role: user.Role}))
	}
	return nil
}

// ResetPassword consumes a reset ticket. Hash match and unexpired expiry are
// both required; failures collapse into one generic error. Success replaces
// the password and clears the ticket but does not log the user in.
func (s *AuthService) ResetPassword(ctx context.Context, secret, password, confirmPassword string) error {
	if secret == "" {
		return apperrors.NewValidationError("invalid or missing token", nil)
	}
	if password != confirmPassword {
		return apperrors.NewValidationError("passwords do not match", nil)
	}
	if len(password) < 6 {
		return apperrors.NewValidationError("password must be at least 6 characters", nil)
	}

	user, err := s.users.GetByResetTicket(ctx, auth.HashResetSecret(secret), time.Now())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewValidationError("password reset token is invalid or has expired", nil)
		}
		return err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}
	return s.users.ClearResetTicket(ctx, user.ID)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
