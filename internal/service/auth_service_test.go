package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-platform/internal/auth"
	"github.com/spec-kit/blog-platform/internal/config"
	"github.com/spec-kit/blog-platform/internal/domain"
	apperrors "github.com/spec-kit/blog-platform/pkg/util"
)

// --- fakes ---

type fakeUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.nextID++
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, user := range f.users {
		out = append(out, *user)
	}
	return out, nil
}

func (f *fakeUserRepo) UpdateName(_ context.Context, id, name string) error {
	user, ok := f.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.Name = name
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	user, ok := f.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.PasswordHash = passwordHash
	return nil
}

func (f *fakeUserRepo) SetSuspended(_ context.Context, id string, suspended bool) error {
	user, ok := f.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.IsSuspended = suspended
	return nil
}

func (f *fakeUserRepo) SetResetTicket(_ context.Context, id, tokenHash string, expiresAt time.Time) error {
	user, ok := f.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.ResetTokenHash = &tokenHash
	user.ResetExpiresAt = &expiresAt
	return nil
}

func (f *fakeUserRepo) ClearResetTicket(_ context.Context, id string) error {
	user, ok := f.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.ResetTokenHash = nil
	user.ResetExpiresAt = nil
	return nil
}

func (f *fakeUserRepo) GetByResetTicket(_ context.Context, tokenHash string, now time.Time) (*domain.User, error) {
	for _, user := range f.users {
		if user.ResetTokenHash != nil && *user.ResetTokenHash == tokenHash &&
			user.ResetExpiresAt != nil && user.ResetExpiresAt.After(now) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeMailer struct {
	fail     bool
	sent     int
	lastTo   string
	lastLink string
}

func (f *fakeMailer) SendPasswordReset(_ context.Context, to, resetURL string) error {
	if f.fail {
		return errors.New("smtp unreachable")
	}
	f.sent++
	f.lastTo = to
	f.lastLink = resetURL
	return nil
}

func testConfig() config.Config {
	return config.Config{
		App: config.AppConfig{BaseURL: "http://localhost:8080"},
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret",
			SessionTTLDays:          30,
			PasswordResetTTLMinutes: 10,
			BcryptCost:              4,
		},
	}
}

func newTestAuthService(users *fakeUserRepo, mailer *fakeMailer) *AuthService {
	return NewAuthService(testConfig(), AuthDependencies{
		UserRepo: users,
		Mailer:   mailer,
		Logger:   zap.NewNop(),
	})
}

func registerUser(t *testing.T, svc *AuthService, email, password string) *domain.User {
	t.Helper()
	user, err := svc.Register(context.Background(), "Test User", email, password)
	require.NoError(t, err)
	return user
}

// --- registration & login ---

func TestRegister_NormalizesEmailAndHashes(t *testing.T) {
	t.Parallel()

	users := newFakeUserRepo()
	svc := newTestAuthService(users, &fakeMailer{})

	user, err := svc.Register(context.Background(), "Ann", "  Ann@Example.COM ", "hunter22")
	require.NoError(t, err)
	require.Equal(t, "ann@example.com", user.Email)
	require.Equal(t, domain.RoleUser, user.Role)
	require.NotEqual(t, "hunter22", user.PasswordHash)
	require.NoError(t, auth.ComparePassword(user.PasswordHash, "hunter22"))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	users := newFakeUserRepo()
	svc := newTestAuthService(users, &fakeMailer{})
	registerUser(t, svc, "dup@example.com", "hunter22")

	_, err := svc.Register(context.Background(), "Other", "dup@example.com", "hunter22")
	require.Error(t, err)
	require.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}

func TestLogin_RoundTripsClaims(t *testing.T) {
	t.Parallel()

	users := newFakeUserRepo()
	svc := newTestAuthService(users, &fakeMailer{})
	registered := registerUser(t, svc, "ok@example.com", "hunter22")

	user, token, exp, err := svc.Login(context.Background(), "ok@example.com", "hunter22")
	require.NoError(t, err)
	require.Equal(t, registered.ID, user.ID)
	require.True(t, exp.After(time.Now()))

	session, err := svc.TokenManager().Verify(token)
	require.NoError(t, err)
	require.Equal(t, registered.ID, session.UserID)
	require.Equal(t, domain.RoleUser, session.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()

	users := newFakeUserRepo()
	svc := newTestAuthService(users, &fakeMailer{})
	registerUser(t, svc, "ok@example.com", "hunter22")

	_, _, _, err := svc.Login(context.Background(), "ok@example.com", "wrong")
	require.Error(t, err)
	require.Equal(t, "UNAUTHENTICATED", apperrors.ToDomainError(err).Code)
}

func TestLogin_SuspendedGetsSpecificError(t *testing.T) {
	t.Parallel()

	users := newFakeUserRepo()
	svc := newTestAuthService(users, &fakeMailer{})
	user := registerUser(t, svc, "sus@example.com", "hunter22")
	require.NoError(t, users.SetSuspended(context.Background(), user.ID, true))

	// Correct credentials must still fail, and not with "invalid credentials".
	_, _, _, err := svc.Login(context.Background(), "sus@example.com", "hunter22")
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	require.Equal(t, "FORBIDDEN", domainErr.Code)
	require.Contains(t, domainErr.Message, "suspended")
}

// --- password reset ---

func TestRequestPasswordReset_UnknownEmailIsSilent(t *testing.T) {
	t.Parallel()

	mailer := &fakeMailer{}
	svc := newTestAuthService(newFakeUserRepo(), mailer)

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "ghost@example.com"))
	require.Zero(t, mailer.sent)
}

func TestRequestPasswordReset_StoresHashNotSecret(t *testing.T) {
	t.Parallel()

	users := newFakeUserRepo()
	mailer := &fakeMailer{}
	svc := newTestAuthService(users, mailer)
	user := registerUser(t, svc, "r@example.com", "hunter22")

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "r@example.com"))
	require.Equal(t, 1, mailer.sent)

	stored := users.users[user.ID]
	require.NotNil(t, stored.ResetTokenHash)
	require.NotContains(t, mailer.lastLink, *stored.ResetTokenHash)
}

func TestRequestPasswordReset_RollsBackOnMailFailure(t *testing.T) {
	t.Parallel()

	users := newFakeUserRepo()
	mailer := &fakeMailer{fail: true}
	svc := newTestAuthService(users, mailer)
	user := registerUser(t, svc, "r@example.com", "hunter22")

	err := svc.RequestPasswordReset(context.Background(), "r@example.com")
	require.Error(t, err)

	stored := users.users[user.ID]
	require.Nil(t, stored.ResetTokenHash)
	require.Nil(t, stored.ResetExpiresAt)
}

func extractSecret(t *testing.T, link string) string {
	t.Helper()
	const marker = "?token="
	idx := len(link) - 64
	require.Contains(t, link, marker)
	return link[idx:]
}

func TestResetPassword_ConsumeOnce(t *testing.T) {
	t.Parallel()

	users := newFakeUserRepo()
	mailer := &fakeMailer{}
	svc := newTestAuthService(users, mailer)
	registerUser(t, svc, "r@example.com", "oldpassword")
	require.NoError(t, svc.RequestPasswordReset(context.Background(), "r@example.com"))

	secret := extractSecret(t, mailer.lastLink)
	require.NoError(t, svc.ResetPassword(context.Background(), secret, "newpassword", "newpassword"))

	// New password works; no session was minted by the reset itself.
	_, _, _, err := svc.Login(context.Background(), "r@example.com", "newpassword")
	require.NoError(t, err)

	// Replay must fail with the generic message.
	err = svc.ResetPassword(context.Background(), secret, "another", "another")
	require.Error(t, err)
	require.Contains(t, apperrors.ToDomainError(err).Message, "invalid or has expired")
}

func TestResetPassword_ExpiredTicketRejected(t *testing.T) {
	t.Parallel()

	users := newFakeUserRepo()
	mailer := &fakeMailer{}
	svc := newTestAuthService(users, mailer)
	user := registerUser(t, svc, "r@example.com", "oldpassword")
	require.NoError(t, svc.RequestPasswordReset(context.Background(), "r@example.com"))

	// Force the expiry into the past; the hash still matches exactly.
	past := time.Now().Add(-time.Minute)
	users.users[user.ID].ResetExpiresAt = &past

	secret := extractSecret(t, mailer.lastLink)
	err := svc.ResetPassword(context.Background(), secret, "newpassword", "newpassword")
	require.Error(t, err)
	require.Contains(t, apperrors.ToDomainError(err).Message, "invalid or has expired")
}

func TestResetPassword_MismatchedConfirmation(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(newFakeUserRepo(), &fakeMailer{})
	err := svc.ResetPassword(context.Background(), "whatever", "one", "two")
	require.Error(t, err)
	require.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}
