package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/blog-platform/internal/domain"
)

// UserRepository defines persistence access for user accounts. Reset ticket
// fields live on the user row: at most one active ticket per user.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	UpdateName(ctx context.Context, id, name string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetSuspended(ctx context.Context, id string, suspended bool) error
	SetResetTicket(ctx context.Context, id, tokenHash string, expiresAt time.Time) error
	ClearResetTicket(ctx context.Context, id string) error
	GetByResetTicket(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, name, email, password_hash, role, is_suspended,
        password_reset_token_hash, password_reset_expires_at, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.IsSuspended,
		&user.ResetTokenHash,
		&user.ResetExpiresAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (name, email, password_hash, role, is_suspended)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.IsSuspended,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	return scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (r *userRepository) UpdateName(ctx context.Context, id, name string) error {
	const query = `UPDATE users SET name=$1, updated_at=NOW() WHERE id=$2`
	return r.exec(ctx, query, name, id)
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `UPDATE users SET password_hash=$1, updated_at=NOW() WHERE id=$2`
	return r.exec(ctx, query, passwordHash, id)
}

func (r *userRepository) SetSuspended(ctx context.Context, id string, suspended bool) error {
	const query = `UPDATE users SET is_suspended=$1, updated_at=NOW() WHERE id=$2`
	return r.exec(ctx, query, suspended, id)
}

func (r *userRepository) SetResetTicket(ctx context.Context, id, tokenHash string, expiresAt time.Time) error {
	const query = `
        UPDATE users SET password_reset_token_hash=$1, password_reset_expires_at=$2, updated_at=NOW()
        WHERE id=$3`
	return r.exec(ctx, query, tokenHash, expiresAt, id)
}

func (r *userRepository) ClearResetTicket(ctx context.Context, id string) error {
	const query = `
        UPDATE users SET password_reset_token_hash=NULL, password_reset_expires_at=NULL, updated_at=NOW()
        WHERE id=$1`
	return r.exec(ctx, query, id)
}

func (r *userRepository) GetByResetTicket(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error) {
	query := `SELECT ` + userColumns + `
        FROM users
        WHERE password_reset_token_hash=$1 AND password_reset_expires_at > $2`
	return scanUser(r.pool.QueryRow(ctx, query, tokenHash, now))
}

func (r *userRepository) exec(ctx context.Context, query string, args ...any) error {
	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
