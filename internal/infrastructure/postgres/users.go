package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goodspace/backend/internal/domain"
)

// UserRepo provides typed operations on the users table.
type UserRepo struct {
	db DBTX
}

func NewUserRepo(db DBTX) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (email, password_hash, roles, profile)
		VALUES ($1, $2, $3, COALESCE($4, '{}'::jsonb))
		RETURNING id, created_at, updated_at`

	var profile any
	if len(u.Profile) > 0 {
		profile = []byte(u.Profile)
	}
	err := r.db.QueryRowContext(ctx, query,
		u.Email, u.PasswordHash, u.Roles.Join(), profile,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert user %q: %w", u.Email, domain.ErrDuplicateEmail)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.get(ctx, `WHERE id = $1`, id)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.get(ctx, `WHERE email = $1`, email)
}

func (r *UserRepo) get(ctx context.Context, where string, arg any) (*domain.User, error) {
	query := `
		SELECT id, email, password_hash, roles, refresh_token, profile, created_at, updated_at
		FROM users ` + where

	var (
		u     domain.User
		roles string
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &roles, &u.RefreshToken, &u.Profile, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	u.Roles = domain.ParseRoles(roles)
	return &u, nil
}

func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("user exists: %w", err)
	}
	return exists, nil
}

func (r *UserRepo) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	return r.update(ctx,
		`UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`, id, hash)
}

func (r *UserRepo) UpdateEmail(ctx context.Context, id int64, email string) error {
	err := r.update(ctx,
		`UPDATE users SET email = $2, updated_at = now() WHERE id = $1`, id, email)
	if err != nil && isUniqueViolation(err) {
		return fmt.Errorf("update email to %q: %w", email, domain.ErrDuplicateEmail)
	}
	return err
}

func (r *UserRepo) UpdateRefreshToken(ctx context.Context, id int64, token string) error {
	return r.update(ctx,
		`UPDATE users SET refresh_token = $2, updated_at = now() WHERE id = $1`, id, token)
}

func (r *UserRepo) update(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("update user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
