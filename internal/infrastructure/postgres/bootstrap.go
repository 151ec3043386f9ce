package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/goodspace/backend/internal/domain"
	"github.com/goodspace/backend/internal/pkg/password"
)

// EnsureAdmin inserts the bootstrap admin account on first start. Safe to
// call on every startup: the insert is a no-op when the email already exists.
func (s *Store) EnsureAdmin(ctx context.Context, email, rawPassword string) error {
	if email == "" || rawPassword == "" {
		slog.Info("admin bootstrap skipped: no credentials configured")
		return nil
	}

	hash, err := password.Hash(rawPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	roles := domain.Roles{domain.RoleUser, domain.RoleAdmin}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (email, password_hash, roles)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO NOTHING`,
		email, hash, roles.Join())
	if err != nil {
		return fmt.Errorf("insert admin: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		slog.Info("admin account created", "email", email)
	}
	return nil
}
