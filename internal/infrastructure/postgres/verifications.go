package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goodspace/backend/internal/domain"
)

// VerificationRepo provides typed operations on the email_verifications
// table. The table holds at most one record per email, enforced by a unique
// constraint.
type VerificationRepo struct {
	db DBTX
}

func NewVerificationRepo(db DBTX) *VerificationRepo { return &VerificationRepo{db: db} }

func (r *VerificationRepo) Create(ctx context.Context, v *domain.EmailVerification) error {
	query := `
		INSERT INTO email_verifications (email, code, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query, v.Email, v.Code, v.CreatedAt, v.ExpiresAt).Scan(&v.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert verification for %q: %w", v.Email, domain.ErrDuplicateEmail)
		}
		return fmt.Errorf("insert verification: %w", err)
	}
	return nil
}

// GetByEmailForUpdate loads the record under a row lock so that concurrent
// verify/consume calls for the same email serialize on the surrounding
// transaction.
func (r *VerificationRepo) GetByEmailForUpdate(ctx context.Context, email string) (*domain.EmailVerification, error) {
	query := `
		SELECT id, email, code, verified, created_at, expires_at
		FROM email_verifications
		WHERE email = $1
		FOR UPDATE`

	var v domain.EmailVerification
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&v.ID, &v.Email, &v.Code, &v.Verified, &v.CreatedAt, &v.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEmailNotFound
		}
		return nil, fmt.Errorf("select verification: %w", err)
	}
	return &v, nil
}

func (r *VerificationRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM email_verifications WHERE email = $1)`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("verification exists: %w", err)
	}
	return exists, nil
}

func (r *VerificationRepo) MarkVerified(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE email_verifications SET verified = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrEmailNotFound
	}
	return nil
}

// Consume deletes the verified, non-expired record for the email in a single
// statement, making the check-and-delete atomic.
func (r *VerificationRepo) Consume(ctx context.Context, email string, now time.Time) error {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		DELETE FROM email_verifications
		WHERE email = $1 AND verified AND expires_at > $2
		RETURNING id`, email, now,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("consume verification for %q: %w", email, domain.ErrNotVerified)
		}
		return fmt.Errorf("consume verification: %w", err)
	}
	return nil
}

func (r *VerificationRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM email_verifications WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired verifications: %w", err)
	}
	return res.RowsAffected()
}

func (r *VerificationRepo) DeleteExpiredByEmail(ctx context.Context, email string, now time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM email_verifications WHERE email = $1 AND expires_at <= $2`, email, now)
	if err != nil {
		return fmt.Errorf("supersede verification: %w", err)
	}
	return nil
}
