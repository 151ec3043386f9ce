package domain

import (
	"context"
	"time"
)

// UserRepository is the persistence surface for users. Implementations map
// store-level failures (missing rows, unique violations) onto the sentinel
// errors in this package.
type UserRepository interface {
	// Create inserts the user and assigns its id. Returns ErrDuplicateEmail
	// when the email-unique invariant would be violated.
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
	// UpdateEmail returns ErrDuplicateEmail when another user already holds
	// the new address.
	UpdateEmail(ctx context.Context, id int64, email string) error
	UpdateRefreshToken(ctx context.Context, id int64, token string) error
}

// VerificationRepository is the persistence surface for email verification
// records.
type VerificationRepository interface {
	// Create inserts the record. Returns ErrDuplicateEmail when a record for
	// the email already exists.
	Create(ctx context.Context, v *EmailVerification) error
	// GetByEmailForUpdate loads the record and locks it for the duration of
	// the surrounding transaction, serializing concurrent verifies.
	GetByEmailForUpdate(ctx context.Context, email string) (*EmailVerification, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	MarkVerified(ctx context.Context, id int64) error
	// Consume atomically deletes the verified, non-expired record for the
	// email. Returns ErrNotVerified when no such record exists.
	Consume(ctx context.Context, email string, now time.Time) error
	// DeleteExpired purges records whose TTL has passed and reports how many
	// were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	// DeleteExpiredByEmail supersedes a stale record so a fresh code can be
	// issued for the same address.
	DeleteExpiredByEmail(ctx context.Context, email string, now time.Time) error
}

// Tx groups the repositories bound to one transaction.
type Tx interface {
	Users() UserRepository
	Verifications() VerificationRepository
}

// Store runs functions inside a database transaction. fn's writes become
// visible only if it returns nil; any error or panic rolls everything back.
type Store interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
