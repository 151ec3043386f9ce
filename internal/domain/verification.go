package domain

import "time"

// EmailVerification is a pending email-to-code binding. At most one record
// exists per email at any instant; a record is never reused after it has been
// consumed by sign-up or email change.
type EmailVerification struct {
	ID        int64
	Email     string
	Code      string
	Verified  bool
	CreatedAt time.Time
	ExpiresAt time.Time
}

// IsExpired reports whether the record is past its TTL at the given instant.
// A record is live strictly before ExpiresAt; at the boundary instant it is
// already expired, matching the store's consume and purge predicates.
func (v *EmailVerification) IsExpired(now time.Time) bool {
	return !v.ExpiresAt.After(now)
}

// HasCode reports whether the submitted code matches the issued one.
func (v *EmailVerification) HasCode(code string) bool {
	return v.Code == code
}

type CodeSendRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required"`
}
