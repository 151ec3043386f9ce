// Package verification owns the email verification records: code issuance,
// delivery, verification and expiry sweeping. Records move through
// issued → verified and are consumed (deleted) by the identity service.
package verification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/goodspace/backend/internal/domain"
	"github.com/goodspace/backend/internal/infrastructure/smtp"
	"github.com/goodspace/backend/internal/pkg/clock"
	"github.com/goodspace/backend/internal/pkg/code"
)

type Service interface {
	SendVerificationCode(ctx context.Context, email string) error
	VerifyEmail(ctx context.Context, email, codeStr string) error
	PurgeExpired(ctx context.Context) (int64, error)
}

type service struct {
	store      domain.Store
	mailer     smtp.Mailer
	clock      clock.Clock
	codeLength int
	ttl        time.Duration
}

func NewService(store domain.Store, mailer smtp.Mailer, clk clock.Clock, codeLength int, ttl time.Duration) Service {
	return &service{
		store:      store,
		mailer:     mailer,
		clock:      clk,
		codeLength: codeLength,
		ttl:        ttl,
	}
}

// SendVerificationCode issues a fresh one-time code for the email and mails
// it. The insert and the SMTP handoff share one transaction: if the transport
// rejects the message, the record is rolled back and the caller may retry.
func (s *service) SendVerificationCode(ctx context.Context, email string) error {
	return s.store.WithTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		now := s.clock.Now()

		// A stale record no longer blocks re-issuance; supersede it first.
		if err := tx.Verifications().DeleteExpiredByEmail(ctx, email, now); err != nil {
			return err
		}

		userExists, err := tx.Users().ExistsByEmail(ctx, email)
		if err != nil {
			return err
		}
		verificationExists, err := tx.Verifications().ExistsByEmail(ctx, email)
		if err != nil {
			return err
		}
		if userExists || verificationExists {
			return fmt.Errorf("verification for %q: %w", email, domain.ErrDuplicateEmail)
		}

		codeStr, err := code.Generate(s.codeLength)
		if err != nil {
			return err
		}

		record := &domain.EmailVerification{
			Email:     email,
			Code:      codeStr,
			CreatedAt: now,
			ExpiresAt: now.Add(s.ttl),
		}
		if err := tx.Verifications().Create(ctx, record); err != nil {
			return err
		}

		body, err := renderMessage(codeStr, int(s.ttl.Minutes()))
		if err != nil {
			return err
		}
		if err := s.mailer.SendEmail(ctx, email, mailSubject, body); err != nil {
			return fmt.Errorf("send verification mail: %w", err)
		}
		return nil
	})
}

// VerifyEmail marks the record verified when the code matches and the record
// has not expired. The record stays in place either way; deletion happens in
// Consume. The row lock serializes concurrent verifies for the same email.
func (s *service) VerifyEmail(ctx context.Context, email, codeStr string) error {
	return s.store.WithTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		record, err := tx.Verifications().GetByEmailForUpdate(ctx, email)
		if err != nil {
			return err
		}
		if record.IsExpired(s.clock.Now()) {
			return fmt.Errorf("verification for %q: %w", email, domain.ErrVerificationExpired)
		}
		if !record.HasCode(codeStr) {
			return fmt.Errorf("verification for %q: %w", email, domain.ErrIllegalCode)
		}
		return tx.Verifications().MarkVerified(ctx, record.ID)
	})
}

// PurgeExpired removes records past their TTL.
func (s *service) PurgeExpired(ctx context.Context) (int64, error) {
	var purged int64
	err := s.store.WithTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		n, err := tx.Verifications().DeleteExpired(ctx, s.clock.Now())
		purged = n
		return err
	})
	return purged, err
}

// StartSweeper purges expired records every interval until ctx is cancelled.
func StartSweeper(ctx context.Context, svc Service, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := svc.PurgeExpired(ctx)
				if err != nil {
					slog.Error("verification sweep failed", "err", err)
					continue
				}
				if n > 0 {
					slog.Info("purged expired verifications", "count", n)
				}
			}
		}
	}()
}
