// Package identity orchestrates sign-up, sign-in and credential mutation.
// It is the only component that creates users or touches their credentials,
// and every operation runs in a single store transaction.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/goodspace/backend/internal/domain"
	"github.com/goodspace/backend/internal/pkg/clock"
	"github.com/goodspace/backend/internal/pkg/password"
)

// TokenIssuer is the credential-issuing capability the service depends on.
type TokenIssuer interface {
	Issue(userID int64, class domain.TokenClass, roles domain.Roles) (string, error)
}

type Service interface {
	SignUp(ctx context.Context, req domain.SignUpRequest) (*domain.TokenPair, error)
	SignIn(ctx context.Context, req domain.SignInRequest) (*domain.TokenPair, error)
	UpdatePassword(ctx context.Context, userID int64, req domain.PasswordUpdateRequest) (string, error)
	UpdateEmail(ctx context.Context, userID int64, req domain.EmailUpdateRequest) (string, error)
}

type service struct {
	store  domain.Store
	issuer TokenIssuer
	clock  clock.Clock
}

func NewService(store domain.Store, issuer TokenIssuer, clk clock.Clock) Service {
	return &service{store: store, issuer: issuer, clock: clk}
}

// SignUp consumes the verified email record, persists the user with a hashed
// password and returns a fresh token pair. The refresh token is written to
// the user row before the pair is returned.
func (s *service) SignUp(ctx context.Context, req domain.SignUpRequest) (*domain.TokenPair, error) {
	var pair *domain.TokenPair
	err := s.store.WithTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		if err := tx.Verifications().Consume(ctx, req.Email, s.clock.Now()); err != nil {
			return err
		}
		if !password.IsLegal(req.Password) {
			return fmt.Errorf("sign up %q: %w", req.Email, domain.ErrIllegalPassword)
		}
		hash, err := password.Hash(req.Password)
		if err != nil {
			return err
		}

		user := &domain.User{
			Email:        req.Email,
			PasswordHash: hash,
			Roles:        domain.Roles{domain.RoleUser},
			Profile:      req.Profile,
		}
		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}

		pair, err = s.issueTokenPair(ctx, tx, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// SignIn authenticates by email and password. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *service) SignIn(ctx context.Context, req domain.SignInRequest) (*domain.TokenPair, error) {
	var pair *domain.TokenPair
	err := s.store.WithTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		user, err := tx.Users().GetByEmail(ctx, req.Email)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return domain.ErrSignInFailed
			}
			return err
		}
		ok, err := password.Matches(req.Password, user.PasswordHash)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrSignInFailed
		}

		pair, err = s.issueTokenPair(ctx, tx, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// UpdatePassword verifies the previous password, stores the new hash and
// rotates the refresh token, invalidating the previously stored one.
func (s *service) UpdatePassword(ctx context.Context, userID int64, req domain.PasswordUpdateRequest) (string, error) {
	var refresh string
	err := s.store.WithTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		user, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			return err
		}
		ok, err := password.Matches(req.PrevPassword, user.PasswordHash)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("update password for user %d: %w", userID, domain.ErrWrongPassword)
		}
		if !password.IsLegal(req.NewPassword) {
			return fmt.Errorf("update password for user %d: %w", userID, domain.ErrIllegalPassword)
		}
		hash, err := password.Hash(req.NewPassword)
		if err != nil {
			return err
		}
		if err := tx.Users().UpdatePasswordHash(ctx, userID, hash); err != nil {
			return err
		}

		refresh, err = s.rotateRefreshToken(ctx, tx, user)
		return err
	})
	if err != nil {
		return "", err
	}
	return refresh, nil
}

// UpdateEmail consumes the verified record for the new address, moves the
// user to it and rotates the refresh token.
func (s *service) UpdateEmail(ctx context.Context, userID int64, req domain.EmailUpdateRequest) (string, error) {
	var refresh string
	err := s.store.WithTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		if err := tx.Verifications().Consume(ctx, req.Email, s.clock.Now()); err != nil {
			return err
		}
		user, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if err := tx.Users().UpdateEmail(ctx, userID, req.Email); err != nil {
			return err
		}

		refresh, err = s.rotateRefreshToken(ctx, tx, user)
		return err
	})
	if err != nil {
		return "", err
	}
	return refresh, nil
}

// issueTokenPair creates an access/refresh pair and durably stores the
// refresh token on the user before returning.
func (s *service) issueTokenPair(ctx context.Context, tx domain.Tx, user *domain.User) (*domain.TokenPair, error) {
	access, err := s.issuer.Issue(user.ID, domain.TokenAccess, user.Roles)
	if err != nil {
		return nil, err
	}
	refresh, err := s.issuer.Issue(user.ID, domain.TokenRefresh, user.Roles)
	if err != nil {
		return nil, err
	}
	if err := tx.Users().UpdateRefreshToken(ctx, user.ID, refresh); err != nil {
		return nil, err
	}
	return &domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *service) rotateRefreshToken(ctx context.Context, tx domain.Tx, user *domain.User) (string, error) {
	refresh, err := s.issuer.Issue(user.ID, domain.TokenRefresh, user.Roles)
	if err != nil {
		return "", err
	}
	if err := tx.Users().UpdateRefreshToken(ctx, user.ID, refresh); err != nil {
		return "", err
	}
	return refresh, nil
}
