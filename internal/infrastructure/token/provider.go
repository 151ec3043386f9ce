// Package token issues and verifies the signed bearer credentials used by
// the identity service: short-lived ACCESS tokens and long-lived REFRESH
// tokens carrying the same claim set.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goodspace/backend/internal/domain"
	"github.com/goodspace/backend/internal/pkg/clock"
)

func init() {
	// Millisecond precision gives tokens a fractional-second issued-at, so
	// sequential issuance for the same subject carries non-decreasing iat
	// values even within one second.
	jwt.TimePrecision = time.Millisecond
}

// Claims is the JWT payload: subject id, token class and role set.
type Claims struct {
	UserID int64             `json:"uid"`
	Class  domain.TokenClass `json:"class"`
	Roles  domain.Roles      `json:"roles"`
	jwt.RegisteredClaims
}

// Provider signs and verifies HS256 JWTs with a server-held secret. The
// secret never appears in the token; signature checks are constant-time.
type Provider struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	clock      clock.Clock
}

func NewProvider(secret string, accessTTL, refreshTTL time.Duration, clk clock.Clock) *Provider {
	return &Provider{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		clock:      clk,
	}
}

// Issue creates a signed token of the given class for the subject.
func (p *Provider) Issue(userID int64, class domain.TokenClass, roles domain.Roles) (string, error) {
	ttl := p.accessTTL
	if class == domain.TokenRefresh {
		ttl = p.refreshTTL
	}
	now := p.clock.Now()
	claims := Claims{
		UserID: userID,
		Class:  class,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry and returns the claims. Expired
// tokens surface as domain.ErrExpiredToken, everything else that fails
// verification as domain.ErrInvalidToken.
func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	}, jwt.WithTimeFunc(p.clock.Now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("token expired: %w", domain.ErrExpiredToken)
		}
		return nil, fmt.Errorf("token verification: %w", domain.ErrInvalidToken)
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, fmt.Errorf("token claims: %w", domain.ErrInvalidToken)
	}
	return claims, nil
}
