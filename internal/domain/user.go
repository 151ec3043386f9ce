package domain

import (
	"encoding/json"
	"time"
)

// User is an account bound to a verified email address. The AAE core never
// destroys users; profile data is opaque to it and stored verbatim.
type User struct {
	ID           int64           `json:"id"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"-"`
	Roles        Roles           `json:"roles"`
	RefreshToken *string         `json:"-"`
	Profile      json.RawMessage `json:"profile,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type SignUpRequest struct {
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required"`
	Profile  json.RawMessage `json:"profile"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type PasswordUpdateRequest struct {
	PrevPassword string `json:"prevPassword" validate:"required"`
	NewPassword  string `json:"newPassword" validate:"required"`
}

type EmailUpdateRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// TokenPair is the credential pair returned by user-creating and sign-in
// operations.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
