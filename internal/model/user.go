package model

import (
	"fmt"
	"time"
)

// Role is the authorization role of a user
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole validates a role name. Empty input yields RoleUser.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case "":
		return RoleUser, nil
	case RoleUser, RoleAdmin:
		return Role(s), nil
	}
	return "", &ValidationError{Field: "role", Message: fmt.Sprintf("unknown role %q", s)}
}

// User represents a community member
type User struct {
	ID            string     `json:"id" db:"id"`
	Email         string     `json:"email" db:"email"`
	Name          string     `json:"name" db:"name"`
	Phone         *string    `json:"phone,omitempty" db:"phone"`
	Password      *string    `json:"-" db:"password"` // bcrypt hash
	Role          Role       `json:"role" db:"role"`
	EmailVerified *time.Time `json:"email_verified,omitempty" db:"email_verified"`
	Image         *string    `json:"image,omitempty" db:"image"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// Account links a user to an external authentication provider
type Account struct {
	ID                string    `json:"id" db:"id"`
	UserID            string    `json:"user_id" db:"user_id"`
	Type              string    `json:"type" db:"type"`
	Provider          string    `json:"provider" db:"provider"`
	ProviderAccountID string    `json:"provider_account_id" db:"provider_account_id"`
	RefreshToken      *string   `json:"-" db:"refresh_token"`
	AccessToken       *string   `json:"-" db:"access_token"`
	ExpiresAt         *int64    `json:"expires_at,omitempty" db:"expires_at"`
	TokenType         *string   `json:"token_type,omitempty" db:"token_type"`
	Scope             *string   `json:"scope,omitempty" db:"scope"`
	IDToken           *string   `json:"-" db:"id_token"`
	SessionState      *string   `json:"session_state,omitempty" db:"session_state"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// Session is a server-side login session
type Session struct {
	ID           string    `json:"id" db:"id"`
	SessionToken string    `json:"-" db:"session_token"`
	UserID       string    `json:"user_id" db:"user_id"`
	Expires      time.Time `json:"expires" db:"expires"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.Expires)
}

// VerificationToken is a single-use token, e.g. for email sign-in links
type VerificationToken struct {
	Identifier string    `json:"identifier" db:"identifier"`
	Token      string    `json:"-" db:"token"`
	Expires    time.Time `json:"expires" db:"expires"`
}

// Expired reports whether the token is no longer valid at now.
func (v VerificationToken) Expired(now time.Time) bool {
	return !now.Before(v.Expires)
}
