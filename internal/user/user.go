package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultRole     = "DEFAULT_USER"
	DefaultProvider = "linkedin"
)

// ErrNotFound is returned by stores when no user exists for an email.
var ErrNotFound = errors.New("user not found")

// User is the identity record owned by the authentication pipeline.
// At most one live access token and one live refresh token exist per
// user; both are empty strings after logout.
type User struct {
	ID             uuid.UUID
	Email          string
	AccessToken    string
	RefreshToken   string
	Roles          []string
	OAuthProviders []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// New creates a user with the default role and oauth provider, the
// state of a first federated login before any tokens are minted.
func New(email string) *User {
	return &User{
		Email:          email,
		Roles:          []string{DefaultRole},
		OAuthProviders: []string{DefaultProvider},
	}
}
