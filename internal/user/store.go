package user

import "context"

// Store persists user records. Token updates are split per kind so the
// orchestrator can write exactly the token that rotated and nothing else.
type Store interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	Save(ctx context.Context, u *User) error
	UpdateAccessToken(ctx context.Context, u *User, token string) error
	UpdateRefreshToken(ctx context.Context, u *User, token string) error
}
