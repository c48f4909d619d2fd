package token

import (
	"time"

	"feather-api/internal/user"
)

// Builder mints signed tokens for a user. Access tokens embed the
// user's role names; refresh tokens carry no roles.
type Builder struct {
	codec      *Codec
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewBuilder(codec *Codec, accessTTL, refreshTTL time.Duration) *Builder {
	return &Builder{
		codec:      codec,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (b *Builder) Build(u *user.User, kind Kind) (string, error) {
	var roles []string
	if kind == Access {
		roles = u.Roles
	}

	issuedAt := b.now()
	return b.codec.Sign(u.Email, roles, issuedAt, issuedAt.Add(b.TTL(kind)))
}

func (b *Builder) TTL(kind Kind) time.Duration {
	if kind == Access {
		return b.accessTTL
	}
	return b.refreshTTL
}
