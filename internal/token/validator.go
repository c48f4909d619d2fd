package token

import (
	"time"

	"feather-api/internal/user"
)

// Validator answers the three questions the pipeline asks about a
// presented token: does it belong to this user, is it expired, and is
// it close enough to expiry that it should be rotated.
//
// "Belongs to" is stricter than signature validity: a correctly signed,
// unexpired token is still rejected unless it equals the single token
// currently recorded as live on the user record. Logout and rotation
// invalidate old tokens immediately through this check.
type Validator struct {
	codec        *Codec
	rotateWindow time.Duration
	now          func() time.Time
}

func NewValidator(codec *Codec, rotateWindow time.Duration) *Validator {
	return &Validator{
		codec:        codec,
		rotateWindow: rotateWindow,
		now:          time.Now,
	}
}

func (v *Validator) BelongsTo(raw string, u *user.User, kind Kind) bool {
	claims, err := v.codec.Parse(raw)
	if err != nil {
		return false
	}
	if claims.Subject != u.Email {
		return false
	}
	return raw == Stored(u, kind)
}

// IsExpired treats a token expiring exactly now as expired. Unparseable
// tokens are expired too; callers run BelongsTo first, so by then the
// only way Parse fails is a token mutated mid-request.
func (v *Validator) IsExpired(raw string) bool {
	claims, err := v.codec.Parse(raw)
	if err != nil {
		return true
	}
	return !claims.ExpiresAt.After(v.now())
}

// IsNearExpiry reports whether the remaining lifetime is below the
// rotation window. An already expired token is not "near" expiry; that
// case is handled by IsExpired.
func (v *Validator) IsNearExpiry(raw string) bool {
	claims, err := v.codec.Parse(raw)
	if err != nil {
		return false
	}
	remaining := claims.ExpiresAt.Sub(v.now())
	return remaining > 0 && remaining < v.rotateWindow
}
