package token

import (
	"testing"
	"time"

	"feather-api/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signFor(t *testing.T, codec *Codec, subject string, issuedAt, expiresAt time.Time) string {
	t.Helper()
	raw, err := codec.Sign(subject, nil, issuedAt, expiresAt)
	require.NoError(t, err)
	return raw
}

func TestValidatorBelongsTo(t *testing.T) {
	codec := NewCodec("test-secret")
	v := NewValidator(codec, time.Hour)
	now := time.Now()

	u := user.New("jane@example.com")
	stored := signFor(t, codec, u.Email, now, now.Add(time.Hour))
	u.AccessToken = stored

	t.Run("live token matches", func(t *testing.T) {
		assert.True(t, v.BelongsTo(stored, u, Access))
	})

	t.Run("valid signed unexpired token that is not the stored one", func(t *testing.T) {
		// ownership invariant: rotation and logout must invalidate
		// older tokens even though they still verify and are unexpired
		other := signFor(t, codec, u.Email, now.Add(time.Second), now.Add(2*time.Hour))
		require.NotEqual(t, stored, other)
		assert.False(t, v.BelongsTo(other, u, Access))
	})

	t.Run("subject of a different user", func(t *testing.T) {
		foreign := signFor(t, codec, "mallory@example.com", now, now.Add(time.Hour))
		u2 := user.New("jane@example.com")
		u2.AccessToken = foreign
		assert.False(t, v.BelongsTo(foreign, u2, Access))
	})

	t.Run("wrong kind", func(t *testing.T) {
		assert.False(t, v.BelongsTo(stored, u, Refresh))
	})

	t.Run("unparseable token", func(t *testing.T) {
		assert.False(t, v.BelongsTo("garbage", u, Access))
	})
}

func TestValidatorIsExpiredBoundary(t *testing.T) {
	codec := NewCodec("test-secret")
	v := NewValidator(codec, time.Hour)

	// the validator compares against the expiry as serialized into the
	// token, so the clock is driven relative to the parsed claim rather
	// than the pre-signing input
	now := time.Now()
	raw := signFor(t, codec, "jane@example.com", now.Add(-time.Minute), now.Add(time.Hour))
	claims, err := codec.Parse(raw)
	require.NoError(t, err)
	expiresAt := claims.ExpiresAt

	tests := []struct {
		name    string
		clock   time.Time
		expired bool
	}{
		{"one millisecond before expiry", expiresAt.Add(-time.Millisecond), false},
		{"exactly at expiry", expiresAt, true},
		{"one millisecond after expiry", expiresAt.Add(time.Millisecond), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v.now = fixedClock(tt.clock)
			assert.Equal(t, tt.expired, v.IsExpired(raw))
		})
	}
}

func TestValidatorIsNearExpiry(t *testing.T) {
	codec := NewCodec("test-secret")
	v := NewValidator(codec, time.Hour)
	at := time.Now().Truncate(time.Millisecond)
	v.now = fixedClock(at)

	tests := []struct {
		name      string
		expiresAt time.Time
		near      bool
	}{
		{"inside the rotation window", at.Add(30 * time.Minute), true},
		{"outside the rotation window", at.Add(2 * time.Hour), false},
		{"already expired", at.Add(-time.Minute), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := signFor(t, codec, "jane@example.com", at.Add(-time.Minute), tt.expiresAt)
			assert.Equal(t, tt.near, v.IsNearExpiry(raw))
		})
	}
}
