package token

import (
	"context"
	"errors"
	"testing"
	"time"

	"feather-api/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore records per-kind token writes over a MemoryStore.
type countingStore struct {
	*user.MemoryStore
	accessWrites  int
	refreshWrites int
	failAccess    error
}

func (s *countingStore) UpdateAccessToken(ctx context.Context, u *user.User, tok string) error {
	s.accessWrites++
	if s.failAccess != nil {
		return s.failAccess
	}
	return s.MemoryStore.UpdateAccessToken(ctx, u, tok)
}

func (s *countingStore) UpdateRefreshToken(ctx context.Context, u *user.User, tok string) error {
	s.refreshWrites++
	return s.MemoryStore.UpdateRefreshToken(ctx, u, tok)
}

type refresherRig struct {
	codec     *Codec
	builder   *Builder
	validator *Validator
	store     *countingStore
	refresher *Refresher
}

func newRefresherRig(t *testing.T) *refresherRig {
	t.Helper()

	codec := NewCodec("test-secret")
	builder := NewBuilder(codec, 15*time.Minute, 7*24*time.Hour)
	validator := NewValidator(codec, time.Hour)
	store := &countingStore{MemoryStore: user.NewMemoryStore()}

	return &refresherRig{
		codec:     codec,
		builder:   builder,
		validator: validator,
		store:     store,
		refresher: NewRefresher(store, builder, validator, NoopLocker{}),
	}
}

// seedUser stores a user whose live tokens have the given lifetimes
// relative to now. Negative remaining means already expired.
func (r *refresherRig) seedUser(t *testing.T, email string, accessRemaining, refreshRemaining time.Duration) *user.User {
	t.Helper()

	now := time.Now()
	u := user.New(email)

	access, err := r.codec.Sign(email, u.Roles, now.Add(accessRemaining-15*time.Minute), now.Add(accessRemaining))
	require.NoError(t, err)
	refresh, err := r.codec.Sign(email, nil, now.Add(refreshRemaining-7*24*time.Hour), now.Add(refreshRemaining))
	require.NoError(t, err)

	u.AccessToken = access
	u.RefreshToken = refresh
	require.NoError(t, r.store.Save(context.Background(), u))
	return u
}

func TestRefresherSuccessIsIdempotent(t *testing.T) {
	rig := newRefresherRig(t)
	u := rig.seedUser(t, "jane@example.com", 10*time.Minute, 6*24*time.Hour)

	for i := 0; i < 2; i++ {
		outcome, err := rig.refresher.Refresh(context.Background(), u.AccessToken, u.RefreshToken, u)
		require.NoError(t, err)
		assert.Equal(t, StatusSuccess, outcome.Status)
		assert.Equal(t, u.AccessToken, outcome.AccessToken)
		assert.Equal(t, u.RefreshToken, outcome.RefreshToken)
	}

	assert.Zero(t, rig.store.accessWrites)
	assert.Zero(t, rig.store.refreshWrites)
}

func TestRefresherRotatesExpiredAccessToken(t *testing.T) {
	rig := newRefresherRig(t)
	u := rig.seedUser(t, "jane@example.com", -time.Minute, 6*24*time.Hour)

	outcome, err := rig.refresher.Refresh(context.Background(), u.AccessToken, u.RefreshToken, u)
	require.NoError(t, err)

	assert.Equal(t, StatusRefreshed, outcome.Status)
	assert.NotEqual(t, u.AccessToken, outcome.AccessToken)
	assert.Equal(t, u.RefreshToken, outcome.RefreshToken)
	assert.Equal(t, 1, rig.store.accessWrites)
	assert.Zero(t, rig.store.refreshWrites)

	claims, err := rig.codec.Parse(outcome.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.Email, claims.Subject)

	// the returned user reflects the persisted rotation
	assert.Equal(t, outcome.AccessToken, outcome.User.AccessToken)
	stored, err := rig.store.FindByEmail(context.Background(), u.Email)
	require.NoError(t, err)
	assert.Equal(t, outcome.AccessToken, stored.AccessToken)
}

func TestRefresherExpiredRefreshTokenIsTerminal(t *testing.T) {
	rig := newRefresherRig(t)
	u := rig.seedUser(t, "jane@example.com", -time.Minute, -time.Minute)

	outcome, err := rig.refresher.Refresh(context.Background(), u.AccessToken, u.RefreshToken, u)
	assert.ErrorIs(t, err, ErrExpiredRefreshToken)
	assert.Nil(t, outcome)
	assert.Zero(t, rig.store.accessWrites)
	assert.Zero(t, rig.store.refreshWrites)
}

func TestRefresherRejectsForeignTokens(t *testing.T) {
	rig := newRefresherRig(t)
	u := rig.seedUser(t, "jane@example.com", 10*time.Minute, 6*24*time.Hour)
	now := time.Now()

	// correctly signed, unexpired, right subject, but not the stored value
	strayAccess, err := rig.codec.Sign(u.Email, u.Roles, now.Add(time.Second), now.Add(time.Hour))
	require.NoError(t, err)
	strayRefresh, err := rig.codec.Sign(u.Email, nil, now.Add(time.Second), now.Add(48*time.Hour))
	require.NoError(t, err)

	_, err = rig.refresher.Refresh(context.Background(), u.AccessToken, strayRefresh, u)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	_, err = rig.refresher.Refresh(context.Background(), strayAccess, u.RefreshToken, u)
	assert.ErrorIs(t, err, ErrInvalidAccessToken)

	assert.Zero(t, rig.store.accessWrites)
	assert.Zero(t, rig.store.refreshWrites)
}

func TestRefresherRotatesNearExpiryRefreshToken(t *testing.T) {
	rig := newRefresherRig(t)
	// refresh token inside the one hour rotation window, access token live
	u := rig.seedUser(t, "jane@example.com", 10*time.Minute, 30*time.Minute)

	outcome, err := rig.refresher.Refresh(context.Background(), u.AccessToken, u.RefreshToken, u)
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, outcome.Status)
	assert.Equal(t, u.AccessToken, outcome.AccessToken)
	assert.NotEqual(t, u.RefreshToken, outcome.RefreshToken)
	assert.Zero(t, rig.store.accessWrites)
	assert.Equal(t, 1, rig.store.refreshWrites)
	assert.Equal(t, outcome.RefreshToken, outcome.User.RefreshToken)
}

func TestRefresherRotatesBothInOnePass(t *testing.T) {
	rig := newRefresherRig(t)
	u := rig.seedUser(t, "jane@example.com", -time.Minute, 30*time.Minute)

	outcome, err := rig.refresher.Refresh(context.Background(), u.AccessToken, u.RefreshToken, u)
	require.NoError(t, err)

	assert.Equal(t, StatusRefreshed, outcome.Status)
	assert.NotEqual(t, u.AccessToken, outcome.AccessToken)
	assert.NotEqual(t, u.RefreshToken, outcome.RefreshToken)
	assert.Equal(t, 1, rig.store.accessWrites)
	assert.Equal(t, 1, rig.store.refreshWrites)
}

func TestRefresherPropagatesStoreWriteFailure(t *testing.T) {
	rig := newRefresherRig(t)
	u := rig.seedUser(t, "jane@example.com", -time.Minute, 6*24*time.Hour)
	rig.store.failAccess = errors.New("connection reset")

	outcome, err := rig.refresher.Refresh(context.Background(), u.AccessToken, u.RefreshToken, u)
	require.Error(t, err)
	assert.Nil(t, outcome)
	assert.ErrorContains(t, err, "connection reset")
}

func TestRefresherUnknownUser(t *testing.T) {
	rig := newRefresherRig(t)
	ghost := user.New("ghost@example.com")

	_, err := rig.refresher.Refresh(context.Background(), "a", "b", ghost)
	assert.ErrorIs(t, err, user.ErrNotFound)
}
