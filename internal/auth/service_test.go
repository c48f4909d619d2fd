package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"feather-api/internal/auth/provider"
	"feather-api/internal/token"
	"feather-api/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	profile     *provider.Profile
	exchangeErr error
}

func (s *stubProvider) Name() string { return "linkedin" }

func (s *stubProvider) AuthCodeURL(state string) string {
	return "https://example.com?state=" + state
}

func (s *stubProvider) ExchangeCode(context.Context, string) (string, error) {
	if s.exchangeErr != nil {
		return "", s.exchangeErr
	}
	return "provider-access-token", nil
}

func (s *stubProvider) FetchProfile(context.Context, string) (*provider.Profile, error) {
	return s.profile, nil
}

func newServiceRig(p provider.Provider) (*Service, *user.MemoryStore, *token.Codec) {
	codec := token.NewCodec("test-secret")
	builder := token.NewBuilder(codec, 15*time.Minute, 7*24*time.Hour)
	store := user.NewMemoryStore()
	return NewService(p, store, builder), store, codec
}

func TestServiceRegisterCreatesUserOnFirstLogin(t *testing.T) {
	p := &stubProvider{profile: &provider.Profile{Email: "jane@example.com", Name: "Jane"}}
	svc, store, codec := newServiceRig(p)

	u, pair, err := svc.Register(context.Background(), "auth-code")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "jane@example.com", u.Email)
	assert.Equal(t, []string{user.DefaultRole}, u.Roles)
	assert.Equal(t, []string{user.DefaultProvider}, u.OAuthProviders)

	claims, err := codec.Parse(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.Email, claims.Subject)

	stored, err := store.FindByEmail(context.Background(), u.Email)
	require.NoError(t, err)
	assert.Equal(t, pair.AccessToken, stored.AccessToken)
	assert.Equal(t, pair.RefreshToken, stored.RefreshToken)
}

func TestServiceRegisterRotatesExistingUser(t *testing.T) {
	p := &stubProvider{profile: &provider.Profile{Email: "jane@example.com"}}
	svc, store, _ := newServiceRig(p)

	existing := user.New("jane@example.com")
	existing.AccessToken = "old-access"
	existing.RefreshToken = "old-refresh"
	require.NoError(t, store.Save(context.Background(), existing))

	_, pair, err := svc.Register(context.Background(), "auth-code")
	require.NoError(t, err)
	assert.NotEqual(t, "old-access", pair.AccessToken)

	stored, err := store.FindByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, pair.AccessToken, stored.AccessToken)
	assert.Equal(t, pair.RefreshToken, stored.RefreshToken)
}

func TestServiceRegisterPropagatesUpstreamError(t *testing.T) {
	upstream := &provider.UpstreamError{Provider: "linkedin", Err: errors.New("503")}
	p := &stubProvider{exchangeErr: upstream}
	svc, _, _ := newServiceRig(p)

	_, _, err := svc.Register(context.Background(), "auth-code")
	var got *provider.UpstreamError
	assert.ErrorAs(t, err, &got)
}

func TestServiceLogoutIsIdempotent(t *testing.T) {
	p := &stubProvider{profile: &provider.Profile{Email: "jane@example.com"}}
	svc, store, _ := newServiceRig(p)

	u, _, err := svc.Register(context.Background(), "auth-code")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		require.NoError(t, svc.Logout(context.Background(), u))
		stored, err := store.FindByEmail(context.Background(), u.Email)
		require.NoError(t, err)
		assert.Empty(t, stored.AccessToken)
		assert.Empty(t, stored.RefreshToken)
	}
}
