package auth

import (
	"context"
	"errors"
	"fmt"

	"feather-api/internal/auth/provider"
	"feather-api/internal/logger"
	"feather-api/internal/token"
	"feather-api/internal/user"
)

// TokenPair is the freshly minted credential pair handed back on a
// completed federated login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Service handles the federated login completion and logout.
type Service struct {
	provider provider.Provider
	store    user.Store
	builder  *token.Builder
}

func NewService(p provider.Provider, store user.Store, builder *token.Builder) *Service {
	return &Service{
		provider: p,
		store:    store,
		builder:  builder,
	}
}

// Register completes a federated login: exchanges the authorization
// code, fetches the member profile, finds or creates the user for the
// profile email, and mints and persists a fresh token pair.
func (s *Service) Register(ctx context.Context, code string) (*user.User, TokenPair, error) {
	providerToken, err := s.provider.ExchangeCode(ctx, code)
	if err != nil {
		return nil, TokenPair{}, err
	}

	profile, err := s.provider.FetchProfile(ctx, providerToken)
	if err != nil {
		return nil, TokenPair{}, err
	}

	u, err := s.store.FindByEmail(ctx, profile.Email)
	switch {
	case errors.Is(err, user.ErrNotFound):
		u = user.New(profile.Email)
		logger.Info("creating user on first login", map[string]any{
			"provider": s.provider.Name(),
		})
	case err != nil:
		return nil, TokenPair{}, err
	}

	pair, err := s.issueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

func (s *Service) issueTokens(ctx context.Context, u *user.User) (TokenPair, error) {
	accessToken, err := s.builder.Build(u, token.Access)
	if err != nil {
		return TokenPair{}, err
	}
	refreshToken, err := s.builder.Build(u, token.Refresh)
	if err != nil {
		return TokenPair{}, err
	}

	u.AccessToken = accessToken
	u.RefreshToken = refreshToken
	if err := s.store.Save(ctx, u); err != nil {
		return TokenPair{}, fmt.Errorf("auth: persist issued tokens: %w", err)
	}

	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Logout clears both stored tokens. Idempotent: logging out twice, or
// with tokens already empty, succeeds.
func (s *Service) Logout(ctx context.Context, u *user.User) error {
	if err := s.store.UpdateAccessToken(ctx, u, ""); err != nil {
		return err
	}
	return s.store.UpdateRefreshToken(ctx, u, "")
}
