package linkedin

import (
	"context"
	"errors"
	"fmt"

	"feather-api/internal/auth/provider"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

const (
	providerName = "linkedin"
	issuerURL    = "https://www.linkedin.com/oauth"
)

// Provider implements the identity-provider contract against LinkedIn's
// OpenID Connect endpoints. Token exchange goes through x/oauth2; the
// profile comes from the OIDC userinfo endpoint.
type Provider struct {
	oauthConfig  *oauth2.Config
	oidcProvider *oidc.Provider
}

func New(
	ctx context.Context,
	clientID string,
	clientSecret string,
	redirectURL string,
) (*Provider, error) {

	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, errors.New("linkedin oauth config missing required fields")
	}

	oidcProvider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to init linkedin oidc provider: %w", err)
	}

	oauthCfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     oidcProvider.Endpoint(),
		Scopes: []string{
			oidc.ScopeOpenID,
			"profile",
			"email",
		},
	}

	return &Provider{
		oauthConfig:  oauthCfg,
		oidcProvider: oidcProvider,
	}, nil
}

func (p *Provider) Name() string {
	return providerName
}

func (p *Provider) AuthCodeURL(state string) string {
	return p.oauthConfig.AuthCodeURL(state)
}

func (p *Provider) ExchangeCode(ctx context.Context, code string) (string, error) {
	tok, err := p.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return "", &provider.UpstreamError{Provider: providerName, Err: err}
	}
	if tok.AccessToken == "" {
		return "", &provider.UpstreamError{
			Provider: providerName,
			Err:      errors.New("empty access token in exchange response"),
		}
	}
	return tok.AccessToken, nil
}

func (p *Provider) FetchProfile(ctx context.Context, providerAccessToken string) (*provider.Profile, error) {
	source := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: providerAccessToken,
		TokenType:   "Bearer",
	})

	userInfo, err := p.oidcProvider.UserInfo(ctx, source)
	if err != nil {
		return nil, &provider.UpstreamError{Provider: providerName, Err: err}
	}

	var claims struct {
		Name string `json:"name"`
	}
	if err := userInfo.Claims(&claims); err != nil {
		return nil, &provider.UpstreamError{Provider: providerName, Err: err}
	}

	if userInfo.Email == "" {
		return nil, &provider.UpstreamError{
			Provider: providerName,
			Err:      errors.New("userinfo response missing email"),
		}
	}

	return &provider.Profile{
		Email:         userInfo.Email,
		Name:          claims.Name,
		EmailVerified: userInfo.EmailVerified,
	}, nil
}
