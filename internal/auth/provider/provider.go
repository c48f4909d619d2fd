package provider

import (
	"context"
	"fmt"
)

// Profile is the normalized identity returned by the external provider.
type Profile struct {
	Email         string
	Name          string
	EmailVerified bool
}

// Provider is the contract for the external OAuth2 identity provider.
// Implementations exchange codes and fetch profiles only; user
// creation and token minting happen in the auth service.
type Provider interface {
	Name() string

	// AuthCodeURL returns the provider authorization URL for the login
	// redirect. State is supplied by the caller.
	AuthCodeURL(state string) string

	// ExchangeCode trades the authorization code for the provider's
	// access token.
	ExchangeCode(ctx context.Context, code string) (string, error)

	// FetchProfile retrieves the member profile with a provider access
	// token obtained from ExchangeCode.
	FetchProfile(ctx context.Context, providerAccessToken string) (*Profile, error)
}

// UpstreamError wraps a failed call to the identity provider. The
// transport layer surfaces it as 502 rather than 401: the caller's
// credentials were never evaluated.
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s provider call failed: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
