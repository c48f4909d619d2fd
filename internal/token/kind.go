package token

import "feather-api/internal/user"

// Kind distinguishes the two JWT variants the pipeline issues. Access
// tokens are short-lived and carry role claims; refresh tokens are
// longer-lived and exist only to mint new access tokens.
type Kind int

const (
	Access Kind = iota
	Refresh
)

func (k Kind) String() string {
	if k == Access {
		return "access_token"
	}
	return "refresh_token"
}

// CookieName is the transport cookie carrying a token of this kind.
func (k Kind) CookieName() string {
	if k == Access {
		return "access_token_cookie"
	}
	return "refresh_token_cookie"
}

// Stored returns the token value currently recorded as live on the user
// record for the given kind.
func Stored(u *user.User, k Kind) string {
	if k == Access {
		return u.AccessToken
	}
	return u.RefreshToken
}
