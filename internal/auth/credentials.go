package auth

import (
	"net/http"
	"strings"

	"feather-api/internal/token"
)

const (
	APIKeyHeader        = "X-API-KEY"
	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "
)

// Credentials is everything a request presented for authentication.
// It lives for one request and is never persisted.
type Credentials struct {
	APIKey       string
	AccessToken  string
	RefreshToken string
}

// FromRequest extracts the credential bundle. The access token may
// arrive either as a bearer Authorization header or as a cookie,
// depending on the deployment; the header wins when both are present.
func FromRequest(r *http.Request) Credentials {
	return Credentials{
		APIKey:       r.Header.Get(APIKeyHeader),
		AccessToken:  accessTokenFrom(r),
		RefreshToken: cookieValue(r, token.Refresh.CookieName()),
	}
}

func accessTokenFrom(r *http.Request) string {
	if h := r.Header.Get(AuthorizationHeader); strings.HasPrefix(h, BearerPrefix) {
		return strings.TrimPrefix(h, BearerPrefix)
	}
	return cookieValue(r, token.Access.CookieName())
}

func cookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
