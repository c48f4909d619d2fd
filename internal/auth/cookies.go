package auth

import (
	"net/http"
	"time"

	"feather-api/internal/token"
)

// CookieWriter issues and clears the two token cookies. The Secure
// flag follows the environment profile: off in dev, on everywhere else.
type CookieWriter struct {
	secure bool
}

func NewCookieWriter(secure bool) *CookieWriter {
	return &CookieWriter{secure: secure}
}

// Set writes a token cookie with Max-Age equal to the kind's TTL.
func (w *CookieWriter) Set(rw http.ResponseWriter, kind token.Kind, value string, ttl time.Duration) {
	http.SetCookie(rw, &http.Cookie{
		Name:     kind.CookieName(),
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   w.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear removes a token cookie from the client.
func (w *CookieWriter) Clear(rw http.ResponseWriter, kind token.Kind) {
	http.SetCookie(rw, &http.Cookie{
		Name:     kind.CookieName(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   w.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
