package middleware

import (
	"errors"
	"net/http"

	"feather-api/internal/auth"
	"feather-api/internal/endpoint"
	"feather-api/internal/events"
	"feather-api/internal/logger"
	"feather-api/internal/token"
	"feather-api/internal/user"

	"github.com/gin-gonic/gin"
)

// Failure event names, kept stable for the analytics dashboards.
const (
	eventAPIKeyFailure  = "api_key_authentication_exception"
	eventJWTFailure     = "jwt_authentication_exception"
	eventUserNotFound   = "user_not_found_exception"
	eventGenericFailure = "authentication_exception"
)

// Gatekeeper authenticates every request according to the tier its
// path was classified under. One pass per request, no fallback across
// tiers: a fully-authenticated path never degrades to api-key checks.
type Gatekeeper struct {
	table     *endpoint.Table
	apiKey    *auth.APIKeyChecker
	store     user.Store
	codec     *token.Codec
	refresher *token.Refresher
	builder   *token.Builder
	cookies   *auth.CookieWriter
	sink      events.Sink
}

func NewGatekeeper(
	table *endpoint.Table,
	apiKey *auth.APIKeyChecker,
	store user.Store,
	codec *token.Codec,
	refresher *token.Refresher,
	builder *token.Builder,
	cookies *auth.CookieWriter,
	sink events.Sink,
) *Gatekeeper {
	return &Gatekeeper{
		table:     table,
		apiKey:    apiKey,
		store:     store,
		codec:     codec,
		refresher: refresher,
		builder:   builder,
		cookies:   cookies,
		sink:      sink,
	}
}

func (g *Gatekeeper) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		tier := g.table.Match(c.Request.URL.Path)

		switch tier {
		case endpoint.TierPublic:
			c.Next()
		case endpoint.TierAPIKey:
			g.handleAPIKeyTier(c)
		default:
			g.handleFullTier(c)
		}
	}
}

func (g *Gatekeeper) handleAPIKeyTier(c *gin.Context) {
	creds := auth.FromRequest(c.Request)
	if err := g.apiKey.Check(creds.APIKey); err != nil {
		g.reject(c, err)
		return
	}
	c.Next()
}

func (g *Gatekeeper) handleFullTier(c *gin.Context) {
	creds := auth.FromRequest(c.Request)

	if err := g.apiKey.Check(creds.APIKey); err != nil {
		g.reject(c, err)
		return
	}

	// The subject is readable even from an expired access token; the
	// orchestrator decides afterwards whether the token is acceptable.
	claims, err := g.codec.Parse(creds.AccessToken)
	if err != nil {
		g.reject(c, token.ErrInvalidAccessToken)
		return
	}

	u, err := g.store.FindByEmail(c.Request.Context(), claims.Subject)
	if err != nil {
		g.reject(c, err)
		return
	}

	outcome, err := g.refresher.Refresh(c.Request.Context(), creds.AccessToken, creds.RefreshToken, u)
	if err != nil {
		g.reject(c, err)
		return
	}

	// Rewrite cookies only for the kinds that actually rotated.
	if outcome.AccessToken != creds.AccessToken {
		g.cookies.Set(c.Writer, token.Access, outcome.AccessToken, g.builder.TTL(token.Access))
	}
	if outcome.RefreshToken != creds.RefreshToken {
		g.cookies.Set(c.Writer, token.Refresh, outcome.RefreshToken, g.builder.TTL(token.Refresh))
	}

	c.Request = c.Request.WithContext(withCurrentUser(c.Request.Context(), outcome.User))
	c.Next()
}

// reject short-circuits the request with the structured 401 body and
// reports the failure to the event sink.
func (g *Gatekeeper) reject(c *gin.Context, err error) {
	message := clientMessage(err)
	body := gin.H{
		"error":   "Unauthorized",
		"message": message,
	}

	g.sink.Track(c.ClientIP(), failureEvent(err), map[string]any{
		"error":   "Unauthorized",
		"message": message,
		"path":    c.Request.URL.Path,
	})

	logger.Warn("authentication rejected", map[string]any{
		"path":   c.Request.URL.Path,
		"reason": err.Error(),
	})

	c.AbortWithStatusJSON(http.StatusUnauthorized, body)
}

// clientMessage maps a rejection to the text exposed in the response
// body. Only the known credential failures surface their reason;
// anything else, such as a store outage, stays internal.
func clientMessage(err error) string {
	for _, known := range []error{
		auth.ErrInvalidAPIKey,
		token.ErrInvalidAccessToken,
		token.ErrInvalidRefreshToken,
		token.ErrExpiredRefreshToken,
		user.ErrNotFound,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return "authentication failed"
}

func failureEvent(err error) string {
	switch {
	case errors.Is(err, auth.ErrInvalidAPIKey):
		return eventAPIKeyFailure
	case errors.Is(err, token.ErrInvalidAccessToken),
		errors.Is(err, token.ErrInvalidRefreshToken),
		errors.Is(err, token.ErrExpiredRefreshToken):
		return eventJWTFailure
	case errors.Is(err, user.ErrNotFound):
		return eventUserNotFound
	default:
		return eventGenericFailure
	}
}
