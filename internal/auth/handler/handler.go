package handler

import (
	"errors"
	"net/http"

	"feather-api/internal/auth"
	"feather-api/internal/auth/provider"
	"feather-api/internal/logger"
	"feather-api/internal/middleware"
	"feather-api/internal/token"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	provider    provider.Provider
	service     *auth.Service
	cookies     *auth.CookieWriter
	builder     *token.Builder
	frontendURL string
}

func NewHandler(
	p provider.Provider,
	service *auth.Service,
	cookies *auth.CookieWriter,
	builder *token.Builder,
	frontendURL string,
) *Handler {
	return &Handler{
		provider:    p,
		service:     service,
		cookies:     cookies,
		builder:     builder,
		frontendURL: frontendURL,
	}
}

// LoginURL returns the provider authorization URL and plants the CSRF
// state cookie the callback will verify.
func (h *Handler) LoginURL(c *gin.Context) {
	state := generateState(c)
	c.JSON(http.StatusOK, gin.H{
		"url": h.provider.AuthCodeURL(state),
	})
}

// Callback completes the federated login: verifies state, exchanges
// the code, sets both token cookies and redirects to the frontend.
func (h *Handler) Callback(c *gin.Context) {
	if !validateState(c) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "invalid state",
		})
		return
	}

	if errParam := c.Query("error"); errParam != "" {
		logger.Warn("oauth callback returned error", map[string]any{
			"provider": h.provider.Name(),
			"error":    errParam,
			"desc":     c.Query("error_description"),
		})
		c.Redirect(http.StatusFound, h.frontendURL)
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "missing authorization code",
		})
		return
	}

	u, pair, err := h.service.Register(c.Request.Context(), code)
	if err != nil {
		var upstream *provider.UpstreamError
		if errors.As(err, &upstream) {
			logger.Error("identity provider call failed", map[string]any{
				"provider": upstream.Provider,
				"error":    upstream.Err.Error(),
			})
			c.JSON(http.StatusBadGateway, gin.H{
				"error": "identity provider unavailable",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "authentication failed",
		})
		return
	}

	h.cookies.Set(c.Writer, token.Refresh, pair.RefreshToken, h.builder.TTL(token.Refresh))
	h.cookies.Set(c.Writer, token.Access, pair.AccessToken, h.builder.TTL(token.Access))

	logger.Info("login completed", map[string]any{
		"provider": h.provider.Name(),
		"user_id":  u.ID.String(),
	})

	c.Redirect(http.StatusFound, h.frontendURL)
}

// IsAuthenticated exists for the frontend to probe the full tier.
func (h *Handler) IsAuthenticated(c *gin.Context) {
	c.JSON(http.StatusOK, true)
}

// Logout clears the stored tokens and both cookies. Always reports
// success.
func (h *Handler) Logout(c *gin.Context) {
	u, ok := middleware.CurrentUser(c.Request.Context())
	if ok {
		if err := h.service.Logout(c.Request.Context(), u); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "logout failed",
			})
			return
		}
	}

	h.cookies.Clear(c.Writer, token.Access)
	h.cookies.Clear(c.Writer, token.Refresh)

	c.JSON(http.StatusOK, true)
}

// Me returns the authenticated principal.
func (h *Handler) Me(c *gin.Context) {
	u, ok := middleware.CurrentUser(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Unauthorized",
			"message": "no authenticated user",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"email": u.Email,
		"roles": u.Roles,
	})
}
