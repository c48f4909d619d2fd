package app

import (
	"context"
	"errors"
	"net/http"

	"feather-api/internal/auth"
	"feather-api/internal/auth/handler"
	"feather-api/internal/auth/provider/linkedin"
	"feather-api/internal/config"
	"feather-api/internal/endpoint"
	"feather-api/internal/events"
	"feather-api/internal/logger"
	"feather-api/internal/middleware"
	"feather-api/internal/token"
	"feather-api/internal/user"

	"github.com/gin-gonic/gin"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	if cfg.JWTSecret == "" {
		return nil, nil, errors.New("JWT_SECRET must be configured")
	}
	if cfg.APIKey == "" {
		return nil, nil, errors.New("API_KEY must be configured")
	}

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	store := user.NewPostgresStore(infra.DB)

	codec := token.NewCodec(cfg.JWTSecret)
	builder := token.NewBuilder(codec, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	validator := token.NewValidator(codec, cfg.RefreshRotateWindow)
	locker := token.NewRedisLocker(infra.Redis.Client)
	refresher := token.NewRefresher(store, builder, validator, locker)

	apiKeyChecker := auth.NewAPIKeyChecker(cfg.APIKey)
	cookies := auth.NewCookieWriter(cfg.Environment != "dev")

	var sink events.Sink = events.Noop{}
	var closeSink func() error
	if cfg.PosthogAPIKey != "" {
		posthogSink, err := events.NewPostHogSink(cfg.PosthogAPIKey, cfg.PosthogHost)
		if err != nil {
			return nil, nil, err
		}
		sink = posthogSink
		closeSink = posthogSink.Close
		logger.Info("posthog sink ready", nil)
	}

	linkedinProvider, err := linkedin.New(
		ctx,
		cfg.LinkedinClientID,
		cfg.LinkedinClientSecret,
		cfg.LinkedinRedirectURL,
	)
	if err != nil {
		return nil, nil, err
	}

	authService := auth.NewService(linkedinProvider, store, builder)

	authHandler := handler.NewHandler(
		linkedinProvider,
		authService,
		cookies,
		builder,
		cfg.FrontendURL,
	)

	// ----------------------------
	// Routes + tier declarations
	// ----------------------------

	registry := endpoint.NewRegistry()
	router := gin.New()
	router.Use(gin.Recovery())

	routes := []struct {
		tier    endpoint.Tier
		method  string
		path    string
		handler gin.HandlerFunc
	}{
		{endpoint.TierPublic, http.MethodGet, "/health", healthHandler},
		{endpoint.TierAPIKey, http.MethodGet, "/auth/linkedin/loginUrl", authHandler.LoginURL},
		{endpoint.TierPublic, http.MethodGet, "/auth/linkedin/callback", authHandler.Callback},
		{endpoint.TierFull, http.MethodGet, "/auth/isAuthenticated", authHandler.IsAuthenticated},
		{endpoint.TierFull, http.MethodDelete, "/auth/logout", authHandler.Logout},
		{endpoint.TierFull, http.MethodGet, "/api/me", authHandler.Me},
	}

	for _, r := range routes {
		// conflicting classifications are fatal; the process must not start
		if err := registry.Declare(r.tier, r.path); err != nil {
			return nil, nil, err
		}
	}

	gatekeeper := middleware.NewGatekeeper(
		registry.Build(),
		apiKeyChecker,
		store,
		codec,
		refresher,
		builder,
		cookies,
		sink,
	)

	// Installed before any handler so it runs for every request,
	// including unregistered paths, which are default-denied through
	// the full tier before gin 404s.
	router.Use(gatekeeper.Handle())

	for _, r := range routes {
		router.Handle(r.method, r.path, r.handler)
	}

	for _, route := range router.Routes() {
		logger.Info("route registered", map[string]any{
			"method": route.Method,
			"path":   route.Path,
		})
	}

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		if closeSink != nil {
			if err := closeSink(); err != nil {
				logger.Error("posthog close failed", map[string]any{
					"error": err.Error(),
				})
			}
		}
		if err := infra.Redis.Close(); err != nil {
			logger.Error("redis close failed", map[string]any{
				"error": err.Error(),
			})
		}
		return infra.DB.Close()
	}, nil
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
