package config

import (
	"os"
	"time"
)

type Config struct {
	AppPort     string
	Environment string // "dev" disables the Secure cookie flag

	APIKey    string
	JWTSecret string

	AccessTokenTTL      time.Duration
	RefreshTokenTTL     time.Duration
	RefreshRotateWindow time.Duration

	LinkedinClientID     string
	LinkedinClientSecret string
	LinkedinRedirectURL  string
	FrontendURL          string

	RedisAddr     string
	RedisPassword string

	DatabaseDSN string

	PosthogAPIKey string
	PosthogHost   string
}

func Load() Config {

	cfg := Config{

		AppPort:     getEnv("APP_PORT", "8080"),
		Environment: getEnv("APP_ENV", "dev"),

		APIKey:    os.Getenv("API_KEY"),
		JWTSecret: os.Getenv("JWT_SECRET"),

		AccessTokenTTL:      getDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL:     getDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		RefreshRotateWindow: getDuration("REFRESH_ROTATE_WINDOW", 24*time.Hour),

		LinkedinClientID:     os.Getenv("LINKEDIN_CLIENT_ID"),
		LinkedinClientSecret: os.Getenv("LINKEDIN_CLIENT_SECRET"),
		LinkedinRedirectURL:  os.Getenv("LINKEDIN_REDIRECT_URL"),
		FrontendURL:          getEnv("FRONTEND_URL", "/"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		DatabaseDSN: os.Getenv("DATABASE_DSN"),

		PosthogAPIKey: os.Getenv("POSTHOG_API_KEY"),
		PosthogHost:   getEnv("POSTHOG_HOST", "https://eu.i.posthog.com"),
	}

	return cfg

}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
