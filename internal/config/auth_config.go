package config

import "time"

// AuthConfig holds token and bootstrap-account settings
type AuthConfig struct {
	JWTSecret       []byte
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	AdminUsername   string
	AdminPassword   string
	IngestAPIKey    string
	CleanupInterval time.Duration
}

// GetAuthConfig returns authentication configuration from environment variables
func GetAuthConfig() *AuthConfig {
	return &AuthConfig{
		JWTSecret:       []byte(getEnv("JWT_SECRET", "default-secret-key-change-in-production")),
		AccessTokenTTL:  getEnvAsDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL: getEnvAsDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		AdminUsername:   getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:   getEnv("ADMIN_PASSWORD", ""),
		IngestAPIKey:    getEnv("LOG_INGEST_API_KEY", ""),
		CleanupInterval: getEnvAsDuration("TOKEN_CLEANUP_INTERVAL", 24*time.Hour),
	}
}
