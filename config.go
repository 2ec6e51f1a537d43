package auth

import (
	"os"
	"strconv"
)

// EnvConfig reads the deployment configuration from the environment. The
// signing secret and TTL come from the deployment; everything else has a
// sensible default.
type EnvConfig struct {
	SigningKey      string
	TokenExpiration int64 // milliseconds
	SecretPolicy    SecretPolicy
	AuthScheme      string
	ContextKey      string
	ListenAddr      string
	DatabaseDSN     string
}

var _ Config = (*EnvConfig)(nil)

// ConfigFromEnv loads the configuration. Call godotenv.Load first if a
// .env file should be honored.
func ConfigFromEnv() *EnvConfig {
	cfg := &EnvConfig{
		SigningKey:      os.Getenv("JWT_SECRET"),
		TokenExpiration: envInt64("JWT_EXPIRATION", 86400000), // 24h
		SecretPolicy:    SecretPolicy(envString("JWT_SECRET_POLICY", string(SecretPolicyWarn))),
		AuthScheme:      envString("AUTH_SCHEME", "Bearer"),
		ContextKey:      envString("AUTH_CONTEXT_KEY", "principal"),
		ListenAddr:      envString("HTTP_ADDR", ":8080"),
		DatabaseDSN:     envString("DATABASE_DSN", "file:users.db?cache=shared"),
	}

	return cfg
}

func (c *EnvConfig) GetSigningKey() string         { return c.SigningKey }
func (c *EnvConfig) GetTokenExpiration() int64     { return c.TokenExpiration }
func (c *EnvConfig) GetSecretPolicy() SecretPolicy { return c.SecretPolicy }
func (c *EnvConfig) GetAuthScheme() string         { return c.AuthScheme }
func (c *EnvConfig) GetContextKey() string         { return c.ContextKey }

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt64(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}
