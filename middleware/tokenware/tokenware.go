// Package tokenware is the per-request authentication gate. It extracts a
// bearer token, validates it, resolves a principal, and attaches the
// result to the request. It is fail-open for the request itself (the chain
// always runs) and fail-closed for the principal (any doubt means no
// principal is attached).
package tokenware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// TokenValidator mirrors the auth package token contract to avoid an
// import cycle.
type TokenValidator interface {
	Validate(token string) bool
	UserIDFromToken(token string) (int64, bool)
}

// PrincipalResolverFunc loads the principal for a verified user id.
type PrincipalResolverFunc func(ctx context.Context, userID int64) (any, error)

// ContextEnricherFunc propagates the resolved principal to the standard
// Go context so non-fiber code can read it.
type ContextEnricherFunc func(ctx context.Context, principal any) context.Context

type Config struct {
	// Validator is required.
	Validator TokenValidator
	// Resolver is required; it maps the token subject to a principal.
	Resolver PrincipalResolverFunc
	// ContextEnricher is optional.
	ContextEnricher ContextEnricherFunc
	// ContextKey is the fiber locals key for the principal. Default "principal".
	ContextKey string
	// AuthScheme is the expected authorization scheme. Default "Bearer".
	AuthScheme string
	// Filter skips the gate entirely when it returns true.
	Filter func(*fiber.Ctx) bool
}

// New builds the gate middleware. The per-request pass has three terminal
// states: no token, token rejected, authenticated. All three continue the
// chain; only the last one attaches a principal.
func New(config ...Config) fiber.Handler {
	cfg := configDefault(config...)

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		raw, ok := tokenFromHeader(c.Get(fiber.HeaderAuthorization), cfg.AuthScheme)
		if !ok {
			return c.Next()
		}

		if !cfg.Validator.Validate(raw) {
			return c.Next()
		}

		// validate passed, so a missing subject should not happen; stay
		// unauthenticated if it does
		userID, ok := cfg.Validator.UserIDFromToken(raw)
		if !ok {
			return c.Next()
		}

		principal, err := cfg.Resolver(c.UserContext(), userID)
		if err != nil || principal == nil {
			return c.Next()
		}

		c.Locals(cfg.ContextKey, principal)

		if cfg.ContextEnricher != nil {
			c.SetUserContext(cfg.ContextEnricher(c.UserContext(), principal))
		}

		return c.Next()
	}
}

func configDefault(config ...Config) Config {
	var cfg Config
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Validator == nil {
		panic("AUTH: tokenware configuration: Validator is required.")
	}

	if cfg.Resolver == nil {
		panic("AUTH: tokenware configuration: Resolver is required.")
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "principal"
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	return cfg
}

// tokenFromHeader pulls the raw token out of an Authorization header
// value. Anything other than "<scheme> <token>" counts as no token.
func tokenFromHeader(header, authScheme string) (string, bool) {
	if header == "" {
		return "", false
	}

	l := len(authScheme)
	if len(header) <= l+1 || !strings.EqualFold(header[:l], authScheme) || header[l] != ' ' {
		return "", false
	}

	token := strings.TrimSpace(header[l+1:])
	if token == "" {
		return "", false
	}

	return token, true
}
