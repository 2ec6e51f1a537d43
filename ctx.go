package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

var principalCtxKey = &contextKey{"principal"}
var claimsCtxKey = &contextKey{"claims"}

type contextKey struct {
	name string
}

// WithPrincipal sets the Principal in the given context
func WithPrincipal(ctx context.Context, principal Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey, principal)
}

// PrincipalFromContext finds the principal attached by the authentication
// gate. The second return is false for unauthenticated requests.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	raw, ok := ctx.Value(principalCtxKey).(Principal)
	return raw, ok
}

// WithClaimsContext sets the TokenClaims in the given context
func WithClaimsContext(ctx context.Context, claims *TokenClaims) context.Context {
	return context.WithValue(ctx, claimsCtxKey, claims)
}

// GetClaims extracts the TokenClaims from the standard context
func GetClaims(ctx context.Context) (*TokenClaims, bool) {
	raw, ok := ctx.Value(claimsCtxKey).(*TokenClaims)
	return raw, ok
}

// PrincipalFromLocals reads the principal the gate stored on the fiber
// context under key. An empty key falls back to the middleware default.
func PrincipalFromLocals(c *fiber.Ctx, key string) (Principal, bool) {
	if key == "" {
		key = "principal"
	}
	raw := c.Locals(key)
	if raw == nil {
		return nil, false
	}
	principal, ok := raw.(Principal)
	return principal, ok
}
