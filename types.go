package auth

import (
	"context"
	"fmt"
)

// Logger is the minimal logging contract used across the package.
// Callers can plug in any structured logger; see NewZerologLogger.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetTokenExpiration() int64 // milliseconds
	GetSecretPolicy() SecretPolicy
	GetAuthScheme() string
	GetContextKey() string
}

// TokenProvider issues and validates bearer tokens. Validate and the
// extract methods never return an error: any failure, whatever the cause,
// surfaces as false/absent.
type TokenProvider interface {
	Generate(user *User) (string, error)
	Validate(token string) bool
	UserIDFromToken(token string) (int64, bool)
	UsernameFromToken(token string) (string, bool)
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// Principal is the resolved, trusted representation of the requester used
// for authorization decisions. PasswordHash is carried for framework
// compatibility only; it is never compared again after login and must not
// be logged or serialized.
type Principal interface {
	ID() int64
	Username() string
	Email() string
	Role() UserRole
	Authority() string
	PasswordHash() string
}

// PrincipalResolver maps a trusted identity to a Principal.
type PrincipalResolver interface {
	LoadByID(ctx context.Context, id int64) (Principal, error)
	LoadByUsername(ctx context.Context, username string) (Principal, error)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
