package auth

import (
	goerrors "github.com/goliatone/go-errors"
)

// Stable text codes for machine-checkable error kinds.
const (
	TextCodeAlreadyExists      = "USER_ALREADY_EXISTS"
	TextCodeInvalidCredentials = "INVALID_CREDENTIALS"
	TextCodeUserNotFound       = "USER_NOT_FOUND"
	TextCodeTokenExpired       = "TOKEN_EXPIRED"
	TextCodeTokenMalformed     = "TOKEN_MALFORMED"
)

// ErrInvalidCredentials covers both an unresolvable login identifier and a
// password mismatch. The two cases are reported identically on purpose so
// callers cannot enumerate accounts.
var ErrInvalidCredentials = goerrors.New("invalid credentials", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(goerrors.CodeUnauthorized)

// ErrUserNotFound is returned by profile and principal lookups by id.
var ErrUserNotFound = goerrors.New("user not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeUserNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrTokenExpired is internal to the token path; it never reaches API
// callers as a distinct kind.
var ErrTokenExpired = goerrors.New("authentication token expired", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenMalformed covers every structurally broken or badly signed token.
var ErrTokenMalformed = goerrors.New("invalid authentication token", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(goerrors.CodeUnauthorized)

// ErrNoEmptyString rejects empty passwords before they reach bcrypt.
var ErrNoEmptyString = goerrors.New("password must not be empty", goerrors.CategoryValidation)

// ErrMismatchedHashAndPassword is the normalized bcrypt mismatch result.
var ErrMismatchedHashAndPassword = goerrors.New("mismatched hash and password", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized)

func alreadyExistsError(field, value string) *goerrors.Error {
	return goerrors.New("user with "+field+" '"+value+"' already exists", goerrors.CategoryConflict).
		WithTextCode(TextCodeAlreadyExists).
		WithCode(goerrors.CodeConflict).
		WithMetadata(map[string]any{field: value})
}

// IsAlreadyExists reports whether err is a registration conflict.
func IsAlreadyExists(err error) bool {
	return hasTextCode(err, TextCodeAlreadyExists)
}

// IsInvalidCredentials reports whether err is the generic login failure.
func IsInvalidCredentials(err error) bool {
	return hasTextCode(err, TextCodeInvalidCredentials)
}

// IsNotFound reports whether err is a missing-record failure.
func IsNotFound(err error) bool {
	return goerrors.IsNotFound(err)
}

func hasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.TextCode == code
}
