// Package auth implements the authentication core of the e-commerce user
// service: account registration, credential verification, JWT issuance and
// validation, and a per-request authentication gate.
//
// Tokens:
//   - TokenProvider signs HS256 bearer tokens carrying the user id as
//     subject plus username, email, name, and role claims. Validation is
//     stateless; tokens expire purely by clock comparison and there is no
//     server-side revocation store.
//
// Credentials:
//   - UserService owns the registration and login rules: username and email
//     uniqueness (username checked first), bcrypt hashing, and the
//     deliberately generic invalid-credentials failure that hides whether a
//     login identifier exists.
//
// Requests:
//   - middleware/tokenware attaches a resolved Principal to the request
//     context when a bearer token checks out and does nothing otherwise.
//     It never rejects a request; returning 401/403 is left to downstream
//     handlers.
package auth
