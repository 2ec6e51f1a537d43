package auth_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/numerouno-life/ecommerce-auth"
)

func newTestService(t *testing.T) *fiber.App {
	t.Helper()

	cfg := &auth.EnvConfig{
		SigningKey:      testSecret,
		TokenExpiration: 86400000,
		SecretPolicy:    auth.SecretPolicyWarn,
		AuthScheme:      "Bearer",
		ContextKey:      "principal",
	}

	repo := auth.NewUsersRepository(newTestDB(t))

	tokens, err := auth.NewTokenProvider(cfg.GetSigningKey(), cfg.GetTokenExpiration(), cfg.GetSecretPolicy(), nil)
	require.NoError(t, err)

	service := auth.NewUserService(repo, tokens)
	resolver := auth.NewUserProvider(repo)
	gate := auth.NewAuthGate(tokens, resolver, cfg)

	app := fiber.New()
	auth.RegisterAuthRoutes(app, auth.NewAuthController(service, gate, cfg.GetContextKey()))

	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	return sendJSON(t, app, http.MethodPost, path, body, "")
}

func sendJSON(t *testing.T, app *fiber.App, method, path string, body any, token string) *http.Response {
	t.Helper()

	buf, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, bytes.NewReader(buf))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeInto(t *testing.T, resp *http.Response, out any) {
	t.Helper()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out), "body: %s", raw)
}

func TestRegisterLoginFlow(t *testing.T) {
	app := newTestService(t)

	resp := postJSON(t, app, "/api/auth/register", map[string]string{
		"username": "alice",
		"email":    "alice@x.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created auth.UserResponse
	decodeInto(t, resp, &created)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "alice", created.Username)
	assert.Equal(t, auth.RoleUser, created.Role)

	// same username, different email: conflict
	resp = postJSON(t, app, "/api/auth/register", map[string]string{
		"username": "alice",
		"email":    "other@x.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var conflict auth.ErrorResponse
	decodeInto(t, resp, &conflict)
	assert.Equal(t, auth.TextCodeAlreadyExists, conflict.Code)

	resp = postJSON(t, app, "/api/auth/login", map[string]string{
		"login":    "alice@x.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result auth.AuthResult
	decodeInto(t, resp, &result)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "Bearer", result.TokenType)
	assert.Equal(t, created.ID, result.UserID)
	assert.Equal(t, "alice", result.Username)
}

func TestLoginByUsername(t *testing.T) {
	app := newTestService(t)

	resp := postJSON(t, app, "/api/auth/register", map[string]string{
		"username": "alice",
		"email":    "alice@x.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, app, "/api/auth/login", map[string]string{
		"login":    "alice",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLoginRejectionsLookAlike(t *testing.T) {
	app := newTestService(t)

	resp := postJSON(t, app, "/api/auth/register", map[string]string{
		"username": "alice",
		"email":    "alice@x.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	wrongPassword := postJSON(t, app, "/api/auth/login", map[string]string{
		"login":    "alice@x.com",
		"password": "wrong-password",
	})
	unknownUser := postJSON(t, app, "/api/auth/login", map[string]string{
		"login":    "nobody@x.com",
		"password": "password123",
	})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, unknownUser.StatusCode)

	var a, b auth.ErrorResponse
	decodeInto(t, wrongPassword, &a)
	decodeInto(t, unknownUser, &b)
	assert.Equal(t, a, b)
}

func TestRegisterValidation(t *testing.T) {
	app := newTestService(t)

	cases := []map[string]string{
		{"username": "al", "email": "alice@x.com", "password": "password123"},
		{"username": "alice", "email": "not-an-email", "password": "password123"},
		{"username": "alice", "email": "alice@x.com", "password": "short"},
		{"username": "alice", "email": "alice@x.com", "password": "password123", "phone_number": "not-a-phone"},
	}

	for _, body := range cases {
		resp := postJSON(t, app, "/api/auth/register", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "body: %v", body)
	}
}

func TestProfileRequiresPrincipal(t *testing.T) {
	app := newTestService(t)

	req := httptest.NewRequest(http.MethodGet, "/api/users/profile", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/api/users/profile", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer not-a-token")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProfileShowAndUpdate(t *testing.T) {
	app := newTestService(t)

	resp := postJSON(t, app, "/api/auth/register", map[string]string{
		"username": "alice",
		"email":    "alice@x.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, app, "/api/auth/login", map[string]string{
		"login":    "alice",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result auth.AuthResult
	decodeInto(t, resp, &result)

	req := httptest.NewRequest(http.MethodGet, "/api/users/profile", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+result.Token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var profile auth.UserResponse
	decodeInto(t, resp, &profile)
	assert.Equal(t, result.UserID, profile.ID)
	assert.Equal(t, "alice@x.com", profile.Email)

	first := "Alice"
	phone := "+79991234567"
	resp = sendJSON(t, app, http.MethodPut, "/api/users/profile", auth.UpdateProfilePayload{
		FirstName: &first,
		Phone:     &phone,
	}, result.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated auth.UserResponse
	decodeInto(t, resp, &updated)
	assert.Equal(t, "Alice", updated.FirstName)
	assert.Equal(t, "+79991234567", updated.Phone)
	assert.Equal(t, "alice", updated.Username)
}

func TestDeletedUserTokenIsUnauthenticated(t *testing.T) {
	cfg := &auth.EnvConfig{
		SigningKey:      testSecret,
		TokenExpiration: 86400000,
		SecretPolicy:    auth.SecretPolicyWarn,
		AuthScheme:      "Bearer",
		ContextKey:      "principal",
	}

	repo := auth.NewUsersRepository(newTestDB(t))
	tokens, err := auth.NewTokenProvider(cfg.GetSigningKey(), cfg.GetTokenExpiration(), cfg.GetSecretPolicy(), nil)
	require.NoError(t, err)

	// token minted for a user that was never stored
	token, err := tokens.Generate(&auth.User{ID: 777, Username: "ghost", Email: "ghost@x.com", Role: auth.RoleUser})
	require.NoError(t, err)

	gate := auth.NewAuthGate(tokens, auth.NewUserProvider(repo), cfg)
	app := fiber.New()
	auth.RegisterAuthRoutes(app, auth.NewAuthController(auth.NewUserService(repo, tokens), gate, cfg.GetContextKey()))

	req := httptest.NewRequest(http.MethodGet, "/api/users/profile", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
