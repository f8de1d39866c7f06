package handler

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup_CreatesUser(t *testing.T) {
	e := setupTest(t)

	user := signup(t, e, "alice@example.com", "alice", "secret123")

	assert.NotZero(t, user["id"])
	assert.Equal(t, "alice@example.com", user["email"])
	assert.Equal(t, "alice", user["username"])
	assert.NotEmpty(t, user["created_at"])
	assert.Nil(t, user["last_login"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "password_hash")
}

func TestSignup_MissingFields(t *testing.T) {
	e := setupTest(t)

	bodies := []echo.Map{
		{"username": "alice", "password": "secret123"},
		{"email": "alice@example.com", "password": "secret123"},
		{"email": "alice@example.com", "username": "alice"},
		{},
	}
	for _, body := range bodies {
		rec := doRequest(t, e, http.MethodPost, "/api/auth/signup", body, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	}
}

// Signing up twice with the same email fails regardless of the other
// fields.
func TestSignup_DuplicateEmail(t *testing.T) {
	e := setupTest(t)

	signup(t, e, "alice@example.com", "alice", "secret123")

	rec := doRequest(t, e, http.MethodPost, "/api/auth/signup", echo.Map{
		"email":    "alice@example.com",
		"username": "someone-else",
		"password": "different",
	}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "email already registered", decodeObject(t, rec)["error"])
}

// A login after signup succeeds and returns the same user id.
func TestLogin_ReturnsSameUser(t *testing.T) {
	e := setupTest(t)

	created := signup(t, e, "alice@example.com", "alice", "secret123")

	rec := doRequest(t, e, http.MethodPost, "/api/auth/login", echo.Map{
		"email":    "alice@example.com",
		"password": "secret123",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	logged := decodeObject(t, rec)
	assert.Equal(t, created["id"], logged["id"])
	assert.Equal(t, "alice@example.com", logged["email"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	e := setupTest(t)

	signup(t, e, "alice@example.com", "alice", "secret123")

	rec := doRequest(t, e, http.MethodPost, "/api/auth/login", echo.Map{
		"email":    "alice@example.com",
		"password": "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, e, http.MethodPost, "/api/auth/login", echo.Map{
		"email":    "nobody@example.com",
		"password": "secret123",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	e := setupTest(t)

	signup(t, e, "alice@example.com", "alice", "secret123")
	cookie := login(t, e, "alice@example.com", "secret123")

	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

// The login response reflects the previous login, so the first one still
// shows last_login as null; the second shows the stamp of the first.
func TestLogin_StampsLastLogin(t *testing.T) {
	e := setupTest(t)

	signup(t, e, "alice@example.com", "alice", "secret123")

	rec := doRequest(t, e, http.MethodPost, "/api/auth/login", echo.Map{
		"email":    "alice@example.com",
		"password": "secret123",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decodeObject(t, rec)["last_login"])

	rec = doRequest(t, e, http.MethodPost, "/api/auth/login", echo.Map{
		"email":    "alice@example.com",
		"password": "secret123",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, decodeObject(t, rec)["last_login"])
}

func TestLogout_RequiresSession(t *testing.T) {
	e := setupTest(t)

	rec := doRequest(t, e, http.MethodPost, "/api/auth/logout", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// Logging out invalidates the session server-side: the old cookie no
// longer opens protected routes.
func TestLogout_RevokesSession(t *testing.T) {
	e := setupTest(t)

	cookie := signupAndLogin(t, e, "alice@example.com", "alice")

	rec := doRequest(t, e, http.MethodGet, "/api/goals", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, e, http.MethodPost, "/api/auth/logout", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, e, http.MethodGet, "/api/goals", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// A second logout with the dead cookie also fails
	rec = doRequest(t, e, http.MethodPost, "/api/auth/logout", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	e := setupTest(t)

	rec := doRequest(t, e, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decodeObject(t, rec)["status"])
}
