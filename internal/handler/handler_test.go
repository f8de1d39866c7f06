package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"goal-service/internal/session"
	"goal-service/pkg/config"
	"goal-service/pkg/database"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTest wires the router against a fresh in-memory database
func setupTest(t *testing.T) *echo.Echo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps the in-memory database alive and shared
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	database.DB = db

	session.Initialize(&config.SessionConfig{
		CookieName: "session_token",
		TTL:        time.Hour,
	})

	return NewRouter()
}

// doRequest performs a JSON request against the router
func doRequest(t *testing.T, e *echo.Echo, method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// decodeObject decodes a JSON object response body
func decodeObject(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// decodeList decodes a JSON array response body
func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// signup registers a user and returns the created record
func signup(t *testing.T, e *echo.Echo, email, username, pass string) map[string]interface{} {
	t.Helper()
	rec := doRequest(t, e, http.MethodPost, "/api/auth/signup", echo.Map{
		"email":    email,
		"username": username,
		"password": pass,
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeObject(t, rec)
}

// login authenticates and returns the session cookie
func login(t *testing.T, e *echo.Echo, email, pass string) *http.Cookie {
	t.Helper()
	rec := doRequest(t, e, http.MethodPost, "/api/auth/login", echo.Map{
		"email":    email,
		"password": pass,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == session.CookieName() && cookie.Value != "" {
			return cookie
		}
	}
	t.Fatal("no session cookie in login response")
	return nil
}

// signupAndLogin creates a user and returns an authenticated cookie
func signupAndLogin(t *testing.T, e *echo.Echo, email, username string) *http.Cookie {
	t.Helper()
	signup(t, e, email, username, "secret123")
	return login(t, e, email, "secret123")
}

// createGoal creates a goal through the API and returns its record
func createGoal(t *testing.T, e *echo.Echo, cookie *http.Cookie, body echo.Map) map[string]interface{} {
	t.Helper()
	rec := doRequest(t, e, http.MethodPost, "/api/goals", body, cookie)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeObject(t, rec)
}
