package middleware

import (
	"net/http"
	"strings"

	"goal-service/internal/session"
	"goal-service/pkg/database"
	"goal-service/pkg/logger"
	"goal-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthMiddleware resolves the session token from the cookie (or a Bearer
// header for non-browser clients) and binds the user id to the request
// context
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		token := sessionToken(c)
		if token == "" {
			log.Warn("Missing session token")
			prometheus.RecordAuthError("missing_session")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
		}

		userID, err := session.Validate(database.GetDB(), token)
		if err != nil {
			log.Warn("Invalid session token", zap.Error(err))
			prometheus.RecordAuthError("invalid_session")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
		}

		// Store identity in context for the handlers
		c.Set("user_id", userID)
		c.Set("session_token", token)

		return next(c)
	}
}

// sessionToken extracts the token from the session cookie, falling back
// to an Authorization: Bearer header
func sessionToken(c echo.Context) string {
	if cookie, err := c.Cookie(session.CookieName()); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := c.Request().Header.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}
