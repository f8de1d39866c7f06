package handler

import (
	"net/http"
	"time"

	"goal-service/internal/model"
	"goal-service/internal/session"
	"goal-service/pkg/database"
	"goal-service/pkg/logger"
	"goal-service/pkg/password"
	"goal-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Signup registers a new user. It does not establish a session; the
// caller must log in afterwards.
func Signup(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.SignupCounter.Inc()

	var req struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse signup request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Email == "" || req.Username == "" || req.Password == "" {
		log.Warn("Incomplete signup data",
			zap.String("email", req.Email),
			zap.String("username", req.Username),
			zap.Bool("password_provided", req.Password != ""))
		prometheus.RecordAuthError("incomplete_signup")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing email, username, or password"})
	}

	// Check if user already exists
	defer prometheus.TrackDBOperation("query")(time.Now())
	var existing model.User
	if result := database.GetDB().Where("email = ?", req.Email).First(&existing); result.Error == nil {
		log.Warn("Email already registered", zap.String("email", req.Email))
		prometheus.RecordAuthError("email_already_exists")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already registered"})
	}

	digest, err := password.Hash(req.Password)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		prometheus.RecordAuthError("password_hash_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	user := model.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: digest,
		Active:       true,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&user); result.Error != nil {
		log.Error("Failed to create user", zap.Error(result.Error))
		prometheus.RecordAuthError("user_creation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	log.Info("User registered", zap.String("email", user.Email), zap.Uint("user_id", user.ID))
	return c.JSON(http.StatusCreated, user.Public())
}

// Login verifies credentials and establishes a cookie-backed session
func Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.User
	if result := database.GetDB().Where("email = ?", req.Email).First(&user); result.Error != nil {
		log.Warn("User not found", zap.String("email", req.Email))
		prometheus.RecordAuthError("user_not_found")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if !password.Verify(req.Password, user.PasswordHash) {
		log.Warn("Invalid password", zap.String("email", req.Email))
		prometheus.RecordAuthError("invalid_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	// Serialize before stamping last_login so the response reflects the
	// previous login, not this one
	record := user.Public()

	now := time.Now()
	if err := database.GetDB().Model(&user).Update("last_login", now).Error; err != nil {
		log.Error("Failed to update last login", zap.Error(err))
	}

	sess, err := session.Create(database.GetDB(), user.ID)
	if err != nil {
		log.Error("Failed to create session", zap.Error(err))
		prometheus.RecordAuthError("session_creation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	c.SetCookie(&http.Cookie{
		Name:     session.CookieName(),
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	prometheus.IncreaseActiveSessions()
	log.Info("User logged in", zap.String("email", user.Email), zap.Uint("user_id", user.ID))
	return c.JSON(http.StatusOK, record)
}

// Logout revokes the current session and clears the cookie
func Logout(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LogoutCounter.Inc()

	token, ok := c.Get("session_token").(string)
	if !ok {
		log.Error("No session token in context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := session.Revoke(database.GetDB(), token); err != nil {
		log.Warn("Failed to revoke session", zap.Error(err))
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	c.SetCookie(&http.Cookie{
		Name:     session.CookieName(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	prometheus.DecreaseActiveSessions()
	log.Info("User logged out")
	return c.JSON(http.StatusOK, echo.Map{"message": "logout successful"})
}
