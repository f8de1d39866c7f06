// Package session implements the token-to-user mapping behind the
// session cookie. Tokens are opaque random strings stored as rows, so a
// logout or an expiry invalidates them server-side.
package session

import (
	"errors"
	"time"

	"goal-service/internal/model"
	"goal-service/pkg/config"

	"gorm.io/gorm"
)

var (
	cookieName = "session_token"
	ttl        = 24 * time.Hour
)

// ErrInvalidSession is returned when a token is unknown, expired, or revoked
var ErrInvalidSession = errors.New("invalid or expired session")

// Initialize configures the session store from application config
func Initialize(cfg *config.SessionConfig) {
	if cfg.CookieName != "" {
		cookieName = cfg.CookieName
	}
	if cfg.TTL > 0 {
		ttl = cfg.TTL
	}
}

// CookieName returns the name of the session cookie
func CookieName() string {
	return cookieName
}

// TTL returns the configured session lifetime
func TTL() time.Duration {
	return ttl
}

// Create establishes a new session for the given user and returns it
func Create(db *gorm.DB, userID uint) (*model.Session, error) {
	s := &model.Session{
		UserID:    userID,
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := db.Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// Validate resolves a token to the bound user id. Expired sessions are
// deleted on sight.
func Validate(db *gorm.DB, token string) (uint, error) {
	if token == "" {
		return 0, ErrInvalidSession
	}

	var s model.Session
	if err := db.Where("token = ?", token).First(&s).Error; err != nil {
		return 0, ErrInvalidSession
	}

	if s.IsExpired() {
		db.Delete(&s)
		return 0, ErrInvalidSession
	}

	return s.UserID, nil
}

// Revoke deletes the session bound to the token
func Revoke(db *gorm.DB, token string) error {
	result := db.Where("token = ?", token).Delete(&model.Session{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvalidSession
	}
	return nil
}
