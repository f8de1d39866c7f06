package model

import (
	"time"

	"gorm.io/gorm"
)

// Session maps an opaque token carried by the client's cookie to the
// authenticated user. Logout deletes the row, which invalidates the token
// server-side.
type Session struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Token     string    `json:"-" gorm:"uniqueIndex;not null"` // never expose the actual token
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate hook will be called before creating a new Session record
func (s *Session) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = generateSecureID("ses_")
	}
	if s.Token == "" {
		s.Token = generateSecureToken()
	}
	return nil
}

// IsExpired checks if the session is past its expiry time
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
