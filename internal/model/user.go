package model

import (
	"time"

	"gorm.io/gorm"
)

// User represents the user model stored in the database
type User struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Email        string         `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Username     string         `json:"username" gorm:"type:varchar(50);uniqueIndex"`
	PasswordHash string         `json:"-" gorm:"type:varchar(255);not null"`
	Active       bool           `json:"-" gorm:"default:true"`
	CreatedAt    time.Time      `json:"created_at"`
	LastLogin    *time.Time     `json:"last_login"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`

	Goals []Goal `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// Public returns the user record shape exposed by the API
func (u *User) Public() map[string]interface{} {
	return map[string]interface{}{
		"id":         u.ID,
		"email":      u.Email,
		"username":   u.Username,
		"created_at": FormatTimestamp(u.CreatedAt),
		"last_login": formatTimestampPtr(u.LastLogin),
	}
}
