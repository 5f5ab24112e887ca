package models

import "time"

// Session stores a hashed representation of an issued session token so it can be revoked on sign-out.
type Session struct {
	ID        string `gorm:"primaryKey;size:36"`
	CreatedAt time.Time
	UserID    string    `gorm:"size:36;index;not null"`
	TokenHash string    `gorm:"size:128;not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"index;not null"`
	Revoked   bool      `gorm:"default:false"`
}
