package models

import "time"

// Session binds an opaque token to a user for the store-backed session mode.
// The user is referenced by ID only; a session whose user is gone is stale
// and must not resolve.
type Session struct {
	ID        string    `gorm:"primaryKey;size:64"` // random token, e.g. UUID
	UserID    uint      `gorm:"index;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time
}
