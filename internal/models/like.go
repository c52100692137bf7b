package models

import "time"

// Like marks that a user liked a post. The composite unique index makes a
// duplicate like a store-level conflict rather than an application check.
type Like struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"uniqueIndex:idx_like_user_post;not null"`
	PostID    uint `gorm:"uniqueIndex:idx_like_user_post;index;not null"`
	CreatedAt time.Time
}
