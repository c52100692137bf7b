package models

import "time"

// Post is a published piece of content. The slug is derived from the title
// and unique across all posts; the unique index is the source of truth for
// slug allocation.
type Post struct {
	ID        uint   `gorm:"primaryKey"`
	Title     string `gorm:"size:255;not null"`
	Slug      string `gorm:"size:255;uniqueIndex;not null"`
	Content   string `gorm:"type:text;not null"`
	Published bool   `gorm:"index;not null;default:true"`
	AuthorID  uint   `gorm:"index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Author User   `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Likes  []Like `gorm:"constraint:OnDelete:CASCADE"`
}
