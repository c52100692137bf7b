// Package slug derives unique URL-safe identifiers from post titles.
package slug

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"hacktivity/internal/models"

	"gorm.io/gorm"
)

// maxProbes bounds the collision counter so a pathological number of posts
// sharing one title cannot turn allocation into an unbounded scan.
const maxProbes = 100

var (
	// ErrEmptySlug: the title normalizes to nothing (e.g. all punctuation).
	// Upstream validation keeps this from happening on real requests.
	ErrEmptySlug = errors.New("title produces an empty slug")
	// ErrExhausted: no free slug within maxProbes candidates.
	ErrExhausted = errors.New("no free slug for title")
)

// Make normalizes a title into slug form: lowercase, runs of characters
// outside [a-z0-9] collapse to single hyphens, no leading or trailing hyphen.
func Make(title string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}
	return b.String()
}

// Candidate returns the nth slug candidate for a title. n < 0 is the base
// slug; otherwise the zero-based counter is appended to the title (not the
// slug) before normalizing, so "Hello World" probes hello-world,
// hello-world0, hello-world1, ...
func Candidate(title string, n int) string {
	if n < 0 {
		return Make(title)
	}
	return Make(title + strconv.Itoa(n))
}

// Allocator assigns unique slugs to posts. The posts table's unique index on
// slug is the source of truth: Create and Rename attempt the write and treat
// a duplicate-key failure as a collision, so two concurrent creations with
// the same title can never both win the same slug.
type Allocator struct {
	DB *gorm.DB
}

func NewAllocator(db *gorm.DB) *Allocator {
	return &Allocator{DB: db}
}

// Create inserts the post, filling in the first free slug for its title.
func (a *Allocator) Create(ctx context.Context, post *models.Post) error {
	if Make(post.Title) == "" {
		return ErrEmptySlug
	}
	for n := -1; n < maxProbes; n++ {
		post.Slug = Candidate(post.Title, n)
		err := a.DB.WithContext(ctx).Create(post).Error
		if err == nil {
			return nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// slug taken, advance the counter; reset the ID gorm may
			// have assigned on the failed attempt
			post.ID = 0
			continue
		}
		return fmt.Errorf("insert post: %w", err)
	}
	return ErrExhausted
}

// Rename recomputes the slug for a new title and updates the post. The
// post's own current slug is not a collision: if a candidate matches it, the
// slug is kept as is.
func (a *Allocator) Rename(ctx context.Context, post *models.Post, title string) error {
	if Make(title) == "" {
		return ErrEmptySlug
	}
	for n := -1; n < maxProbes; n++ {
		candidate := Candidate(title, n)
		if candidate == post.Slug {
			post.Title = title
			return a.save(ctx, post)
		}
		prev := post.Slug
		post.Slug = candidate
		post.Title = title
		err := a.save(ctx, post)
		if err == nil {
			return nil
		}
		post.Slug = prev
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		return err
	}
	return ErrExhausted
}

func (a *Allocator) save(ctx context.Context, post *models.Post) error {
	err := a.DB.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", post.ID).
		Updates(map[string]any{
			"title":   post.Title,
			"slug":    post.Slug,
			"content": post.Content,
		}).Error
	if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("update post: %w", err)
	}
	return err
}
