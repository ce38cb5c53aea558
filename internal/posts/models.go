package posts

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-academy-cms/internal/categories"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Post is a blog article. Body holds Markdown rendered at request time.
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:p"`

	ID          uuid.UUID            `bun:",pk,type:uuid" json:"id"`
	Title       string               `bun:"title,notnull" json:"title"`
	Slug        string               `bun:"slug,notnull,unique" json:"slug"`
	Excerpt     *string              `bun:"excerpt" json:"excerpt,omitempty"`
	Body        string               `bun:"body,notnull" json:"body"`
	Status      string               `bun:"status,notnull" json:"status"`
	CategoryID  *uuid.UUID           `bun:"category_id,type:uuid" json:"category_id,omitempty"`
	PublishedAt *time.Time           `bun:"published_at,nullzero" json:"published_at,omitempty"`
	CreatedAt   time.Time            `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time            `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
	Category    *categories.Category `bun:"rel:belongs-to,join:category_id=id" json:"category,omitempty"`
}

// CategoryName returns the joined category name or "" when uncategorised.
func (p *Post) CategoryName() string {
	if p == nil || p.Category == nil {
		return ""
	}
	return p.Category.Name
}

// IsPublished reports whether the post is visible on the public site.
func (p *Post) IsPublished() bool {
	return p != nil && p.Status == StatusPublished
}

func clonePost(src *Post) *Post {
	if src == nil {
		return nil
	}
	cloned := *src
	if src.Excerpt != nil {
		excerpt := *src.Excerpt
		cloned.Excerpt = &excerpt
	}
	if src.CategoryID != nil {
		id := *src.CategoryID
		cloned.CategoryID = &id
	}
	if src.PublishedAt != nil {
		ts := *src.PublishedAt
		cloned.PublishedAt = &ts
	}
	if src.Category != nil {
		category := *src.Category
		cloned.Category = &category
	}
	return &cloned
}
