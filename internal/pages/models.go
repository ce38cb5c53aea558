package pages

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Page is a standalone site page served at /{slug}.
type Page struct {
	bun.BaseModel `bun:"table:pages,alias:pg"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Title     string    `bun:"title,notnull" json:"title"`
	Slug      string    `bun:"slug,notnull,unique" json:"slug"`
	Body      string    `bun:"body,notnull" json:"body"`
	Status    string    `bun:"status,notnull" json:"status"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// IsPublished reports whether the page is visible on the public site.
func (p *Page) IsPublished() bool {
	return p != nil && p.Status == StatusPublished
}

func clonePage(src *Page) *Page {
	if src == nil {
		return nil
	}
	cloned := *src
	return &cloned
}
