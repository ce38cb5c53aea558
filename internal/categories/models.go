package categories

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Category groups posts for the blog listing and the sitemap accordion.
type Category struct {
	bun.BaseModel `bun:"table:categories,alias:cat"`

	ID          uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Name        string    `bun:"name,notnull" json:"name"`
	Slug        string    `bun:"slug,notnull,unique" json:"slug"`
	Description *string   `bun:"description" json:"description,omitempty"`
	IsActive    bool      `bun:"is_active,notnull" json:"is_active"`
	CreatedAt   time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

func cloneCategory(src *Category) *Category {
	if src == nil {
		return nil
	}
	cloned := *src
	if src.Description != nil {
		desc := *src.Description
		cloned.Description = &desc
	}
	return &cloned
}
