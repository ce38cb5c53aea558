package menus

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Menu groups navigation links under a unique code.
type Menu struct {
	bun.BaseModel `bun:"table:menus,alias:m"`

	ID        uuid.UUID   `bun:",pk,type:uuid" json:"id"`
	Name      string      `bun:"name,notnull" json:"name"`
	Code      string      `bun:"code,notnull,unique" json:"code"`
	IsActive  bool        `bun:"is_active,notnull" json:"is_active"`
	CreatedAt time.Time   `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time   `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
	Items     []*MenuItem `bun:"rel:has-many,join:id=menu_id" json:"items,omitempty"`
}

// MenuItem is a single link inside a menu. A nil URL renders as a
// placeholder link.
type MenuItem struct {
	bun.BaseModel `bun:"table:menu_items,alias:mi"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	MenuID    uuid.UUID `bun:"menu_id,notnull,type:uuid" json:"menu_id"`
	Title     string    `bun:"title,notnull" json:"title"`
	URL       *string   `bun:"url" json:"url,omitempty"`
	Position  int       `bun:"position,notnull,default:0" json:"position"`
	IsActive  bool      `bun:"is_active,notnull" json:"is_active"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// URLValue returns the item URL or an empty string when unset.
func (i *MenuItem) URLValue() string {
	if i == nil || i.URL == nil {
		return ""
	}
	return *i.URL
}

func cloneMenu(src *Menu) *Menu {
	if src == nil {
		return nil
	}
	cloned := *src
	cloned.Items = nil
	return &cloned
}

func cloneMenuItem(src *MenuItem) *MenuItem {
	if src == nil {
		return nil
	}
	cloned := *src
	if src.URL != nil {
		url := *src.URL
		cloned.URL = &url
	}
	return &cloned
}
