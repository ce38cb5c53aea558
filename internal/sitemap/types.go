// Package sitemap loads the site's navigable content and renders it as the
// HTML fragment substituted for `[sitemap]` shortcodes.
package sitemap

// Category is a category as seen by the sitemap renderer.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Post is a published post. CategoryName is empty for uncategorised posts.
type Post struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Slug         string `json:"slug"`
	CategoryName string `json:"category_name,omitempty"`
}

// Page is a published standalone page.
type Page struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// Menu is an active menu with its active items in position order.
type Menu struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Items []MenuItem `json:"items"`
}

// MenuItem is a single menu link. An empty URL means the item has no link.
type MenuItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
}

// Dataset is everything a single expansion renders from. It is read-only once
// loaded and shared by every match of the same call.
type Dataset struct {
	Categories []Category `json:"categories"`
	Posts      []Post     `json:"posts"`
	Pages      []Page     `json:"pages"`
	Menus      []Menu     `json:"menus"`
}

// IsEmpty reports whether no collection holds any record.
func (d Dataset) IsEmpty() bool {
	return len(d.Categories) == 0 && len(d.Posts) == 0 && len(d.Pages) == 0 && len(d.Menus) == 0
}

// Options controls a single rendering of the fragment.
type Options struct {
	ShowTitle bool   `json:"show_title"`
	ClassName string `json:"class_name,omitempty"`
}

// DefaultOptions returns the options used by a bare `[sitemap]`.
func DefaultOptions() Options {
	return Options{ShowTitle: true}
}
