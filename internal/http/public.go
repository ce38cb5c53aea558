package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/goliatone/go-academy-cms/internal/categories"
	"github.com/goliatone/go-academy-cms/internal/menus"
	"github.com/goliatone/go-academy-cms/internal/posts"
)

type publicCategory struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
}

type publicCategoryRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type publicPost struct {
	ID           uuid.UUID          `json:"id"`
	Title        string             `json:"title"`
	Slug         string             `json:"slug"`
	Excerpt      *string            `json:"excerpt,omitempty"`
	Body         string             `json:"body,omitempty"`
	PublishedAt  *time.Time         `json:"published_at,omitempty"`
	Category     *publicCategoryRef `json:"category,omitempty"`
	CategoryName string             `json:"category_name,omitempty"`
}

type publicPage struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	Slug  string    `json:"slug"`
}

type publicMenuItem struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	URL      *string   `json:"url"`
	Position int       `json:"position"`
}

type publicMenu struct {
	ID    uuid.UUID        `json:"id"`
	Name  string           `json:"name"`
	Code  string           `json:"code"`
	Items []publicMenuItem `json:"items"`
}

func (s *Server) registerPublicRoutes(r chi.Router) {
	r.Get("/categories", s.handlePublicCategories)
	r.Get("/posts", s.handlePublicPosts)
	r.Get("/posts/{slug}", s.handlePublicPost)
	r.Get("/pages", s.handlePublicPages)
	r.Get("/menus", s.handlePublicMenus)
}

func (s *Server) handlePublicCategories(w http.ResponseWriter, r *http.Request) {
	if s.categories == nil {
		writeUnavailable(w)
		return
	}
	records, err := s.categories.ListActive(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]publicCategory, 0, len(records))
	for _, record := range records {
		out = append(out, toPublicCategory(record))
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": out})
}

func (s *Server) handlePublicPosts(w http.ResponseWriter, r *http.Request) {
	if s.posts == nil {
		writeUnavailable(w)
		return
	}
	limit, err := parseLimit(r.URL.Query().Get("limit"), 0)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	opts := posts.ListOptions{Status: posts.StatusPublished, Limit: limit}
	if raw := r.URL.Query().Get("category"); raw != "" {
		id, err := parseUUID(raw)
		if err != nil {
			writeBadRequest(w, "invalid category")
			return
		}
		opts.CategoryID = &id
	}
	records, err := s.posts.List(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]publicPost, 0, len(records))
	for _, record := range records {
		out = append(out, toPublicPost(record, false))
	}
	writeJSON(w, http.StatusOK, map[string]any{"posts": out})
}

func (s *Server) handlePublicPost(w http.ResponseWriter, r *http.Request) {
	if s.posts == nil {
		writeUnavailable(w)
		return
	}
	record, err := s.posts.GetPublishedBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"post": toPublicPost(record, true)})
}

func (s *Server) handlePublicPages(w http.ResponseWriter, r *http.Request) {
	if s.pages == nil {
		writeUnavailable(w)
		return
	}
	limit, err := parseLimit(r.URL.Query().Get("limit"), 0)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	records, err := s.pages.ListPublished(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]publicPage, 0, len(records))
	for _, record := range records {
		out = append(out, publicPage{ID: record.ID, Title: record.Title, Slug: record.Slug})
	}
	writeJSON(w, http.StatusOK, map[string]any{"pages": out})
}

func (s *Server) handlePublicMenus(w http.ResponseWriter, r *http.Request) {
	if s.menus == nil {
		writeUnavailable(w)
		return
	}
	records, err := s.menus.ListActive(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]publicMenu, 0, len(records))
	for _, record := range records {
		out = append(out, toPublicMenu(record))
	}
	writeJSON(w, http.StatusOK, map[string]any{"menus": out})
}

func toPublicCategory(record *categories.Category) publicCategory {
	return publicCategory{
		ID:          record.ID,
		Name:        record.Name,
		Slug:        record.Slug,
		Description: record.Description,
	}
}

func toPublicPost(record *posts.Post, withBody bool) publicPost {
	out := publicPost{
		ID:           record.ID,
		Title:        record.Title,
		Slug:         record.Slug,
		Excerpt:      record.Excerpt,
		PublishedAt:  record.PublishedAt,
		CategoryName: record.CategoryName(),
	}
	if record.Category != nil {
		out.Category = &publicCategoryRef{ID: record.Category.ID, Name: record.Category.Name}
	}
	if withBody {
		out.Body = record.Body
	}
	return out
}

func toPublicMenu(record *menus.Menu) publicMenu {
	out := publicMenu{
		ID:    record.ID,
		Name:  record.Name,
		Code:  record.Code,
		Items: make([]publicMenuItem, 0, len(record.Items)),
	}
	for _, item := range record.Items {
		out.Items = append(out.Items, publicMenuItem{
			ID:       item.ID,
			Title:    item.Title,
			URL:      item.URL,
			Position: item.Position,
		})
	}
	return out
}
