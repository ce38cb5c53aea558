package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-academy-cms/internal/menus"
)

type menuCreatePayload struct {
	Name     string `json:"name"`
	Code     string `json:"code,omitempty"`
	IsActive *bool  `json:"is_active,omitempty"`
}

type menuUpdatePayload struct {
	Name     *string `json:"name,omitempty"`
	Code     *string `json:"code,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type menuItemCreatePayload struct {
	Title    string  `json:"title"`
	URL      *string `json:"url,omitempty"`
	Position *int    `json:"position,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type menuItemUpdatePayload struct {
	Title    *string `json:"title,omitempty"`
	URL      *string `json:"url,omitempty"`
	ClearURL bool    `json:"clear_url,omitempty"`
	Position *int    `json:"position,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

func (s *Server) registerMenuRoutes(r chi.Router) {
	r.Route("/menus", func(r chi.Router) {
		r.Get("/", s.handleMenuList)
		r.Post("/", s.handleMenuCreate)
		r.Get("/{id}", s.handleMenuGet)
		r.Put("/{id}", s.handleMenuUpdate)
		r.Delete("/{id}", s.handleMenuDelete)
		r.Post("/{id}/items", s.handleMenuItemCreate)
		r.Put("/{id}/items/{itemID}", s.handleMenuItemUpdate)
		r.Delete("/{id}/items/{itemID}", s.handleMenuItemDelete)
	})
}

// handleMenuList lists every menu, or answers a single menu when the code
// query parameter is set.
func (s *Server) handleMenuList(w http.ResponseWriter, r *http.Request) {
	if s.menus == nil {
		writeUnavailable(w)
		return
	}
	if code := strings.TrimSpace(r.URL.Query().Get("code")); code != "" {
		record, err := s.menus.GetMenuByCode(r.Context(), code)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, record)
		return
	}
	list, err := s.menus.ListMenus(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleMenuGet(w http.ResponseWriter, r *http.Request) {
	if s.menus == nil {
		writeUnavailable(w)
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	record, err := s.menus.GetMenu(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleMenuCreate(w http.ResponseWriter, r *http.Request) {
	if s.menus == nil {
		writeUnavailable(w)
		return
	}
	var payload menuCreatePayload
	if !decodePayload(w, r, &payload) {
		return
	}
	created, err := s.menus.CreateMenu(r.Context(), menus.CreateMenuInput{
		Name:     payload.Name,
		Code:     payload.Code,
		IsActive: payload.IsActive,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleMenuUpdate(w http.ResponseWriter, r *http.Request) {
	if s.menus == nil {
		writeUnavailable(w)
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var payload menuUpdatePayload
	if !decodePayload(w, r, &payload) {
		return
	}
	updated, err := s.menus.UpdateMenu(r.Context(), menus.UpdateMenuInput{
		ID:       id,
		Name:     payload.Name,
		Code:     payload.Code,
		IsActive: payload.IsActive,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleMenuDelete(w http.ResponseWriter, r *http.Request) {
	if s.menus == nil {
		writeUnavailable(w)
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.menus.DeleteMenu(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleMenuItemCreate(w http.ResponseWriter, r *http.Request) {
	if s.menus == nil {
		writeUnavailable(w)
		return
	}
	menuID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var payload menuItemCreatePayload
	if !decodePayload(w, r, &payload) {
		return
	}
	created, err := s.menus.AddItem(r.Context(), menus.AddMenuItemInput{
		MenuID:   menuID,
		Title:    payload.Title,
		URL:      payload.URL,
		Position: payload.Position,
		IsActive: payload.IsActive,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleMenuItemUpdate(w http.ResponseWriter, r *http.Request) {
	if s.menus == nil {
		writeUnavailable(w)
		return
	}
	if _, ok := pathID(w, r, "id"); !ok {
		return
	}
	itemID, ok := pathID(w, r, "itemID")
	if !ok {
		return
	}
	var payload menuItemUpdatePayload
	if !decodePayload(w, r, &payload) {
		return
	}
	updated, err := s.menus.UpdateItem(r.Context(), menus.UpdateMenuItemInput{
		ID:       itemID,
		Title:    payload.Title,
		URL:      payload.URL,
		ClearURL: payload.ClearURL,
		Position: payload.Position,
		IsActive: payload.IsActive,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleMenuItemDelete(w http.ResponseWriter, r *http.Request) {
	if s.menus == nil {
		writeUnavailable(w)
		return
	}
	if _, ok := pathID(w, r, "id"); !ok {
		return
	}
	itemID, ok := pathID(w, r, "itemID")
	if !ok {
		return
	}
	if err := s.menus.DeleteItem(r.Context(), itemID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
