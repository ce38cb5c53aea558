package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/goliatone/go-academy-cms/internal/categories"
	"github.com/goliatone/go-academy-cms/internal/posts"
)

type categoryCreatePayload struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug,omitempty"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

type categoryUpdatePayload struct {
	Name        *string `json:"name,omitempty"`
	Slug        *string `json:"slug,omitempty"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

type postCreatePayload struct {
	Title      string     `json:"title"`
	Slug       string     `json:"slug,omitempty"`
	Excerpt    *string    `json:"excerpt,omitempty"`
	Body       string     `json:"body"`
	Status     string     `json:"status,omitempty"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
}

type postUpdatePayload struct {
	Title         *string    `json:"title,omitempty"`
	Slug          *string    `json:"slug,omitempty"`
	Excerpt       *string    `json:"excerpt,omitempty"`
	Body          *string    `json:"body,omitempty"`
	Status        *string    `json:"status,omitempty"`
	CategoryID    *uuid.UUID `json:"category_id,omitempty"`
	ClearCategory bool       `json:"clear_category,omitempty"`
}

func (s *Server) registerCategoryRoutes(r chi.Router) {
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", s.handleCategoryList)
		r.Post("/", s.handleCategoryCreate)
		r.Get("/{id}", s.handleCategoryGet)
		r.Put("/{id}", s.handleCategoryUpdate)
		r.Delete("/{id}", s.handleCategoryDelete)
	})
}

func (s *Server) handleCategoryList(w http.ResponseWriter, r *http.Request) {
	if s.categories == nil {
		writeUnavailable(w)
		return
	}
	var (
		list []*categories.Category
		err  error
	)
	if parseBoolQuery(r.URL.Query().Get("active"), false) {
		list, err = s.categories.ListActive(r.Context())
	} else {
		list, err = s.categories.List(r.Context())
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCategoryGet(w http.ResponseWriter, r *http.Request) {
	if s.categories == nil {
		writeUnavailable(w)
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	record, err := s.categories.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleCategoryCreate(w http.ResponseWriter, r *http.Request) {
	if s.categories == nil {
		writeUnavailable(w)
		return
	}
	var payload categoryCreatePayload
	if !decodePayload(w, r, &payload) {
		return
	}
	created, err := s.categories.Create(r.Context(), categories.CreateCategoryInput{
		Name:        payload.Name,
		Slug:        payload.Slug,
		Description: payload.Description,
		IsActive:    payload.IsActive,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleCategoryUpdate(w http.ResponseWriter, r *http.Request) {
	if s.categories == nil {
		writeUnavailable(w)
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var payload categoryUpdatePayload
	if !decodePayload(w, r, &payload) {
		return
	}
	updated, err := s.categories.Update(r.Context(), categories.UpdateCategoryInput{
		ID:          id,
		Name:        payload.Name,
		Slug:        payload.Slug,
		Description: payload.Description,
		IsActive:    payload.IsActive,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleCategoryDelete(w http.ResponseWriter, r *http.Request) {
	if s.categories == nil {
		writeUnavailable(w)
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.categories.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) registerPostRoutes(r chi.Router) {
	r.Route("/posts", func(r chi.Router) {
		r.Get("/", s.handlePostList)
		r.Post("/", s.handlePostCreate)
		r.Get("/{id}", s.handlePostGet)
		r.Put("/{id}", s.handlePostUpdate)
		r.Delete("/{id}", s.handlePostDelete)
	})
}

func (s *Server) handlePostList(w http.ResponseWriter, r *http.Request) {
	if s.posts == nil {
		writeUnavailable(w)
		return
	}
	limit, err := parseLimit(r.URL.Query().Get("limit"), 0)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	opts := posts.ListOptions{Status: r.URL.Query().Get("status"), Limit: limit}
	if raw := r.URL.Query().Get("category"); raw != "" {
		id, err := parseUUID(raw)
		if err != nil {
			writeBadRequest(w, "invalid category")
			return
		}
		opts.CategoryID = &id
	}
	list, err := s.posts.List(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handlePostGet(w http.ResponseWriter, r *http.Request) {
	if s.posts == nil {
		writeUnavailable(w)
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	record, err := s.posts.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handlePostCreate(w http.ResponseWriter, r *http.Request) {
	if s.posts == nil {
		writeUnavailable(w)
		return
	}
	var payload postCreatePayload
	if !decodePayload(w, r, &payload) {
		return
	}
	created, err := s.posts.Create(r.Context(), posts.CreatePostInput{
		Title:      payload.Title,
		Slug:       payload.Slug,
		Excerpt:    payload.Excerpt,
		Body:       payload.Body,
		Status:     payload.Status,
		CategoryID: payload.CategoryID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handlePostUpdate(w http.ResponseWriter, r *http.Request) {
	if s.posts == nil {
		writeUnavailable(w)
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var payload postUpdatePayload
	if !decodePayload(w, r, &payload) {
		return
	}
	updated, err := s.posts.Update(r.Context(), posts.UpdatePostInput{
		ID:            id,
		Title:         payload.Title,
		Slug:          payload.Slug,
		Excerpt:       payload.Excerpt,
		Body:          payload.Body,
		Status:        payload.Status,
		CategoryID:    payload.CategoryID,
		ClearCategory: payload.ClearCategory,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handlePostDelete(w http.ResponseWriter, r *http.Request) {
	if s.posts == nil {
		writeUnavailable(w)
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.posts.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func pathID(w http.ResponseWriter, r *http.Request, key string) (uuid.UUID, bool) {
	id, err := parseUUID(chi.URLParam(r, key))
	if err != nil {
		writeBadRequest(w, "invalid "+key)
		return uuid.Nil, false
	}
	return id, true
}

// decodePayload writes a 400 and returns false when the body is not valid
// JSON. An empty body decodes to the zero payload.
func decodePayload(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := decodeJSON(r, target); err != nil && !errors.Is(err, io.EOF) {
		writeBadRequest(w, err.Error())
		return false
	}
	return true
}
