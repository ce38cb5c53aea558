package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-academy-cms/internal/pages"
)

type pageCreatePayload struct {
	Title  string `json:"title"`
	Slug   string `json:"slug,omitempty"`
	Body   string `json:"body"`
	Status string `json:"status,omitempty"`
}

type pageUpdatePayload struct {
	Title  *string `json:"title,omitempty"`
	Slug   *string `json:"slug,omitempty"`
	Body   *string `json:"body,omitempty"`
	Status *string `json:"status,omitempty"`
}

func (s *Server) registerPageRoutes(r chi.Router) {
	r.Route("/pages", func(r chi.Router) {
		r.Get("/", s.handlePageList)
		r.Post("/", s.handlePageCreate)
		r.Get("/{id}", s.handlePageGet)
		r.Put("/{id}", s.handlePageUpdate)
		r.Delete("/{id}", s.handlePageDelete)
	})
}

func (s *Server) handlePageList(w http.ResponseWriter, r *http.Request) {
	if s.pages == nil {
		writeUnavailable(w)
		return
	}
	limit, err := parseLimit(r.URL.Query().Get("limit"), 0)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	list, err := s.pages.List(r.Context(), pages.ListOptions{Status: r.URL.Query().Get("status"), Limit: limit})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handlePageGet(w http.ResponseWriter, r *http.Request) {
	if s.pages == nil {
		writeUnavailable(w)
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	record, err := s.pages.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handlePageCreate(w http.ResponseWriter, r *http.Request) {
	if s.pages == nil {
		writeUnavailable(w)
		return
	}
	var payload pageCreatePayload
	if !decodePayload(w, r, &payload) {
		return
	}
	created, err := s.pages.Create(r.Context(), pages.CreatePageInput{
		Title:  payload.Title,
		Slug:   payload.Slug,
		Body:   payload.Body,
		Status: payload.Status,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handlePageUpdate(w http.ResponseWriter, r *http.Request) {
	if s.pages == nil {
		writeUnavailable(w)
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var payload pageUpdatePayload
	if !decodePayload(w, r, &payload) {
		return
	}
	updated, err := s.pages.Update(r.Context(), pages.UpdatePageInput{
		ID:     id,
		Title:  payload.Title,
		Slug:   payload.Slug,
		Body:   payload.Body,
		Status: payload.Status,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handlePageDelete(w http.ResponseWriter, r *http.Request) {
	if s.pages == nil {
		writeUnavailable(w)
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.pages.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
