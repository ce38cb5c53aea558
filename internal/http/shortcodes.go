package http

import (
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	cachecmd "github.com/goliatone/go-academy-cms/internal/commands/cache"
	shortcodecmd "github.com/goliatone/go-academy-cms/internal/commands/shortcode"
	"github.com/goliatone/go-academy-cms/internal/shortcode"
	"github.com/goliatone/go-academy-cms/internal/validation"
)

type shortcodeValidatePayload struct {
	Content    string `json:"content,omitempty"`
	Attributes string `json:"attributes,omitempty"`
}

type shortcodePreviewPayload struct {
	Content  string `json:"content"`
	Markdown bool   `json:"markdown,omitempty"`
}

type cacheInvalidatePayload struct {
	Scopes []string `json:"scopes,omitempty"`
}

func (s *Server) registerShortcodeRoutes(r chi.Router) {
	r.Post("/shortcodes/validate", s.handleShortcodeValidate)
	r.Post("/shortcodes/preview", s.handleShortcodePreview)
}

func (s *Server) registerCacheRoutes(r chi.Router) {
	r.Post("/cache/invalidate", s.handleCacheInvalidate)
}

// handleShortcodeValidate reports attribute problems. Expansion itself stays
// lenient, so this is advisory for editors.
func (s *Server) handleShortcodeValidate(w http.ResponseWriter, r *http.Request) {
	var payload shortcodeValidatePayload
	if !decodePayload(w, r, &payload) {
		return
	}

	var issues []validation.ValidationIssue
	if strings.TrimSpace(payload.Attributes) != "" {
		for _, problem := range shortcode.ValidateAttributes(payload.Attributes) {
			issues = append(issues, validation.ValidationIssue{Location: "attributes", Message: problem})
		}
	}
	problems := shortcode.ValidateContent(payload.Content)
	locations := make([]string, 0, len(problems))
	for location := range problems {
		locations = append(locations, location)
	}
	sort.Strings(locations)
	for _, location := range locations {
		for _, problem := range problems[location] {
			issues = append(issues, validation.ValidationIssue{Location: location, Message: problem})
		}
	}

	if len(issues) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:   "validation_failed",
			Message: "shortcode attributes are invalid",
			Issues:  issues,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"valid":      true,
		"shortcodes": len(shortcode.Collect(payload.Content)),
	})
}

func (s *Server) handleShortcodePreview(w http.ResponseWriter, r *http.Request) {
	if s.preview == nil {
		writeUnavailable(w)
		return
	}
	var payload shortcodePreviewPayload
	if !decodePayload(w, r, &payload) {
		return
	}
	var out strings.Builder
	err := s.preview.Execute(r.Context(), shortcodecmd.ExpandContentCommand{
		Content:  payload.Content,
		Markdown: payload.Markdown,
		Output:   &out,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"html": out.String()})
}

func (s *Server) handleCacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if s.invalidate == nil {
		writeUnavailable(w)
		return
	}
	var payload cacheInvalidatePayload
	if !decodePayload(w, r, &payload) {
		return
	}
	if err := s.invalidate.Execute(r.Context(), cachecmd.InvalidateCacheCommand{Scopes: payload.Scopes}); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
