package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goliatone/go-academy-cms/internal/categories"
	"github.com/goliatone/go-academy-cms/internal/commands"
	"github.com/goliatone/go-academy-cms/internal/menus"
	"github.com/goliatone/go-academy-cms/internal/pages"
	"github.com/goliatone/go-academy-cms/internal/posts"
	"github.com/goliatone/go-academy-cms/internal/validation"
)

// MaxListLimit caps the limit query parameter on listing endpoints.
const MaxListLimit = 1000

var errInvalidLimit = errors.New("limit must be a non-negative integer")

type errorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message,omitempty"`
	Issues  []validation.ValidationIssue `json:"issues,omitempty"`
}

func joinPath(base, suffix string) string {
	trimmedBase := strings.TrimSpace(base)
	trimmedSuffix := strings.TrimSpace(suffix)
	if trimmedBase == "" {
		if trimmedSuffix == "" {
			return "/"
		}
		return "/" + strings.Trim(trimmedSuffix, "/")
	}
	baseClean := "/" + strings.Trim(trimmedBase, "/")
	if trimmedSuffix == "" {
		return baseClean
	}
	return baseClean + "/" + strings.Trim(trimmedSuffix, "/")
}

func decodeJSON(r *http.Request, target any) error {
	if r == nil || r.Body == nil {
		return io.EOF
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status, payload := mapError(err)
	writeJSON(w, status, payload)
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: message})
}

func writeUnavailable(w http.ResponseWriter) {
	writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Error: "unknown_error"}
	}

	if isNotFound(err) {
		return http.StatusNotFound, errorResponse{
			Error:   "not_found",
			Message: err.Error(),
		}
	}

	if errors.Is(err, categories.ErrSlugExists) ||
		errors.Is(err, posts.ErrSlugExists) ||
		errors.Is(err, pages.ErrSlugExists) ||
		errors.Is(err, menus.ErrCodeExists) {
		return http.StatusConflict, errorResponse{
			Error:   "conflict",
			Message: err.Error(),
		}
	}

	if errors.Is(err, commands.ErrDependencyMissing) {
		return http.StatusServiceUnavailable, errorResponse{
			Error:   "service_unavailable",
			Message: err.Error(),
		}
	}

	if goerrors.IsCategory(err, goerrors.CategoryValidation) {
		return http.StatusBadRequest, errorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		}
	}

	if errors.Is(err, validation.ErrSchemaInvalid) ||
		errors.Is(err, validation.ErrSchemaValidation) ||
		errors.Is(err, categories.ErrInvalidInput) ||
		errors.Is(err, posts.ErrInvalidInput) ||
		errors.Is(err, pages.ErrInvalidInput) ||
		errors.Is(err, menus.ErrInvalidInput) {
		return http.StatusUnprocessableEntity, errorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
			Issues:  validation.Issues(err),
		}
	}

	if errors.Is(err, categories.ErrNameRequired) ||
		errors.Is(err, categories.ErrSlugInvalid) ||
		errors.Is(err, categories.ErrCategoryRequired) ||
		errors.Is(err, posts.ErrTitleRequired) ||
		errors.Is(err, posts.ErrSlugInvalid) ||
		errors.Is(err, posts.ErrStatusInvalid) ||
		errors.Is(err, posts.ErrPostRequired) ||
		errors.Is(err, posts.ErrCategoryNotFound) ||
		errors.Is(err, pages.ErrTitleRequired) ||
		errors.Is(err, pages.ErrSlugInvalid) ||
		errors.Is(err, pages.ErrSlugReserved) ||
		errors.Is(err, pages.ErrStatusInvalid) ||
		errors.Is(err, pages.ErrPageRequired) ||
		errors.Is(err, menus.ErrNameRequired) ||
		errors.Is(err, menus.ErrCodeInvalid) ||
		errors.Is(err, menus.ErrMenuRequired) ||
		errors.Is(err, menus.ErrItemTitleMissing) ||
		errors.Is(err, menus.ErrItemRequired) ||
		errors.Is(err, menus.ErrPositionNegative) {
		return http.StatusBadRequest, errorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		}
	}

	return http.StatusInternalServerError, errorResponse{
		Error:   "internal_error",
		Message: err.Error(),
	}
}

func isNotFound(err error) bool {
	var categoryNotFound *categories.NotFoundError
	var postNotFound *posts.NotFoundError
	var pageNotFound *pages.NotFoundError
	var menuNotFound *menus.NotFoundError
	return errors.As(err, &categoryNotFound) ||
		errors.As(err, &postNotFound) ||
		errors.As(err, &pageNotFound) ||
		errors.As(err, &menuNotFound)
}

func parseUUID(value string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return uuid.Nil, errors.New("uuid required")
	}
	parsed, err := uuid.Parse(trimmed)
	if err != nil {
		return uuid.Nil, err
	}
	return parsed, nil
}

// parseLimit reads a listing limit. Empty means fallback; values above
// MaxListLimit are clamped.
func parseLimit(value string, fallback int) (int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil || parsed < 0 {
		return 0, errInvalidLimit
	}
	if parsed > MaxListLimit {
		parsed = MaxListLimit
	}
	return parsed, nil
}

func parseBoolQuery(value string, defaultValue bool) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(trimmed)
	if err != nil {
		return defaultValue
	}
	return parsed
}
