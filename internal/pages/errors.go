package pages

import (
	"errors"
	"fmt"
)

var (
	ErrTitleRequired = errors.New("pages: title is required")
	ErrSlugInvalid   = errors.New("pages: slug contains invalid characters")
	ErrSlugExists    = errors.New("pages: slug already exists")
	ErrSlugReserved  = errors.New("pages: slug is reserved by a site route")
	ErrStatusInvalid = errors.New("pages: status must be draft or published")
	ErrPageRequired  = errors.New("pages: page id required")
	ErrInvalidInput  = errors.New("pages: invalid input")
)

// NotFoundError is returned when a page cannot be located.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return "page not found"
	}
	return fmt.Sprintf("page %q not found", e.Key)
}
