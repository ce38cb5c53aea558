package categories

import (
	"errors"
	"fmt"
)

var (
	ErrNameRequired     = errors.New("categories: name is required")
	ErrSlugInvalid      = errors.New("categories: slug contains invalid characters")
	ErrSlugExists       = errors.New("categories: slug already exists")
	ErrCategoryRequired = errors.New("categories: category id required")
	ErrInvalidInput     = errors.New("categories: invalid input")
)

// NotFoundError is returned when a category cannot be located.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}
