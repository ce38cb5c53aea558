package menus

import (
	"errors"
	"fmt"
)

var (
	ErrNameRequired     = errors.New("menus: name is required")
	ErrCodeInvalid      = errors.New("menus: code contains invalid characters")
	ErrCodeExists       = errors.New("menus: code already exists")
	ErrMenuRequired     = errors.New("menus: menu id required")
	ErrItemTitleMissing = errors.New("menus: item title is required")
	ErrItemRequired     = errors.New("menus: item id required")
	ErrPositionNegative = errors.New("menus: position must be zero or greater")
	ErrInvalidInput     = errors.New("menus: invalid input")
)

// NotFoundError is returned when a menu resource cannot be located.
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
