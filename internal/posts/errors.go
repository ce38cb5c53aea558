package posts

import (
	"errors"
	"fmt"
)

var (
	ErrTitleRequired    = errors.New("posts: title is required")
	ErrSlugInvalid      = errors.New("posts: slug contains invalid characters")
	ErrSlugExists       = errors.New("posts: slug already exists")
	ErrStatusInvalid    = errors.New("posts: status must be draft or published")
	ErrPostRequired     = errors.New("posts: post id required")
	ErrCategoryNotFound = errors.New("posts: category not found")
	ErrInvalidInput     = errors.New("posts: invalid input")
)

// NotFoundError is returned when a post cannot be located.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return "post not found"
	}
	return fmt.Sprintf("post %q not found", e.Key)
}
