package cachecmd

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const invalidateMessageType = "academy.cache.invalidate"

// Scopes understood by InvalidateCacheCommand.
const (
	ScopeCategories = "categories"
	ScopePosts      = "posts"
	ScopePages      = "pages"
	ScopeMenus      = "menus"
)

// AllScopes lists every cache scope in invalidation order.
var AllScopes = []string{ScopeCategories, ScopePosts, ScopePages, ScopeMenus}

// InvalidateCacheCommand clears repository read caches. Empty Scopes clears
// all of them.
type InvalidateCacheCommand struct {
	Scopes []string `json:"scopes,omitempty"`
}

// Type implements command.Message.
func (InvalidateCacheCommand) Type() string { return invalidateMessageType }

// Validate rejects unknown scopes.
func (cmd InvalidateCacheCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Scopes, validation.Each(validation.In(ScopeCategories, ScopePosts, ScopePages, ScopeMenus))),
	)
}
