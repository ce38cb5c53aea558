package cachecmd

import (
	"github.com/goliatone/go-academy-cms/internal/commands"
	"github.com/goliatone/go-academy-cms/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// RegisterCacheCommands builds the invalidation handler and registers it with
// reg when it is non-nil.
func RegisterCacheCommands(reg CommandRegistry, targets map[string]interfaces.CacheInvalidator, provider interfaces.LoggerProvider) (*InvalidateCacheHandler, error) {
	handler := NewInvalidateCacheHandler(targets, commands.CommandLogger(provider, "cache"))
	if reg != nil {
		if err := reg.RegisterCommand(handler); err != nil {
			return nil, err
		}
	}
	return handler, nil
}
