package shortcodecmd

import (
	"errors"

	"github.com/goliatone/go-academy-cms/internal/commands"
	"github.com/goliatone/go-academy-cms/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// RegisterShortcodeCommands builds the expansion handler and registers it
// with reg when it is non-nil. renderer may be nil.
func RegisterShortcodeCommands(reg CommandRegistry, service interfaces.ShortcodeService, renderer interfaces.MarkdownRenderer, provider interfaces.LoggerProvider) (*ExpandContentHandler, error) {
	if service == nil {
		return nil, errors.New("shortcode command registration: service is nil")
	}
	handler := NewExpandContentHandler(service, renderer, commands.CommandLogger(provider, "shortcode"))
	if reg != nil {
		if err := reg.RegisterCommand(handler); err != nil {
			return nil, err
		}
	}
	return handler, nil
}
