package markdowncmd

import (
	"errors"

	"github.com/goliatone/go-academy-cms/internal/commands"
	"github.com/goliatone/go-academy-cms/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// HandlerSet groups the Markdown command handlers.
type HandlerSet struct {
	ImportDirectory *ImportDirectoryHandler
	ImportFiles     *ImportFilesHandler
}

// RegisterMarkdownCommands builds the Markdown handlers and registers them
// with reg when it is non-nil.
func RegisterMarkdownCommands(reg CommandRegistry, service Importer, provider interfaces.LoggerProvider) (*HandlerSet, error) {
	if service == nil {
		return nil, errors.New("markdown command registration: service is nil")
	}
	logger := commands.CommandLogger(provider, "markdown")
	set := &HandlerSet{
		ImportDirectory: NewImportDirectoryHandler(service, logger),
		ImportFiles:     NewImportFilesHandler(service, logger),
	}
	if reg != nil {
		for _, handler := range []any{set.ImportDirectory, set.ImportFiles} {
			if err := reg.RegisterCommand(handler); err != nil {
				return nil, err
			}
		}
	}
	return set, nil
}
