package commands

import (
	"strings"

	"github.com/goliatone/go-academy-cms/internal/logging"
	"github.com/goliatone/go-academy-cms/pkg/interfaces"
)

const commandModuleRoot = "academy.commands"

// CommandLogger returns a module-scoped logger for command handlers tagged
// with the component and command module.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	logger := logging.ModuleLogger(provider, commandModuleRoot+"."+name)
	return logging.WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": name,
	})
}
