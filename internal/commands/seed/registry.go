package seedcmd

import (
	"errors"

	"github.com/goliatone/go-academy-cms/internal/commands"
	"github.com/goliatone/go-academy-cms/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// RegisterSeedCommands builds the fixture handler and registers it with reg
// when it is non-nil.
func RegisterSeedCommands(reg CommandRegistry, applier Applier, provider interfaces.LoggerProvider) (*ApplyFixtureHandler, error) {
	if applier == nil {
		return nil, errors.New("seed command registration: applier is nil")
	}
	handler := NewApplyFixtureHandler(applier, commands.CommandLogger(provider, "seed"))
	if reg != nil {
		if err := reg.RegisterCommand(handler); err != nil {
			return nil, err
		}
	}
	return handler, nil
}
