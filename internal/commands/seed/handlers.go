package seedcmd

import (
	"context"
	"strings"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-academy-cms/internal/commands"
	"github.com/goliatone/go-academy-cms/internal/logging"
	"github.com/goliatone/go-academy-cms/internal/seed"
	"github.com/goliatone/go-academy-cms/pkg/interfaces"
)

const applyFixtureOperation = "seed.apply_fixture"

var _ command.Commander[ApplyFixtureCommand] = (*ApplyFixtureHandler)(nil)

// Applier is satisfied by *seed.Applier.
type Applier interface {
	Apply(ctx context.Context, fixture *seed.Fixture) (*seed.Result, error)
}

// ApplyFixtureHandler parses a fixture and applies it.
type ApplyFixtureHandler struct {
	inner *commands.Handler[ApplyFixtureCommand]
}

// NewApplyFixtureHandler binds the handler to applier.
func NewApplyFixtureHandler(applier Applier, logger interfaces.Logger, opts ...commands.HandlerOption[ApplyFixtureCommand]) *ApplyFixtureHandler {
	if logger == nil {
		logger = logging.NoOp()
	}
	exec := func(ctx context.Context, msg ApplyFixtureCommand) error {
		if applier == nil {
			return commands.MissingDependency("seed applier")
		}
		fixture, err := loadFixture(msg)
		if err != nil {
			return err
		}
		result, err := applier.Apply(ctx, fixture)
		if err != nil {
			return err
		}
		if msg.OnResult != nil {
			msg.OnResult(result)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ApplyFixtureCommand]{
		commands.WithLogger[ApplyFixtureCommand](logger),
		commands.WithOperation[ApplyFixtureCommand](applyFixtureOperation),
		commands.WithMessageFields(func(msg ApplyFixtureCommand) map[string]any {
			if msg.Path != "" {
				return map[string]any{"path": msg.Path}
			}
			return map[string]any{"bytes": len(msg.Data), "format": msg.Format}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ApplyFixtureCommand](logger)),
	}
	return &ApplyFixtureHandler{
		inner: commands.NewHandler(exec, append(handlerOpts, opts...)...),
	}
}

// Execute satisfies command.Commander[ApplyFixtureCommand].
func (h *ApplyFixtureHandler) Execute(ctx context.Context, msg ApplyFixtureCommand) error {
	return h.inner.Execute(ctx, msg)
}

func loadFixture(msg ApplyFixtureCommand) (*seed.Fixture, error) {
	if len(msg.Data) > 0 {
		format := msg.Format
		if strings.TrimSpace(format) == "" {
			detected, err := seed.FormatFromPath(msg.Path)
			if err != nil {
				return nil, err
			}
			format = detected
		}
		return seed.Parse(msg.Data, format)
	}
	return seed.LoadFile(msg.Path)
}
