package cachecmd

import (
	"context"
	"errors"
	"fmt"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-academy-cms/internal/commands"
	"github.com/goliatone/go-academy-cms/internal/logging"
	"github.com/goliatone/go-academy-cms/pkg/interfaces"
)

const invalidateOperation = "cache.invalidate"

var _ command.Commander[InvalidateCacheCommand] = (*InvalidateCacheHandler)(nil)

// InvalidateCacheHandler clears caches keyed by scope.
type InvalidateCacheHandler struct {
	inner *commands.Handler[InvalidateCacheCommand]
}

// NewInvalidateCacheHandler binds scope names to invalidators. Scopes without
// an invalidator are skipped.
func NewInvalidateCacheHandler(targets map[string]interfaces.CacheInvalidator, logger interfaces.Logger, opts ...commands.HandlerOption[InvalidateCacheCommand]) *InvalidateCacheHandler {
	if logger == nil {
		logger = logging.NoOp()
	}
	exec := func(ctx context.Context, msg InvalidateCacheCommand) error {
		scopes := msg.Scopes
		if len(scopes) == 0 {
			scopes = AllScopes
		}
		var errs []error
		cleared := 0
		for _, scope := range scopes {
			target, ok := targets[scope]
			if !ok || target == nil {
				continue
			}
			if err := target.InvalidateCache(ctx); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", scope, err))
				continue
			}
			cleared++
		}
		logging.WithFields(logger, map[string]any{
			"scopes":  scopes,
			"cleared": cleared,
		}).Info("cache.command.invalidate.completed")
		return errors.Join(errs...)
	}

	handlerOpts := []commands.HandlerOption[InvalidateCacheCommand]{
		commands.WithLogger[InvalidateCacheCommand](logger),
		commands.WithOperation[InvalidateCacheCommand](invalidateOperation),
		commands.WithTelemetry(commands.DefaultTelemetry[InvalidateCacheCommand](logger)),
	}
	return &InvalidateCacheHandler{
		inner: commands.NewHandler(exec, append(handlerOpts, opts...)...),
	}
}

// Execute satisfies command.Commander[InvalidateCacheCommand].
func (h *InvalidateCacheHandler) Execute(ctx context.Context, msg InvalidateCacheCommand) error {
	return h.inner.Execute(ctx, msg)
}
