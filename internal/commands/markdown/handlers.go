package markdowncmd

import (
	"context"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-academy-cms/internal/commands"
	"github.com/goliatone/go-academy-cms/internal/logging"
	"github.com/goliatone/go-academy-cms/internal/markdown"
	"github.com/goliatone/go-academy-cms/pkg/interfaces"
)

const (
	importDirectoryOperation = "markdown.import_directory"
	importFilesOperation     = "markdown.import_files"
)

var (
	_ command.Commander[ImportDirectoryCommand] = (*ImportDirectoryHandler)(nil)
	_ command.Commander[ImportFilesCommand]     = (*ImportFilesHandler)(nil)
)

// Importer is the subset of markdown.Service the handlers drive.
type Importer interface {
	ImportDirectory(ctx context.Context, dir string, opts markdown.ImportOptions) (*markdown.ImportResult, error)
	ImportFiles(ctx context.Context, paths []string, opts markdown.ImportOptions) (*markdown.ImportResult, error)
}

// ImportDirectoryHandler runs directory imports through the shared handler.
type ImportDirectoryHandler struct {
	inner *commands.Handler[ImportDirectoryCommand]
}

// NewImportDirectoryHandler binds the handler to service.
func NewImportDirectoryHandler(service Importer, logger interfaces.Logger, opts ...commands.HandlerOption[ImportDirectoryCommand]) *ImportDirectoryHandler {
	baseLogger := commandsLogger(logger)
	exec := func(ctx context.Context, msg ImportDirectoryCommand) error {
		if service == nil {
			return commands.MissingDependency("markdown service")
		}
		result, err := service.ImportDirectory(ctx, msg.Directory, markdown.ImportOptions{DryRun: msg.DryRun})
		if result != nil {
			logResult(baseLogger, "markdown.command.import_directory.completed", result, msg.DryRun)
		}
		if err != nil {
			return err
		}
		if msg.OnResult != nil {
			msg.OnResult(result)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ImportDirectoryCommand]{
		commands.WithLogger[ImportDirectoryCommand](baseLogger),
		commands.WithOperation[ImportDirectoryCommand](importDirectoryOperation),
		commands.WithMessageFields(func(msg ImportDirectoryCommand) map[string]any {
			fields := map[string]any{"directory": msg.Directory}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ImportDirectoryCommand](baseLogger)),
	}
	return &ImportDirectoryHandler{
		inner: commands.NewHandler(exec, append(handlerOpts, opts...)...),
	}
}

// Execute satisfies command.Commander[ImportDirectoryCommand].
func (h *ImportDirectoryHandler) Execute(ctx context.Context, msg ImportDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ImportFilesHandler runs targeted imports through the shared handler.
type ImportFilesHandler struct {
	inner *commands.Handler[ImportFilesCommand]
}

// NewImportFilesHandler binds the handler to service.
func NewImportFilesHandler(service Importer, logger interfaces.Logger, opts ...commands.HandlerOption[ImportFilesCommand]) *ImportFilesHandler {
	baseLogger := commandsLogger(logger)
	exec := func(ctx context.Context, msg ImportFilesCommand) error {
		if service == nil {
			return commands.MissingDependency("markdown service")
		}
		result, err := service.ImportFiles(ctx, msg.Paths, markdown.ImportOptions{DryRun: msg.DryRun})
		if result != nil {
			logResult(baseLogger, "markdown.command.import_files.completed", result, msg.DryRun)
		}
		if err != nil {
			return err
		}
		if msg.OnResult != nil {
			msg.OnResult(result)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ImportFilesCommand]{
		commands.WithLogger[ImportFilesCommand](baseLogger),
		commands.WithOperation[ImportFilesCommand](importFilesOperation),
		commands.WithMessageFields(func(msg ImportFilesCommand) map[string]any {
			return map[string]any{"file_count": len(msg.Paths)}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ImportFilesCommand](baseLogger)),
	}
	return &ImportFilesHandler{
		inner: commands.NewHandler(exec, append(handlerOpts, opts...)...),
	}
}

// Execute satisfies command.Commander[ImportFilesCommand].
func (h *ImportFilesHandler) Execute(ctx context.Context, msg ImportFilesCommand) error {
	return h.inner.Execute(ctx, msg)
}

func logResult(logger interfaces.Logger, event string, result *markdown.ImportResult, dryRun bool) {
	logging.WithFields(logger, map[string]any{
		"created_count": len(result.Created),
		"updated_count": len(result.Updated),
		"skipped_count": len(result.Skipped),
		"error_count":   len(result.Errors),
		"dry_run":       dryRun,
	}).Info(event)
}

func commandsLogger(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return logging.NoOp()
	}
	return logger
}
