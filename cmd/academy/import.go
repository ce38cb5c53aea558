package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	markdowncmd "github.com/goliatone/go-academy-cms/internal/commands/markdown"
	"github.com/goliatone/go-academy-cms/internal/logging"
	"github.com/goliatone/go-academy-cms/internal/markdown"
)

func newImportCommand(app *cli) *cobra.Command {
	var (
		dryRun bool
		watch  bool
	)

	cmd := &cobra.Command{
		Use:   "import [directory]",
		Short: "Import markdown files from the content directory as posts",
		Long: `import upserts every markdown file below the content directory (or the given
sub directory) as a post keyed by slug. With --watch it keeps running and
re-imports files as they change.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := app.container(cmd)
			if err != nil {
				return err
			}
			defer container.Close()

			handlers, err := container.MarkdownCommands()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			directory := ""
			if len(args) == 1 {
				directory = args[0]
			}
			if err := handlers.ImportDirectory.Execute(cmd.Context(), markdowncmd.ImportDirectoryCommand{
				Directory: directory,
				DryRun:    dryRun,
				OnResult:  func(result *markdown.ImportResult) { printImportResult(out, result) },
			}); err != nil {
				return err
			}
			if !watch {
				return nil
			}

			logger := logging.MarkdownLogger(container.LoggerProvider())
			watcher, err := markdown.NewWatcher(app.config.Markdown.ContentDir, markdown.WithWatcherLogger(logger))
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(out, "watching %s\n", app.config.Markdown.ContentDir)
			return watcher.Run(ctx, func(ctx context.Context, paths []string) {
				err := handlers.ImportFiles.Execute(ctx, markdowncmd.ImportFilesCommand{
					Paths:    paths,
					DryRun:   dryRun,
					OnResult: func(result *markdown.ImportResult) { printImportResult(out, result) },
				})
				if err != nil {
					logging.WithError(logger, err).Error("markdown.watch.import_failed")
				}
			})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "resolve documents without writing")
	cmd.Flags().BoolVar(&watch, "watch", false, "keep running and re-import changed files")
	return cmd
}

func printImportResult(out io.Writer, result *markdown.ImportResult) {
	fmt.Fprintf(out, "created: %d, updated: %d, skipped: %d, errors: %d\n",
		len(result.Created), len(result.Updated), len(result.Skipped), len(result.Errors))
	for _, slug := range result.Created {
		fmt.Fprintf(out, "  + %s\n", slug)
	}
	for _, slug := range result.Updated {
		fmt.Fprintf(out, "  ~ %s\n", slug)
	}
}
