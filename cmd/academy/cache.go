package main

import (
	"fmt"

	"github.com/spf13/cobra"

	cachecmd "github.com/goliatone/go-academy-cms/internal/commands/cache"
)

func newInvalidateCacheCommand(app *cli) *cobra.Command {
	var scopes []string

	cmd := &cobra.Command{
		Use:   "invalidate-cache",
		Short: "Drop cached repository reads",
		RunE: func(cmd *cobra.Command, _ []string) error {
			container, err := app.container(cmd)
			if err != nil {
				return err
			}
			defer container.Close()

			if err := container.CacheCommand().Execute(cmd.Context(), cachecmd.InvalidateCacheCommand{Scopes: scopes}); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "cache invalidated")
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&scopes, "scope", nil, "scopes to invalidate (categories, posts, pages, menus); all when omitted")
	return cmd
}

func newRunJobCommand(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "run-job <name>",
		Short: "Run a scheduled job once (cache_invalidation, markdown_import)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := app.container(cmd)
			if err != nil {
				return err
			}
			defer container.Close()

			scheduler, err := container.Scheduler()
			if err != nil {
				return err
			}
			if err := scheduler.Run(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "job %s completed\n", args[0])
			return nil
		},
	}
}
