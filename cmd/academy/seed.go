package main

import (
	"fmt"

	"github.com/spf13/cobra"

	seedcmd "github.com/goliatone/go-academy-cms/internal/commands/seed"
	"github.com/goliatone/go-academy-cms/internal/seed"
)

func newSeedCommand(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <fixture.json|fixture.yaml>",
		Short: "Upsert categories, posts, pages and menus from a fixture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := app.container(cmd)
			if err != nil {
				return err
			}
			defer container.Close()

			return container.SeedCommand().Execute(cmd.Context(), seedcmd.ApplyFixtureCommand{
				Path: args[0],
				OnResult: func(result *seed.Result) {
					out := cmd.OutOrStdout()
					fmt.Fprintf(out, "categories: %d created, %d updated\n", result.Categories.Created, result.Categories.Updated)
					fmt.Fprintf(out, "posts: %d created, %d updated\n", result.Posts.Created, result.Posts.Updated)
					fmt.Fprintf(out, "pages: %d created, %d updated\n", result.Pages.Created, result.Pages.Updated)
					fmt.Fprintf(out, "menus: %d created, %d updated\n", result.Menus.Created, result.Menus.Updated)
					fmt.Fprintf(out, "menu items: %d created, %d updated\n", result.MenuItems.Created, result.MenuItems.Updated)
				},
			})
		},
	}
}
