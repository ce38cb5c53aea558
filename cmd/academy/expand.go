package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	shortcodecmd "github.com/goliatone/go-academy-cms/internal/commands/shortcode"
)

func newExpandCommand(app *cli) *cobra.Command {
	var asMarkdown bool

	cmd := &cobra.Command{
		Use:   "expand [file|-]",
		Short: "Print content with every [sitemap] shortcode expanded",
		Long: `expand reads content from a file, or from stdin when the argument is "-" or
missing, and prints it with shortcodes replaced by the rendered sitemap.
Files ending in .md are rendered as markdown first.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := "-"
			if len(args) == 1 {
				source = args[0]
			}
			content, err := readSource(cmd.InOrStdin(), source)
			if err != nil {
				return err
			}
			markdown := asMarkdown || strings.EqualFold(filepath.Ext(source), ".md")

			container, err := app.container(cmd)
			if err != nil {
				return err
			}
			defer container.Close()

			return container.ExpandCommand().Execute(cmd.Context(), shortcodecmd.ExpandContentCommand{
				Content:  content,
				Markdown: markdown,
				Output:   cmd.OutOrStdout(),
			})
		},
	}
	cmd.Flags().BoolVar(&asMarkdown, "markdown", false, "render the content as markdown before expanding")
	return cmd
}

func readSource(stdin io.Reader, source string) (string, error) {
	if source == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
