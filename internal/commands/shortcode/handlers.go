package shortcodecmd

import (
	"context"
	"fmt"
	"io"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-academy-cms/internal/commands"
	"github.com/goliatone/go-academy-cms/internal/logging"
	"github.com/goliatone/go-academy-cms/pkg/interfaces"
)

const expandContentOperation = "shortcode.expand_content"

var _ command.Commander[ExpandContentCommand] = (*ExpandContentHandler)(nil)

// ExpandContentHandler previews content the way the public site renders it.
type ExpandContentHandler struct {
	inner *commands.Handler[ExpandContentCommand]
}

// NewExpandContentHandler binds the handler to the shortcode service and an
// optional Markdown renderer.
func NewExpandContentHandler(shortcodes interfaces.ShortcodeService, renderer interfaces.MarkdownRenderer, logger interfaces.Logger, opts ...commands.HandlerOption[ExpandContentCommand]) *ExpandContentHandler {
	if logger == nil {
		logger = logging.NoOp()
	}
	exec := func(ctx context.Context, msg ExpandContentCommand) error {
		if shortcodes == nil {
			return commands.MissingDependency("shortcode service")
		}
		content := msg.Content
		if msg.Markdown {
			if renderer == nil {
				return commands.MissingDependency("markdown renderer")
			}
			html, err := renderer.Render(ctx, []byte(content))
			if err != nil {
				return err
			}
			content = string(html)
		}
		expanded, err := shortcodes.Process(ctx, content)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(msg.Output, expanded); err != nil {
			return fmt.Errorf("write expanded content: %w", err)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ExpandContentCommand]{
		commands.WithLogger[ExpandContentCommand](logger),
		commands.WithOperation[ExpandContentCommand](expandContentOperation),
		commands.WithMessageFields(func(msg ExpandContentCommand) map[string]any {
			return map[string]any{"bytes": len(msg.Content), "markdown": msg.Markdown}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ExpandContentCommand](logger)),
	}
	return &ExpandContentHandler{
		inner: commands.NewHandler(exec, append(handlerOpts, opts...)...),
	}
}

// Execute satisfies command.Commander[ExpandContentCommand].
func (h *ExpandContentHandler) Execute(ctx context.Context, msg ExpandContentCommand) error {
	return h.inner.Execute(ctx, msg)
}
