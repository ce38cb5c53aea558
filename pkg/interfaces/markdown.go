package interfaces

import "context"

// MarkdownRenderer converts stored Markdown bodies into HTML before shortcode
// expansion runs on the result.
type MarkdownRenderer interface {
	Render(ctx context.Context, markdown []byte) ([]byte, error)
}
