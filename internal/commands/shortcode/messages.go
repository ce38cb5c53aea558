package shortcodecmd

import (
	"io"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const expandContentMessageType = "academy.shortcode.expand_content"

// ExpandContentCommand expands shortcodes in Content and writes the result to
// Output. With Markdown set, Content is rendered to HTML first.
type ExpandContentCommand struct {
	Content  string    `json:"content"`
	Markdown bool      `json:"markdown,omitempty"`
	Output   io.Writer `json:"-"`
}

// Type implements command.Message.
func (ExpandContentCommand) Type() string { return expandContentMessageType }

// Validate requires an output sink.
func (cmd ExpandContentCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Output, validation.NotNil),
	)
}
