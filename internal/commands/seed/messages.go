package seedcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-academy-cms/internal/seed"
)

const applyFixtureMessageType = "academy.seed.apply_fixture"

// ApplyFixtureCommand loads a JSON or YAML fixture and upserts it. Either Path
// or Data must be set; Format is inferred from Path when empty.
type ApplyFixtureCommand struct {
	Path     string             `json:"path,omitempty"`
	Data     []byte             `json:"data,omitempty"`
	Format   string             `json:"format,omitempty"`
	OnResult func(*seed.Result) `json:"-"`
}

// Type implements command.Message.
func (ApplyFixtureCommand) Type() string { return applyFixtureMessageType }

// Validate requires a source and a known format.
func (cmd ApplyFixtureCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Path, validation.When(len(cmd.Data) == 0, validation.Required.Error("path or data is required"))),
		validation.Field(&cmd.Format,
			validation.When(len(cmd.Data) > 0 && strings.TrimSpace(cmd.Path) == "", validation.Required),
			validation.In(seed.FormatJSON, seed.FormatYAML, "yml"),
		),
	)
}
