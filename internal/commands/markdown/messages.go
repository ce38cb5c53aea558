package markdowncmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-academy-cms/internal/markdown"
)

const (
	importDirectoryMessageType = "academy.markdown.import_directory"
	importFilesMessageType     = "academy.markdown.import_files"
)

// ImportDirectoryCommand imports every Markdown file below Directory as a post.
// An empty Directory imports the configured content root.
type ImportDirectoryCommand struct {
	Directory string `json:"directory,omitempty"`
	DryRun    bool   `json:"dry_run,omitempty"`

	// OnResult receives the import summary after a successful run.
	OnResult func(*markdown.ImportResult) `json:"-"`
}

// Type implements command.Message.
func (ImportDirectoryCommand) Type() string { return importDirectoryMessageType }

// Validate rejects directories that escape the content root.
func (cmd ImportDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.By(func(value any) error {
			dir, _ := value.(string)
			if strings.Contains(dir, "..") {
				return validation.NewError("academy.markdown.import_directory.directory_invalid", "directory must stay within the content root")
			}
			return nil
		})),
	)
}

// ImportFilesCommand imports specific files, typically the paths reported by
// the watcher.
type ImportFilesCommand struct {
	Paths    []string                     `json:"paths"`
	DryRun   bool                         `json:"dry_run,omitempty"`
	OnResult func(*markdown.ImportResult) `json:"-"`
}

// Type implements command.Message.
func (ImportFilesCommand) Type() string { return importFilesMessageType }

// Validate requires at least one path.
func (cmd ImportFilesCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Paths, validation.Required, validation.Each(validation.Required)),
	)
}
